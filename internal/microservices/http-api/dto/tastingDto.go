package dto

import (
	"time"

	"blindtasting/internal/microservices/http-api/models"
	"blindtasting/internal/report"
)

// CriterionInput describes one scoring dimension when creating a tasting or
// adding a criterion later.
type CriterionInput struct {
	Label    string   `json:"label" binding:"required,max=80"`
	Order    *int     `json:"order"`
	ScaleMin float64  `json:"scaleMin"`
	ScaleMax float64  `json:"scaleMax" binding:"gtefield=ScaleMin"`
	Weight   *float64 `json:"weight" binding:"omitempty,gte=0"`
}

// CreateTastingRequest: payload for creating a tasting with its wine slots
type CreateTastingRequest struct {
	Title           string           `json:"title" binding:"required,max=120"`
	HostName        string           `json:"hostName" binding:"required,max=80"`
	PublicSlug      string           `json:"publicSlug" binding:"omitempty,slug"`
	PIN             string           `json:"pin" binding:"required,min=4,max=32"`
	WineCount       int              `json:"wineCount" binding:"required,min=1,max=99"`
	MaxParticipants int              `json:"maxParticipants" binding:"min=0,max=500"`
	Status          string           `json:"status" binding:"omitempty,tasting_status"`
	Criteria        []CriterionInput `json:"criteria" binding:"required,min=1,max=20,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,tasting_status"`
}

// UpdateWineRequest patches a wine slot. Nil fields are left unchanged and an
// empty string clears an identity field.
type UpdateWineRequest struct {
	IsActive    *bool   `json:"isActive"`
	ServeOrder  *int    `json:"serveOrder" binding:"omitempty,min=0"`
	Winery      *string `json:"winery" binding:"omitempty,max=200"`
	Grape       *string `json:"grape" binding:"omitempty,max=200"`
	Vintage     *string `json:"vintage" binding:"omitempty,max=20"`
	OwnerName   *string `json:"ownerName" binding:"omitempty,max=80"`
	DisplayName *string `json:"displayName" binding:"omitempty,max=200"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,max=2048"`
	ImagePath   *string `json:"imagePath" binding:"omitempty,max=1024"`
}

// TastingResponse is the tasting with its criteria and wine slots. Wines are
// redacted according to the audience it was built for.
type TastingResponse struct {
	ID                  string                 `json:"id"`
	PublicSlug          string                 `json:"publicSlug"`
	Title               string                 `json:"title"`
	HostName            string                 `json:"hostName"`
	Status              string                 `json:"status"`
	WineCount           int                    `json:"wineCount"`
	MaxParticipants     int                    `json:"maxParticipants"`
	PollIntervalSeconds int                    `json:"pollIntervalSeconds"`
	ParticipantCount    *int                   `json:"participantCount,omitempty"`
	Criteria            []report.CriterionView `json:"criteria"`
	Wines               []report.WineView      `json:"wines"`
	CreatedAt           time.Time              `json:"createdAt"`
}

// NewTastingResponse renders a tasting for the given audience
func NewTastingResponse(t *models.Tasting, criteria []models.Criterion, wines []models.Wine, audience report.Audience) *TastingResponse {
	resp := &TastingResponse{
		ID:              t.ID,
		PublicSlug:      t.PublicSlug,
		Title:           t.Title,
		HostName:        t.HostName,
		Status:          t.Status,
		WineCount:       t.WineCount,
		MaxParticipants: t.MaxParticipants,
		Criteria:        make([]report.CriterionView, 0, len(criteria)),
		Wines:           make([]report.WineView, 0, len(wines)),
		CreatedAt:       t.CreatedAt,
	}
	for i := range criteria {
		resp.Criteria = append(resp.Criteria, report.NewCriterionView(criteria[i].ToReport()))
	}
	status := report.Status(t.Status)
	for i := range wines {
		resp.Wines = append(resp.Wines, report.NewWineView(wines[i].ToReport(), status, audience))
	}
	return resp
}

type TastingSummary struct {
	ID         string    `json:"id"`
	PublicSlug string    `json:"publicSlug"`
	Title      string    `json:"title"`
	HostName   string    `json:"hostName"`
	Status     string    `json:"status"`
	WineCount  int       `json:"wineCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromModelToTastingSummary(t *models.Tasting) TastingSummary {
	return TastingSummary{
		ID:         t.ID,
		PublicSlug: t.PublicSlug,
		Title:      t.Title,
		HostName:   t.HostName,
		Status:     t.Status,
		WineCount:  t.WineCount,
		CreatedAt:  t.CreatedAt,
	}
}

// PaginatedTastingResponse for returning paginated tastings
type PaginatedTastingResponse struct {
	Data       []TastingSummary `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

// NewPaginatedTastingResponse creates a paginated tasting response
func NewPaginatedTastingResponse(data []TastingSummary, total, page, pageSize int) *PaginatedTastingResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedTastingResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
