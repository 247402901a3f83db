package dto

import (
	"time"

	"blindtasting/internal/microservices/http-api/models"
)

// SubmitRatingRequest scores one wine. The wine is referenced either by id
// or by blind number; scores are merged into any earlier submission.
type SubmitRatingRequest struct {
	WineID      string             `json:"wineId" binding:"omitempty,uuid"`
	BlindNumber *int               `json:"blindNumber" binding:"omitempty,min=1"`
	Scores      map[string]float64 `json:"scores"`
	Comment     *string            `json:"comment" binding:"omitempty,max=1000"`
}

// RatingResponse for returning a participant's own rating
type RatingResponse struct {
	ID          string         `json:"id"`
	WineID      string         `json:"wineId"`
	BlindNumber *int           `json:"blindNumber"`
	Scores      map[string]any `json:"scores"`
	Comment     *string        `json:"comment,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) RatingResponse {
	scores := rating.Scores
	if scores == nil {
		scores = map[string]any{}
	}
	return RatingResponse{
		ID:          rating.ID,
		WineID:      rating.WineID,
		BlindNumber: rating.BlindNumber,
		Scores:      scores,
		Comment:     rating.Comment,
		CreatedAt:   rating.CreatedAt,
		UpdatedAt:   rating.UpdatedAt,
	}
}
