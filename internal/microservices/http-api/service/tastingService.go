package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"blindtasting/internal/config"
	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/microservices/http-api/models"
	"blindtasting/internal/microservices/http-api/repository"
	"blindtasting/internal/middleware/auth"
	"blindtasting/internal/report"
	"blindtasting/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const slugAttempts = 3

type TastingService interface {
	Create(ctx context.Context, req dto.CreateTastingRequest) (*dto.TastingResponse, error)
	List(ctx context.Context, page, pageSize int) (*dto.PaginatedTastingResponse, error)
	PublicView(ctx context.Context, slug string) (*dto.TastingResponse, error)
	AdminView(ctx context.Context, slug string) (*dto.TastingResponse, error)
	// SetStatus moves a tasting to any status; admins may skip or revert steps.
	SetStatus(ctx context.Context, slug, status string) (*dto.TastingResponse, error)
	UpdateWine(ctx context.Context, slug string, blindNumber int, req dto.UpdateWineRequest) (*report.WineView, error)
	AddCriterion(ctx context.Context, slug string, req dto.CriterionInput) (*report.CriterionView, error)
	ListParticipants(ctx context.Context, slug string) ([]dto.ParticipantResponse, error)
}

type tastingService struct {
	repos        repository.Repositories
	resolver     *TastingResolver
	pollInterval time.Duration
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewTastingService(repos repository.Repositories, resolver *TastingResolver, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) TastingService {
	return &tastingService{
		repos:        repos,
		resolver:     resolver,
		pollInterval: cfg.ResultsPollInterval,
		metrics:      m,
		logger:       logger,
	}
}

func (s *tastingService) Create(ctx context.Context, req dto.CreateTastingRequest) (*dto.TastingResponse, error) {
	status := report.StatusDraft
	if req.Status != "" {
		status = report.Status(req.Status)
		if !status.Valid() {
			return nil, invalidInput("invalid status %q", req.Status)
		}
	}
	if req.WineCount < 1 {
		return nil, invalidInput("wineCount must be at least 1")
	}
	if req.MaxParticipants < 0 {
		return nil, invalidInput("maxParticipants must not be negative")
	}
	if req.PublicSlug != "" && !IsValidSlug(req.PublicSlug) {
		return nil, invalidInput("invalid publicSlug %q", req.PublicSlug)
	}

	pinHash, err := auth.HashPIN(req.PIN)
	if err != nil {
		return nil, err
	}

	tasting := &models.Tasting{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(req.Title),
		HostName:        strings.TrimSpace(req.HostName),
		Status:          string(status),
		WineCount:       req.WineCount,
		MaxParticipants: req.MaxParticipants,
		PINHash:         pinHash,
	}

	criteria := make([]models.Criterion, 0, len(req.Criteria))
	for i, in := range req.Criteria {
		c, err := newCriterion(tasting.ID, in, i)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, *c)
	}

	wines := make([]models.Wine, 0, req.WineCount)
	for n := 1; n <= req.WineCount; n++ {
		blind := n
		wines = append(wines, models.Wine{
			ID:          uuid.NewString(),
			TastingID:   tasting.ID,
			BlindNumber: &blind,
			IsActive:    true,
		})
	}

	// a chosen slug gets one attempt, a generated one a few
	attempts := 1
	if req.PublicSlug == "" {
		attempts = slugAttempts
	}
	for i := 0; ; i++ {
		tasting.PublicSlug = req.PublicSlug
		if tasting.PublicSlug == "" {
			tasting.PublicSlug = generateSlug(tasting.Title)
		}
		err = s.repos.Tastings.Create(ctx, tasting, criteria, wines)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		if i+1 >= attempts {
			return nil, newError(ErrConflict, "publicSlug %q is already taken", tasting.PublicSlug)
		}
	}

	s.resolver.remember(ctx, tasting)
	s.logger.Info("tasting created", "tasting_id", tasting.ID, "slug", tasting.PublicSlug, "wines", len(wines))

	resp := dto.NewTastingResponse(tasting, criteria, wines, report.AudienceAdmin)
	resp.PollIntervalSeconds = s.pollSeconds()
	zero := 0
	resp.ParticipantCount = &zero
	return resp, nil
}

func newCriterion(tastingID string, in dto.CriterionInput, index int) (*models.Criterion, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, invalidInput("criterion label is required")
	}
	if in.ScaleMin > in.ScaleMax {
		return nil, invalidInput("criterion %q: scaleMin must not exceed scaleMax", label)
	}
	if in.Weight != nil && *in.Weight < 0 {
		return nil, invalidInput("criterion %q: weight must not be negative", label)
	}
	order := index
	if in.Order != nil {
		order = *in.Order
	}
	return &models.Criterion{
		ID:        uuid.NewString(),
		TastingID: tastingID,
		Label:     label,
		Order:     order,
		ScaleMin:  in.ScaleMin,
		ScaleMax:  in.ScaleMax,
		Weight:    in.Weight,
	}, nil
}

func (s *tastingService) List(ctx context.Context, page, pageSize int) (*dto.PaginatedTastingResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	tastings, total, err := s.repos.Tastings.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TastingSummary, 0, len(tastings))
	for i := range tastings {
		data = append(data, dto.FromModelToTastingSummary(&tastings[i]))
	}
	return dto.NewPaginatedTastingResponse(data, int(total), page, pageSize), nil
}

func (s *tastingService) PublicView(ctx context.Context, slug string) (*dto.TastingResponse, error) {
	return s.view(ctx, slug, report.AudiencePublic)
}

func (s *tastingService) AdminView(ctx context.Context, slug string) (*dto.TastingResponse, error) {
	return s.view(ctx, slug, report.AudienceAdmin)
}

func (s *tastingService) view(ctx context.Context, slug string, audience report.Audience) (*dto.TastingResponse, error) {
	tasting, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, tasting, audience)
}

func (s *tastingService) render(ctx context.Context, tasting *models.Tasting, audience report.Audience) (*dto.TastingResponse, error) {
	criteria, err := s.repos.Criteria.ListByTasting(ctx, tasting.ID)
	if err != nil {
		return nil, err
	}
	wines, err := s.repos.Wines.ListByTasting(ctx, tasting.ID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewTastingResponse(tasting, criteria, wines, audience)
	resp.PollIntervalSeconds = s.pollSeconds()
	if audience == report.AudienceAdmin {
		n, err := s.repos.Participants.CountByTasting(ctx, tasting.ID)
		if err != nil {
			return nil, err
		}
		count := int(n)
		resp.ParticipantCount = &count
	}
	return resp, nil
}

func (s *tastingService) SetStatus(ctx context.Context, slug, status string) (*dto.TastingResponse, error) {
	next := report.Status(status)
	if !next.Valid() {
		return nil, invalidInput("invalid status %q", status)
	}
	tasting, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}

	previous := tasting.Status
	if err := s.repos.Tastings.UpdateStatus(ctx, tasting.ID, status); err != nil {
		if isNotFound(err) {
			return nil, notFound("tasting %q not found", slug)
		}
		return nil, err
	}
	tasting.Status = status

	s.metrics.StatusChanged(status)
	s.logger.Info("tasting status changed", "slug", slug, "from", previous, "to", status)
	return s.render(ctx, tasting, report.AudienceAdmin)
}

func (s *tastingService) UpdateWine(ctx context.Context, slug string, blindNumber int, req dto.UpdateWineRequest) (*report.WineView, error) {
	tasting, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	wine, err := s.repos.Wines.GetByBlindNumber(ctx, tasting.ID, blindNumber)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("wine %d not found", blindNumber)
		}
		return nil, err
	}

	if req.IsActive != nil {
		wine.IsActive = *req.IsActive
	}
	if req.ServeOrder != nil {
		wine.ServeOrder = req.ServeOrder
	}
	patchString(&wine.Winery, req.Winery)
	patchString(&wine.Grape, req.Grape)
	patchString(&wine.Vintage, req.Vintage)
	patchString(&wine.OwnerName, req.OwnerName)
	patchString(&wine.DisplayName, req.DisplayName)
	patchString(&wine.ImageURL, req.ImageURL)
	patchString(&wine.ImagePath, req.ImagePath)

	if err := s.repos.Wines.Update(ctx, wine); err != nil {
		return nil, err
	}
	view := report.NewWineView(wine.ToReport(), report.Status(tasting.Status), report.AudienceAdmin)
	return &view, nil
}

// patchString applies a nullable patch value: nil keeps, "" clears.
func patchString(dst **string, patch *string) {
	if patch == nil {
		return
	}
	v := strings.TrimSpace(*patch)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

func (s *tastingService) AddCriterion(ctx context.Context, slug string, req dto.CriterionInput) (*report.CriterionView, error) {
	tasting, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	existing, err := s.repos.Criteria.ListByTasting(ctx, tasting.ID)
	if err != nil {
		return nil, err
	}

	next := 0
	for _, c := range existing {
		next = max(next, c.Order+1)
	}
	c, err := newCriterion(tasting.ID, req, next)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Criteria.Create(ctx, c); err != nil {
		return nil, err
	}
	view := report.NewCriterionView(c.ToReport())
	return &view, nil
}

func (s *tastingService) ListParticipants(ctx context.Context, slug string) ([]dto.ParticipantResponse, error) {
	tasting, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	participants, err := s.repos.Participants.ListByTasting(ctx, tasting.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ParticipantResponse, 0, len(participants))
	for i := range participants {
		out = append(out, dto.FromModelToParticipantResponse(&participants[i]))
	}
	return out, nil
}

func (s *tastingService) pollSeconds() int {
	return int(s.pollInterval / time.Second)
}
