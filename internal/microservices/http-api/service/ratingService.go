package service

import (
	"context"
	"maps"
	"math"
	"slices"

	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/microservices/http-api/models"
	"blindtasting/internal/microservices/http-api/repository"
	"blindtasting/internal/middleware/auth"
	"blindtasting/internal/report"
	"blindtasting/pkg/metrics"

	"github.com/google/uuid"
)

type RatingService interface {
	// Submit stores a participant's scores for one wine, merging them into
	// any earlier submission for the same wine.
	Submit(ctx context.Context, sess auth.Session, slug string, req dto.SubmitRatingRequest) (*dto.RatingResponse, error)
	ListMine(ctx context.Context, sess auth.Session, slug string) ([]dto.RatingResponse, error)
}

type ratingService struct {
	repos    repository.Repositories
	resolver *TastingResolver
	metrics  *metrics.Metrics
}

func NewRatingService(repos repository.Repositories, resolver *TastingResolver, m *metrics.Metrics) RatingService {
	return &ratingService{
		repos:    repos,
		resolver: resolver,
		metrics:  m,
	}
}

func (s *ratingService) Submit(ctx context.Context, sess auth.Session, slug string, req dto.SubmitRatingRequest) (*dto.RatingResponse, error) {
	if len(req.Scores) == 0 && req.Comment == nil {
		return nil, invalidInput("scores or comment is required")
	}

	tasting, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	participant, err := sessionParticipant(ctx, s.repos.Participants, sess, tasting)
	if err != nil {
		return nil, err
	}
	if report.Status(tasting.Status) != report.StatusOpen {
		return nil, newError(ErrForbidden, "tasting is %s, ratings are only accepted while it is open", tasting.Status)
	}

	wine, err := s.findWine(ctx, tasting.ID, req)
	if err != nil {
		return nil, err
	}
	if !wine.IsActive {
		return nil, invalidInput("wine %d is not part of this tasting anymore", blindOrZero(wine.BlindNumber))
	}

	criteria, err := s.repos.Criteria.ListByTasting(ctx, tasting.ID)
	if err != nil {
		return nil, err
	}
	if err := validateScores(req.Scores, criteria); err != nil {
		return nil, err
	}

	existing, err := s.repos.Ratings.GetByParticipantAndWine(ctx, participant.ID, wine.ID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	rating := &models.Rating{
		ID:            uuid.NewString(),
		TastingID:     tasting.ID,
		ParticipantID: participant.ID,
		WineID:        wine.ID,
		BlindNumber:   wine.BlindNumber,
		Scores:        map[string]any{},
		Comment:       req.Comment,
	}
	if existing != nil {
		rating.ID = existing.ID
		rating.CreatedAt = existing.CreatedAt
		maps.Copy(rating.Scores, existing.Scores)
		if req.Comment == nil {
			rating.Comment = existing.Comment
		}
	}
	for id, v := range req.Scores {
		rating.Scores[id] = v
	}

	if err := s.repos.Ratings.Upsert(ctx, rating); err != nil {
		return nil, err
	}
	s.metrics.RatingSubmitted()

	resp := dto.FromModelToRatingResponse(rating)
	return &resp, nil
}

func (s *ratingService) findWine(ctx context.Context, tastingID string, req dto.SubmitRatingRequest) (*models.Wine, error) {
	var (
		wine *models.Wine
		err  error
	)
	switch {
	case req.WineID != "":
		wine, err = s.repos.Wines.GetByID(ctx, tastingID, req.WineID)
	case req.BlindNumber != nil:
		wine, err = s.repos.Wines.GetByBlindNumber(ctx, tastingID, *req.BlindNumber)
	default:
		return nil, invalidInput("wineId or blindNumber is required")
	}
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("wine not found")
		}
		return nil, err
	}
	if req.WineID != "" && req.BlindNumber != nil &&
		(wine.BlindNumber == nil || *wine.BlindNumber != *req.BlindNumber) {
		return nil, invalidInput("wineId and blindNumber refer to different wines")
	}
	return wine, nil
}

// validateScores requires every key to be a criterion of the tasting and
// every value to lie within that criterion's inclusive scale.
func validateScores(scores map[string]float64, criteria []models.Criterion) error {
	byID := make(map[string]models.Criterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}
	for _, id := range slices.Sorted(maps.Keys(scores)) {
		v := scores[id]
		c, ok := byID[id]
		if !ok {
			return invalidInput("unknown criterion %q", id)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < c.ScaleMin || v > c.ScaleMax {
			return invalidInput("score for %q must be between %g and %g", c.Label, c.ScaleMin, c.ScaleMax)
		}
	}
	return nil
}

func (s *ratingService) ListMine(ctx context.Context, sess auth.Session, slug string) ([]dto.RatingResponse, error) {
	tasting, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	participant, err := sessionParticipant(ctx, s.repos.Participants, sess, tasting)
	if err != nil {
		return nil, err
	}
	ratings, err := s.repos.Ratings.ListByParticipant(ctx, tasting.ID, participant.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, dto.FromModelToRatingResponse(&ratings[i]))
	}
	return out, nil
}

func blindOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
