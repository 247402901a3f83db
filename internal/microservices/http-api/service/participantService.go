package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/microservices/http-api/models"
	"blindtasting/internal/microservices/http-api/repository"
	"blindtasting/internal/middleware/auth"
	"blindtasting/internal/report"
	"blindtasting/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantService interface {
	// Join admits a participant to an open tasting after checking its PIN.
	// Joining again under the same name resumes the earlier participant.
	Join(ctx context.Context, slug string, req dto.JoinRequest) (*JoinResult, error)
	Me(ctx context.Context, sess auth.Session, slug string) (*dto.ParticipantResponse, error)
}

// JoinResult carries the signed session token next to the response body.
type JoinResult struct {
	Response dto.JoinResponse
	Token    string
}

type participantService struct {
	participants repository.ParticipantRepository
	resolver     *TastingResolver
	signer       *auth.SessionSigner
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewParticipantService(participants repository.ParticipantRepository, resolver *TastingResolver, signer *auth.SessionSigner, m *metrics.Metrics, logger *slog.Logger) ParticipantService {
	return &participantService{
		participants: participants,
		resolver:     resolver,
		signer:       signer,
		metrics:      m,
		logger:       logger,
	}
}

func (s *participantService) Join(ctx context.Context, slug string, req dto.JoinRequest) (*JoinResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidInput("name is required")
	}

	tasting, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyPIN(tasting.PINHash, req.PIN); err != nil {
		s.metrics.JoinAttempt("bad_pin")
		return nil, newError(ErrUnauthorized, "invalid PIN")
	}
	if report.Status(tasting.Status) != report.StatusOpen {
		s.metrics.JoinAttempt("not_open")
		return nil, newError(ErrForbidden, "tasting is %s, joining is only possible while it is open", tasting.Status)
	}

	participant, rejoined, err := s.findOrCreate(ctx, tasting, name)
	if err != nil {
		return nil, err
	}

	token, err := s.signer.Sign(auth.Session{TastingID: tasting.ID, ParticipantID: participant.ID})
	if err != nil {
		return nil, err
	}

	s.metrics.JoinAttempt("ok")
	s.logger.Info("participant joined", "slug", slug, "participant_id", participant.ID, "rejoined", rejoined)

	return &JoinResult{
		Token: token,
		Response: dto.JoinResponse{
			Participant: dto.FromModelToParticipantResponse(participant),
			PublicSlug:  tasting.PublicSlug,
			Rejoined:    rejoined,
			ExpiresAt:   time.Now().Add(s.signer.TTL()).UTC(),
		},
	}, nil
}

func (s *participantService) findOrCreate(ctx context.Context, tasting *models.Tasting, name string) (*models.Participant, bool, error) {
	existing, err := s.participants.FindByName(ctx, tasting.ID, name)
	if err == nil {
		return existing, true, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	if tasting.MaxParticipants > 0 {
		count, err := s.participants.CountByTasting(ctx, tasting.ID)
		if err != nil {
			return nil, false, err
		}
		if count >= int64(tasting.MaxParticipants) {
			s.metrics.JoinAttempt("full")
			return nil, false, newError(ErrForbidden, "tasting is full")
		}
	}

	participant := &models.Participant{
		ID:        uuid.NewString(),
		TastingID: tasting.ID,
		Name:      name,
	}
	if err := s.participants.Create(ctx, participant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// someone joined under the same name concurrently
			existing, findErr := s.participants.FindByName(ctx, tasting.ID, name)
			if findErr == nil {
				return existing, true, nil
			}
		}
		return nil, false, err
	}
	return participant, false, nil
}

func (s *participantService) Me(ctx context.Context, sess auth.Session, slug string) (*dto.ParticipantResponse, error) {
	tasting, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}
	participant, err := sessionParticipant(ctx, s.participants, sess, tasting)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToParticipantResponse(participant)
	return &resp, nil
}

// sessionParticipant loads the participant a session belongs to, rejecting
// sessions issued for another tasting.
func sessionParticipant(ctx context.Context, participants repository.ParticipantRepository, sess auth.Session, tasting *models.Tasting) (*models.Participant, error) {
	if sess.TastingID != tasting.ID {
		return nil, newError(ErrUnauthorized, "session does not belong to this tasting")
	}
	participant, err := participants.GetByID(ctx, tasting.ID, sess.ParticipantID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrUnauthorized, "participant no longer exists")
		}
		return nil, err
	}
	return participant, nil
}
