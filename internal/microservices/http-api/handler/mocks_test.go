package handler_test

import (
	"context"

	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/microservices/http-api/service"
	"blindtasting/internal/middleware/auth"
	"blindtasting/internal/report"

	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICES ---

type MockTastingService struct {
	mock.Mock
}

func (m *MockTastingService) Create(ctx context.Context, req dto.CreateTastingRequest) (*dto.TastingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TastingResponse), args.Error(1)
}

func (m *MockTastingService) List(ctx context.Context, page, pageSize int) (*dto.PaginatedTastingResponse, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedTastingResponse), args.Error(1)
}

func (m *MockTastingService) PublicView(ctx context.Context, slug string) (*dto.TastingResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TastingResponse), args.Error(1)
}

func (m *MockTastingService) AdminView(ctx context.Context, slug string) (*dto.TastingResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TastingResponse), args.Error(1)
}

func (m *MockTastingService) SetStatus(ctx context.Context, slug, status string) (*dto.TastingResponse, error) {
	args := m.Called(ctx, slug, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TastingResponse), args.Error(1)
}

func (m *MockTastingService) UpdateWine(ctx context.Context, slug string, blindNumber int, req dto.UpdateWineRequest) (*report.WineView, error) {
	args := m.Called(ctx, slug, blindNumber, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.WineView), args.Error(1)
}

func (m *MockTastingService) AddCriterion(ctx context.Context, slug string, req dto.CriterionInput) (*report.CriterionView, error) {
	args := m.Called(ctx, slug, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.CriterionView), args.Error(1)
}

func (m *MockTastingService) ListParticipants(ctx context.Context, slug string) ([]dto.ParticipantResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ParticipantResponse), args.Error(1)
}

type MockParticipantService struct {
	mock.Mock
}

func (m *MockParticipantService) Join(ctx context.Context, slug string, req dto.JoinRequest) (*service.JoinResult, error) {
	args := m.Called(ctx, slug, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JoinResult), args.Error(1)
}

func (m *MockParticipantService) Me(ctx context.Context, sess auth.Session, slug string) (*dto.ParticipantResponse, error) {
	args := m.Called(ctx, sess, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ParticipantResponse), args.Error(1)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Submit(ctx context.Context, sess auth.Session, slug string, req dto.SubmitRatingRequest) (*dto.RatingResponse, error) {
	args := m.Called(ctx, sess, slug, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) ListMine(ctx context.Context, sess auth.Session, slug string) ([]dto.RatingResponse, error) {
	args := m.Called(ctx, sess, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RatingResponse), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Public(ctx context.Context, slug string) (*report.View, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.View), args.Error(1)
}

func (m *MockReportService) Admin(ctx context.Context, slug string, strategy report.Strategy) (*report.View, error) {
	args := m.Called(ctx, slug, strategy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.View), args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Authenticate(credential string) error {
	args := m.Called(credential)
	return args.Error(0)
}

func (m *MockAdminService) IssueToken() (*dto.AdminTokenResponse, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AdminTokenResponse), args.Error(1)
}
