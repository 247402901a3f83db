package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"blindtasting/database"
	"blindtasting/internal/config"
	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/microservices/http-api/repository"
	"blindtasting/internal/middleware/auth"
	"blindtasting/pkg/metrics"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	cfg          *config.Config
	repos        repository.Repositories
	resolver     *TastingResolver
	signer       *auth.SessionSigner
	metrics      *metrics.Metrics
	tastings     TastingService
	participants ParticipantService
	ratings      RatingService
	reports      ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.AdminSecret = "admin-secret-0123456789"
	cfg.SessionSecret = "session-secret-0123456789"

	logger := discardLogger()
	gdb, sqlDB, err := database.OpenSQLite(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	repos := repository.NewGormRepositories(gdb)
	resolver := NewTastingResolver(repos.Tastings, nil)
	signer, err := auth.NewSessionSigner(cfg.SessionSecret, time.Hour)
	require.NoError(t, err)
	m := metrics.New()

	return &testEnv{
		cfg:          cfg,
		repos:        repos,
		resolver:     resolver,
		signer:       signer,
		metrics:      m,
		tastings:     NewTastingService(repos, resolver, cfg, m, logger),
		participants: NewParticipantService(repos.Participants, resolver, signer, m, logger),
		ratings:      NewRatingService(repos, resolver, m),
		reports:      NewReportService(repos, resolver, m, logger),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intp(n int) *int         { return &n }
func f64p(f float64) *float64 { return &f }
func strp(s string) *string   { return &s }

// createTasting creates an open tasting with nose and taste criteria on a
// 1..10 scale.
func (e *testEnv) createTasting(t *testing.T, slug string, wines int) *dto.TastingResponse {
	t.Helper()
	resp, err := e.tastings.Create(context.Background(), dto.CreateTastingRequest{
		Title:      "Friday reds",
		HostName:   "Ana",
		PublicSlug: slug,
		PIN:        "4711",
		WineCount:  wines,
		Status:     "open",
		Criteria: []dto.CriterionInput{
			{Label: "Nose", ScaleMin: 1, ScaleMax: 10},
			{Label: "Taste", ScaleMin: 1, ScaleMax: 10, Weight: f64p(2)},
		},
	})
	require.NoError(t, err)
	return resp
}

// join returns the session of a freshly joined participant.
func (e *testEnv) join(t *testing.T, slug, name string) auth.Session {
	t.Helper()
	res, err := e.participants.Join(context.Background(), slug, dto.JoinRequest{Name: name, PIN: "4711"})
	require.NoError(t, err)
	sess, err := e.signer.Verify(res.Token)
	require.NoError(t, err)
	return sess
}

func criterionID(t *testing.T, resp *dto.TastingResponse, label string) string {
	t.Helper()
	for _, c := range resp.Criteria {
		if c.Label == label {
			return c.ID
		}
	}
	t.Fatalf("criterion %q not found", label)
	return ""
}
