package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"

	"blindtasting/database"
	"blindtasting/internal/config"
	httpapi "blindtasting/internal/microservices/http-api"
	"blindtasting/internal/microservices/http-api/dto"
	"blindtasting/internal/microservices/http-api/repository"
	"blindtasting/internal/report"
	"blindtasting/pkg/metrics"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const adminSecret = "admin-secret-0123456789"

// TastingFlowSuite drives the whole API over HTTP against SQLite
type TastingFlowSuite struct {
	suite.Suite
	server     *httptest.Server
	adminToken string
	tasting    dto.TastingResponse
	nose       string
	taste      string
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.AdminSecret = adminSecret
	cfg.SessionSecret = "session-secret-0123456789"
	cfg.StorageDriver = config.StorageDriverSQLite
	cfg.SQLitePath = ":memory:"
	cfg.JoinRateLimit = 1000
	cfg.JoinRateBurst = 1000
	cfg.CookieSecure = false
	return cfg
}

// newServer serves the API over a private in-memory SQLite database.
func newServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gdb, sqlDB, err := database.OpenSQLite(context.Background(), cfg.SQLitePath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	router, err := httpapi.NewRouter(httpapi.Deps{
		Config:  cfg,
		Logger:  logger,
		Repos:   repository.NewGormRepositories(gdb),
		Metrics: metrics.New(),
		Ping:    sqlDB.PingContext,
	})
	require.NoError(t, err)
	return httptest.NewServer(router)
}

// SetupTest starts a fresh server and creates an open tasting with three wines
func (s *TastingFlowSuite) SetupTest() {
	s.server = newServer(s.T(), testConfig())

	var token dto.AdminTokenResponse
	s.do(http.DefaultClient, http.MethodPost, "/api/admin/token", nil, adminSecret, http.StatusOK, &token)
	s.adminToken = token.Token

	weight := 2.0
	s.do(http.DefaultClient, http.MethodPost, "/api/admin/tastings", dto.CreateTastingRequest{
		Title:      "Friday reds",
		HostName:   "Ana",
		PublicSlug: "friday-reds",
		PIN:        "4711",
		WineCount:  3,
		Status:     "open",
		Criteria: []dto.CriterionInput{
			{Label: "Nose", ScaleMin: 1, ScaleMax: 10},
			{Label: "Taste", ScaleMin: 1, ScaleMax: 10, Weight: &weight},
		},
	}, s.adminToken, http.StatusCreated, &s.tasting)
	s.nose, s.taste = s.tasting.Criteria[0].ID, s.tasting.Criteria[1].ID

	s.do(http.DefaultClient, http.MethodPut, "/api/admin/tastings/friday-reds/wines/1",
		dto.UpdateWineRequest{Winery: strPtr("Musar"), OwnerName: strPtr("Dana")}, s.adminToken, http.StatusOK, nil)
}

func (s *TastingFlowSuite) TearDownTest() {
	s.server.Close()
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

// do sends a JSON request and decodes the response into out when non-nil.
// A non-empty bearer is sent as the Authorization header.
func (s *TastingFlowSuite) do(client *http.Client, method, path string, body any, bearer string, wantStatus int, out any) {
	t := s.T()
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.server.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out))
	}
}

// participant joins with a fresh cookie jar and returns the client holding
// the session cookie
func (s *TastingFlowSuite) participant(name string) *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	client := &http.Client{Jar: jar}
	s.do(client, http.MethodPost, "/api/tastings/friday-reds/join", dto.JoinRequest{Name: name, PIN: "4711"}, "", http.StatusCreated, nil)
	return client
}

func (s *TastingFlowSuite) rate(client *http.Client, req dto.SubmitRatingRequest, wantStatus int) {
	s.do(client, http.MethodPut, "/api/tastings/friday-reds/ratings", req, "", wantStatus, nil)
}

// Test 1: public results stay redacted until the reveal
func (s *TastingFlowSuite) TestRevealGatesIdentity() {
	ana, bo := s.participant("Ana"), s.participant("Bo")
	s.rate(ana, dto.SubmitRatingRequest{WineID: s.tasting.Wines[0].ID, Scores: map[string]float64{s.nose: 8, s.taste: 6}}, http.StatusOK)
	s.rate(bo, dto.SubmitRatingRequest{BlindNumber: intPtr(1), Scores: map[string]float64{s.nose: 10}}, http.StatusOK)

	var public map[string]any
	s.do(http.DefaultClient, http.MethodGet, "/api/tastings/friday-reds/results", nil, "", http.StatusOK, &public)
	row := public["rows"].([]any)[0].(map[string]any)
	s.Equal(8.5, row["overallAvg"])
	s.Equal(float64(2), row["nRatings"])
	s.NotContains(row["wine"], "winery")
	s.NotContains(public, "droppedRatings")

	var info map[string]any
	s.do(http.DefaultClient, http.MethodGet, "/api/tastings/friday-reds", nil, "", http.StatusOK, &info)
	s.NotContains(info["wines"].([]any)[0], "ownerName")
	s.Equal(float64(10), info["pollIntervalSeconds"])

	s.do(http.DefaultClient, http.MethodPatch, "/api/admin/tastings/friday-reds/status",
		dto.UpdateStatusRequest{Status: "revealed"}, s.adminToken, http.StatusOK, nil)

	var revealed report.View
	s.do(http.DefaultClient, http.MethodGet, "/api/tastings/friday-reds/results", nil, "", http.StatusOK, &revealed)
	s.Require().NotNil(revealed.Rows[0].Wine.Winery)
	s.Equal("Musar", *revealed.Rows[0].Wine.Winery)
	s.Equal("Dana", *revealed.Rows[0].Wine.OwnerName)
}

// Test 2: admin report is unredacted and supports the weighted strategy
func (s *TastingFlowSuite) TestAdminReports() {
	ana := s.participant("Ana")
	s.rate(ana, dto.SubmitRatingRequest{BlindNumber: intPtr(1), Scores: map[string]float64{s.nose: 9, s.taste: 6}}, http.StatusOK)
	s.rate(ana, dto.SubmitRatingRequest{BlindNumber: intPtr(2), Scores: map[string]float64{s.nose: 7, s.taste: 9}}, http.StatusOK)

	var live report.View
	s.do(http.DefaultClient, http.MethodGet, "/api/admin/tastings/friday-reds/report", nil, s.adminToken, http.StatusOK, &live)
	s.Equal(report.StrategyRatingMean, live.Strategy)
	s.Require().NotNil(live.DroppedRatings)
	s.Equal(0, *live.DroppedRatings)
	s.Equal("Musar", *live.Rows[0].Wine.Winery)
	s.Equal(7.5, *live.Rows[0].OverallAvg)
	s.Equal(8.0, *live.Rows[1].OverallAvg)
	s.Equal(2, live.Ranking[0].BlindNumber)

	var weighted report.View
	s.do(http.DefaultClient, http.MethodGet, "/api/admin/tastings/friday-reds/ranking/weighted", nil, s.adminToken, http.StatusOK, &weighted)
	s.Equal(report.StrategyWeightedCriteria, weighted.Strategy)
	s.Equal(7.0, *weighted.Rows[0].OverallAvg)
	s.Equal(8.33, *weighted.Rows[1].OverallAvg)

	// the raw secret works as a bearer too
	s.do(http.DefaultClient, http.MethodGet, "/api/admin/tastings/friday-reds/participants", nil, adminSecret, http.StatusOK, nil)
	s.do(http.DefaultClient, http.MethodGet, "/api/admin/tastings/friday-reds/report", nil, "guess", http.StatusUnauthorized, nil)
}

// Test 3: resubmitting merges scores instead of adding a second rating
func (s *TastingFlowSuite) TestResubmitMerges() {
	ana := s.participant("Ana")
	s.rate(ana, dto.SubmitRatingRequest{BlindNumber: intPtr(3), Scores: map[string]float64{s.nose: 4}}, http.StatusOK)
	s.rate(ana, dto.SubmitRatingRequest{BlindNumber: intPtr(3), Scores: map[string]float64{s.taste: 6}}, http.StatusOK)

	var mine struct {
		Ratings []dto.RatingResponse `json:"ratings"`
	}
	s.do(ana, http.MethodGet, "/api/tastings/friday-reds/ratings/me", nil, "", http.StatusOK, &mine)
	s.Require().Len(mine.Ratings, 1)
	s.Equal(map[string]any{s.nose: 4.0, s.taste: 6.0}, mine.Ratings[0].Scores)

	var public report.View
	s.do(http.DefaultClient, http.MethodGet, "/api/tastings/friday-reds/results", nil, "", http.StatusOK, &public)
	s.Equal(1, public.RatingCount)
	s.Equal(5.0, *public.Rows[2].OverallAvg)
}

// Test 4: lifecycle rules for joining and rating
func (s *TastingFlowSuite) TestLifecycle() {
	ana := s.participant("Ana")
	s.do(ana, http.MethodGet, "/api/tastings/friday-reds/me", nil, "", http.StatusOK, nil)
	s.do(http.DefaultClient, http.MethodGet, "/api/tastings/friday-reds/me", nil, "", http.StatusUnauthorized, nil)

	s.do(http.DefaultClient, http.MethodPost, "/api/tastings/friday-reds/join",
		dto.JoinRequest{Name: "Eve", PIN: "0000"}, "", http.StatusUnauthorized, nil)
	s.rate(ana, dto.SubmitRatingRequest{BlindNumber: intPtr(1), Scores: map[string]float64{s.nose: 11}}, http.StatusBadRequest)

	s.do(http.DefaultClient, http.MethodPatch, "/api/admin/tastings/friday-reds/status",
		dto.UpdateStatusRequest{Status: "closed"}, s.adminToken, http.StatusOK, nil)
	s.rate(ana, dto.SubmitRatingRequest{BlindNumber: intPtr(1), Scores: map[string]float64{s.nose: 5}}, http.StatusForbidden)
	s.do(http.DefaultClient, http.MethodPost, "/api/tastings/friday-reds/join",
		dto.JoinRequest{Name: "Bo", PIN: "4711"}, "", http.StatusForbidden, nil)

	s.do(http.DefaultClient, http.MethodGet, "/api/tastings/nope-nope/results", nil, "", http.StatusNotFound, nil)
}

// Test 5: concurrent participants all land in the report
func (s *TastingFlowSuite) TestConcurrentRatings() {
	const participants = 20

	var wg sync.WaitGroup
	for i := range participants {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client := s.participant(fmt.Sprintf("taster-%02d", i))
			s.rate(client, dto.SubmitRatingRequest{
				BlindNumber: intPtr(1 + i%3),
				Scores:      map[string]float64{s.nose: float64(1 + i%10)},
			}, http.StatusOK)
		}(i)
	}
	wg.Wait()

	var live report.View
	s.do(http.DefaultClient, http.MethodGet, "/api/admin/tastings/friday-reds/report", nil, s.adminToken, http.StatusOK, &live)
	s.Equal(participants, live.RatingCount)
	total := 0
	for _, row := range live.Rows {
		total += row.NRatings
	}
	s.Equal(participants, total)
}

// Test 6: health and metrics endpoints
func (s *TastingFlowSuite) TestOperationalEndpoints() {
	s.do(http.DefaultClient, http.MethodGet, "/health", nil, "", http.StatusOK, nil)

	resp, err := http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "blindtasting_http_requests_total")
}

// Test 7: one browser holds a separate session per tasting
func (s *TastingFlowSuite) TestSessionsAreScopedPerTasting() {
	s.do(http.DefaultClient, http.MethodPost, "/api/admin/tastings", dto.CreateTastingRequest{
		Title:      "White night",
		HostName:   "Bo",
		PublicSlug: "white-night",
		PIN:        "1234",
		WineCount:  1,
		Status:     "open",
		Criteria:   []dto.CriterionInput{{Label: "Nose", ScaleMin: 1, ScaleMax: 10}},
	}, s.adminToken, http.StatusCreated, nil)

	ana := s.participant("Ana")
	s.do(ana, http.MethodPost, "/api/tastings/white-night/join", dto.JoinRequest{Name: "Ana", PIN: "4711"}, "", http.StatusUnauthorized, nil)
	s.do(ana, http.MethodPost, "/api/tastings/white-night/join", dto.JoinRequest{Name: "Ana", PIN: "1234"}, "", http.StatusCreated, nil)

	var red, white dto.ParticipantResponse
	s.do(ana, http.MethodGet, "/api/tastings/friday-reds/me", nil, "", http.StatusOK, &red)
	s.do(ana, http.MethodGet, "/api/tastings/white-night/me", nil, "", http.StatusOK, &white)
	s.Equal(s.tasting.ID, red.TastingID)
	s.NotEqual(red.TastingID, white.TastingID)

	// the first session still rates in its own tasting
	s.rate(ana, dto.SubmitRatingRequest{BlindNumber: intPtr(1), Scores: map[string]float64{s.nose: 6}}, http.StatusOK)
}

func TestTastingFlowSuite(t *testing.T) {
	suite.Run(t, new(TastingFlowSuite))
}

func TestJoinIsRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.JoinRateLimit = 0.001
	cfg.JoinRateBurst = 2
	server := newServer(t, cfg)
	defer server.Close()

	codes := make([]int, 0, 3)
	for range 3 {
		resp, err := http.Post(server.URL+"/api/tastings/friday-reds/join", "application/json",
			bytes.NewReader([]byte(`{"name":"Eve","pin":"0000"}`)))
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	require.Equal(t, []int{http.StatusNotFound, http.StatusNotFound, http.StatusTooManyRequests}, codes)
}

func TestNewRouter_RequiresSessionSecret(t *testing.T) {
	cfg := testConfig()
	cfg.SessionSecret = ""

	router, err := httpapi.NewRouter(httpapi.Deps{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.Error(t, err)
	require.Nil(t, router)
}
