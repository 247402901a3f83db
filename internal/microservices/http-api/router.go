// Package httpapi assembles the tasting HTTP API.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"blindtasting/internal/config"
	"blindtasting/internal/microservices/http-api/handler"
	"blindtasting/internal/microservices/http-api/middleware"
	"blindtasting/internal/microservices/http-api/repository"
	"blindtasting/internal/microservices/http-api/service"
	"blindtasting/internal/middleware/auth"
	"blindtasting/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Deps are the long-lived collaborators of the router. Cache, Metrics and
// Ping may be nil.
type Deps struct {
	Config  *config.Config
	Logger  *slog.Logger
	Repos   repository.Repositories
	Cache   repository.SlugCache
	Metrics *metrics.Metrics
	// Ping reports storage health for GET /health.
	Ping func(ctx context.Context) error
}

func NewRouter(d Deps) (*gin.Engine, error) {
	cfg, logger := d.Config, d.Logger
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	resolver := service.NewTastingResolver(d.Repos.Tastings, d.Cache)
	signer, err := auth.NewSessionSigner(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("session signer: %w", err)
	}

	tastingService := service.NewTastingService(d.Repos, resolver, cfg, d.Metrics, logger)
	participantService := service.NewParticipantService(d.Repos.Participants, resolver, signer, d.Metrics, logger)
	ratingService := service.NewRatingService(d.Repos, resolver, d.Metrics)
	reportService := service.NewReportService(d.Repos, resolver, d.Metrics, logger)
	adminService := service.NewAdminService(cfg)

	tastingHandler := handler.NewTastingHandler(tastingService, logger)
	participantHandler := handler.NewParticipantHandler(participantService, cfg.CookieSecure, logger)
	ratingHandler := handler.NewRatingHandler(ratingService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		r.Use(middleware.CORS(origins))
	}

	r.GET("/health", health(d.Ping))
	if cfg.PrometheusEnabled && d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	session := middleware.RequireSession(signer)
	joinGuard := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.JoinRateLimit, cfg.JoinRateBurst))

	tastings := r.Group("/api/tastings")
	{
		tastingHandler.RegisterRoutes(tastings)
		participantHandler.RegisterRoutes(tastings, joinGuard, session)
		ratingHandler.RegisterRoutes(tastings, session)
		reportHandler.RegisterRoutes(tastings)
	}

	admin := r.Group("/api/admin", middleware.RequireAdmin(adminService))
	{
		adminHandler.RegisterRoutes(admin)
		adminTastings := admin.Group("/tastings")
		tastingHandler.RegisterAdminRoutes(adminTastings)
		reportHandler.RegisterAdminRoutes(adminTastings)
	}

	return r, nil
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "storage unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
