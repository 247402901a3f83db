package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blindtasting/database"
	"blindtasting/internal/config"
	httpapi "blindtasting/internal/microservices/http-api"
	"blindtasting/internal/microservices/http-api/repository"
	"blindtasting/pkg/logger"
	"blindtasting/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("api server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	deps := httpapi.Deps{
		Config: cfg,
		Logger: logger,
	}

	connect := database.ConnectDB
	if cfg.StorageDriver == config.StorageDriverSQLite {
		connect = database.ConnectSQLite
		if cfg.SQLitePath == ":memory:" {
			logger.Warn("using in-memory SQLite, data is lost on restart")
		}
	}
	db, sqlDB, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	deps.Repos = repository.NewGormRepositories(db)
	deps.Ping = sqlDB.PingContext

	cache, err := repository.NewRedisSlugCache(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.SlugCacheTTL, logger)
	if err != nil {
		// the cache is optional, lookups fall through to storage
		logger.Warn("slug cache disabled", "error", err)
	}
	if cache != nil {
		defer cache.Close()
		deps.Cache = cache
		logger.Info("slug cache enabled")
	}

	if cfg.PrometheusEnabled {
		deps.Metrics = metrics.New()
	}

	router, err := httpapi.NewRouter(deps)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", "addr", server.Addr, "env", cfg.GoEnv, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
