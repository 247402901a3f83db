package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"blindtasting/internal/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// ConnectDB opens the Postgres pool through pgx, applies the embedded
// migrations when enabled and wraps the pool in gorm.
func ConnectDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gorm.DB, *sql.DB, error) {
	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		// close the pool if ping fails to avoid a resource leak
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.RunMigrations {
		if err := migratePostgres(sqlDB, logger); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg)),
		TranslateError: true,
	})
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to initialise gorm: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return gdb, sqlDB, nil
}

func gormLogLevel(cfg *config.Config) gormlogger.LogLevel {
	if cfg.IsDevelopment() && cfg.LogLevel == "debug" {
		return gormlogger.Info
	}
	return gormlogger.Warn
}

func migratePostgres(db *sql.DB, logger *slog.Logger) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	return runMigrations(driver, "postgres", logger)
}

// runMigrations applies migrations/<dialect> with the given driver.
func runMigrations(driver migratedb.Driver, dialect string, logger *slog.Logger) error {
	sub, err := fs.Sub(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dialect, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("Database migrations applied successfully", "dialect", dialect, "version", version)
	return nil
}
