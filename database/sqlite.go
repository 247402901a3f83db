package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"blindtasting/internal/config"
)

// ConnectSQLite opens the database file named by SQLITE_PATH through the
// pure-Go modernc driver.
func ConnectSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gorm.DB, *sql.DB, error) {
	return openSQLite(ctx, cfg.SQLitePath, cfg.RunMigrations, gormLogLevel(cfg), logger)
}

// OpenSQLite opens path with the schema applied and gorm logging silenced.
// ":memory:" yields a private database that disappears with the pool.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*gorm.DB, *sql.DB, error) {
	return openSQLite(ctx, path, true, gormlogger.Silent, logger)
}

func openSQLite(ctx context.Context, path string, migrations bool, level gormlogger.LogLevel, logger *slog.Logger) (*gorm.DB, *sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open SQLite database at %q: %w", path, err)
	}
	// Limit SQLite to a single open connection to avoid "database is locked"
	// errors; an in-memory database also lives only as long as its connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if migrations {
		if err := migrateSQLite(sqlDB, logger); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	gdb, err := gorm.Open(sqliteDialector{sqlite.New(sqlite.Config{Conn: sqlDB})}, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to initialise gorm: %w", err)
	}

	logger.Info("Connected to the database successfully", "driver", "sqlite", "path", path)
	return gdb, sqlDB, nil
}

func migrateSQLite(db *sql.DB, logger *slog.Logger) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	return runMigrations(driver, "sqlite", logger)
}

// sqliteDSN turns on foreign keys and a busy timeout for every connection.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// sqliteDialector reports modernc constraint errors as the gorm sentinels
// the services match on.
type sqliteDialector struct {
	gorm.Dialector
}

func (d sqliteDialector) Translate(err error) error {
	return translateSQLiteError(err)
}

func translateSQLiteError(err error) error {
	var se *moderncsqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return gorm.ErrDuplicatedKey
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return gorm.ErrForeignKeyViolated
	}
	// without extended result codes only the message tells them apart
	if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		switch msg := se.Error(); {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return gorm.ErrDuplicatedKey
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return gorm.ErrForeignKeyViolated
		}
	}
	return err
}
