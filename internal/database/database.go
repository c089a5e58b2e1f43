package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"recipeapi/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options controls how the database connection is opened.
type Options struct {
	Driver      string // "postgres" or "sqlite"
	DSN         string
	WaitTimeout time.Duration
	// RetryInterval is the pause between connection attempts. Defaults to one second.
	RetryInterval time.Duration
}

// Open connects to the configured database, retrying until the database
// answers a ping or WaitTimeout elapses.
func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	interval := opts.RetryInterval
	if interval <= 0 {
		interval = time.Second
	}
	deadline := time.Now().Add(opts.WaitTimeout)

	slog.InfoContext(ctx, "waiting for database", "driver", opts.Driver)
	for {
		db, err := connect(ctx, dialector)
		if err == nil {
			slog.InfoContext(ctx, "database available", "driver", opts.Driver)
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("database unavailable after %s: %w", opts.WaitTimeout, err)
		}
		slog.WarnContext(ctx, "database unavailable, retrying", "error", err, "retry_in", interval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// sqliteDSN turns on foreign key enforcement so that owner deletes cascade.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func connect(ctx context.Context, dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// Ping reports whether the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
