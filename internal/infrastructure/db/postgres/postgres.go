package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to open the relational store.
type Config struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
	Timeout      time.Duration
}

// Connect opens a gorm handle over pgx, verifies connectivity with a ping and
// optionally migrates the schema.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger:         NewGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if cfg.AutoMigrate {
		if err := Migrate(db.WithContext(ctx)); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the users and artisan_profiles tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userModel{}, &artisanProfileModel{}); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// NewGormLogger routes gorm's query log into zerolog. Not-found lookups are
// expected and therefore not reported.
func NewGormLogger(log zerolog.Logger) gormlogger.Interface {
	zl := log.With().Str("component", "gorm").Logger()
	return gormlogger.New(&zl, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}
