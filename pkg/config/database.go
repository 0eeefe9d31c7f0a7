package config

import (
	"fmt"
	"time"

	"github.com/anonto42/food-roulette/backend/internal/observability"
	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the Postgres connection pool and verifies it with a ping.
// Driver errors are translated so unique violations surface as
// gorm.ErrDuplicatedKey.
func InitDB(cfg *Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if err := observability.RegisterDBCallbacks(db); err != nil {
		return nil, fmt.Errorf("register metrics callbacks: %w", err)
	}

	logger.Logger.Info().Msg("Successfully connected to PostgreSQL")
	return db, nil
}

// CloseDB closes the connection pool.
func CloseDB(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Error getting SQL DB from GORM")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Logger.Error().Err(err).Msg("Error closing PostgreSQL connection")
		return
	}
	logger.Logger.Info().Msg("PostgreSQL connection closed")
}
