package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultSecretKey = "it's a secret"
	defaultJWTSecret = "supersecretjwtkey"
)

// Config holds application settings read from the environment (and .env).
type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	SecretKey       string        `mapstructure:"SECRET_KEY"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	YelpAPIKey      string        `mapstructure:"YELP_API_KEY"`
	YelpBaseURL     string        `mapstructure:"YELP_BASE_URL"`
	MealDBBaseURL   string        `mapstructure:"MEALDB_BASE_URL"`
	MetricsPort     string        `mapstructure:"METRICS_PORT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`
	UpstreamRetries uint          `mapstructure:"UPSTREAM_RETRIES"`
	SeedDir         string        `mapstructure:"SEED_DIR"`
}

// Load reads .env if present, then the process environment, over defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Logger.Debug().Msg("no .env file found, using process environment")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_URL", "postgres://localhost:5432/food-roulette-db?sslmode=disable")
	v.SetDefault("SECRET_KEY", defaultSecretKey)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("YELP_API_KEY", "")
	v.SetDefault("YELP_BASE_URL", "https://api.yelp.com/v3")
	v.SetDefault("MEALDB_BASE_URL", "https://www.themealdb.com/api/json/v1/1")
	v.SetDefault("METRICS_PORT", "9090")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPSTREAM_TIMEOUT", "5s")
	v.SetDefault("UPSTREAM_RETRIES", 3)
	v.SetDefault("SEED_DIR", "data")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.DatabaseURL = normalizeDatabaseURL(cfg.DatabaseURL)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.UpstreamRetries == 0 {
		return errors.New("UPSTREAM_RETRIES must be at least 1")
	}

	if c.IsProduction() {
		if c.SecretKey == defaultSecretKey {
			return errors.New("SECRET_KEY must be changed from the default value in production")
		}
		if c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be a non-default value of at least 32 characters in production")
		}
		if c.YelpAPIKey == "" {
			return errors.New("YELP_API_KEY is required in production")
		}
	} else if c.YelpAPIKey == "" {
		logger.Logger.Warn().Msg("YELP_API_KEY is empty; restaurant search will fail")
	}
	return nil
}

// Hosted Postgres providers hand out postgresql:// URLs.
func normalizeDatabaseURL(u string) string {
	if strings.HasPrefix(u, "postgresql://") {
		return "postgres://" + strings.TrimPrefix(u, "postgresql://")
	}
	return u
}
