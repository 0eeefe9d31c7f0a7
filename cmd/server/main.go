package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/food-roulette/backend/internal/router"
	"github.com/anonto42/food-roulette/backend/internal/session"
	"github.com/anonto42/food-roulette/backend/pkg/config"
	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"github.com/anonto42/food-roulette/backend/pkg/mealdb"
	"github.com/anonto42/food-roulette/backend/pkg/upstream"
	"github.com/anonto42/food-roulette/backend/pkg/yelp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx := context.Background()

	// Load configuration
	logger.Init("food-roulette", true)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to load configuration")
	}
	if cfg.IsProduction() {
		logger.Init("food-roulette", false)
	}
	logger.SetLevel(cfg.LogLevel)

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to initialize database")
	}
	defer config.CloseDB(db)

	recipes := mealdb.NewClient(upstream.NewClient(upstream.Options{
		Service:    "mealdb",
		BaseURL:    cfg.MealDBBaseURL,
		Timeout:    cfg.UpstreamTimeout,
		MaxRetries: cfg.UpstreamRetries,
	}))
	search := yelp.NewClient(upstream.NewClient(upstream.Options{
		Service:    "yelp",
		BaseURL:    cfg.YelpBaseURL,
		Timeout:    cfg.UpstreamTimeout,
		MaxRetries: cfg.UpstreamRetries,
		Header:     yelp.AuthHeader(cfg.YelpAPIKey),
	}))

	e, err := router.New(router.Dependencies{
		DB:        db,
		Sessions:  session.NewManager(cfg.SecretKey, cfg.IsProduction()),
		Recipes:   recipes,
		Search:    search,
		JWTSecret: cfg.JWTSecret,
	})
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to set up routes")
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(ctx).Str("port", cfg.MetricsPort).Msg("metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx).Err(err).Msg("metrics server stopped")
		}
	}()

	// Start server
	go func() {
		logger.Info(ctx).Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx).Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info(ctx).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx).Err(err).Msg("server shutdown failed")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx).Err(err).Msg("metrics server shutdown failed")
	}
}
