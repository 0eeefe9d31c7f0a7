package main

import (
	"context"
	"flag"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/anonto42/food-roulette/backend/internal/seed"
	"github.com/anonto42/food-roulette/backend/pkg/config"
	"github.com/anonto42/food-roulette/backend/pkg/logger"
)

func main() {
	reset := flag.Bool("reset", false, "drop and recreate every table before loading")
	dir := flag.String("dir", "", "directory holding cuisines.csv, categories.csv and meals.csv (default $SEED_DIR)")
	flag.Parse()

	ctx := context.Background()
	logger.Init("food-roulette-seed", true)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to load configuration")
	}
	if cfg.IsProduction() {
		logger.Init("food-roulette-seed", false)
	}
	logger.SetLevel(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to initialize database")
	}
	defer config.CloseDB(db)

	if *reset {
		if err := seed.Reset(ctx, db); err != nil {
			logger.Fatal(ctx).Err(err).Msg("failed to reset schema")
		}
	} else if err := db.AutoMigrate(models.All()...); err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to migrate schema")
	}

	if *dir == "" {
		*dir = cfg.SeedDir
	}
	catalog, err := seed.ReadDir(*dir)
	if err != nil {
		logger.Fatal(ctx).Err(err).Str("dir", *dir).Msg("failed to read seed files")
	}
	if err := seed.Load(ctx, repositories.NewPostgresCatalogRepository(db), catalog); err != nil {
		logger.Fatal(ctx).Err(err).Msg("failed to seed catalog")
	}
}
