package router

import (
	"context"
	"fmt"

	"github.com/anonto42/food-roulette/backend/internal/handlers"
	"github.com/anonto42/food-roulette/backend/internal/middleware"
	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/anonto42/food-roulette/backend/internal/session"
	"github.com/anonto42/food-roulette/backend/internal/validators"
	"github.com/anonto42/food-roulette/backend/internal/views"
	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"github.com/anonto42/food-roulette/backend/pkg/mealdb"
	"github.com/anonto42/food-roulette/backend/pkg/yelp"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	DB        *gorm.DB
	Sessions  *session.Manager
	Recipes   mealdb.API
	Search    yelp.Searcher
	JWTSecret string
}

// New builds the Echo instance with middleware, renderer and every route.
// It migrates the schema first.
func New(deps Dependencies) (*echo.Echo, error) {
	if err := deps.DB.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to auto migrate models: %w", err)
	}
	logger.Info(context.Background()).Msg("auto-migrations completed for all models")

	renderer, err := views.New(deps.Sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = handlers.ErrorHandler

	userRepo := repositories.NewPostgresUserRepository(deps.DB)
	SetupMiddleware(e, deps.Sessions, userRepo)
	SetupRoutes(e, deps, userRepo)
	return e, nil
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, sessions *session.Manager, users middleware.UserFinder) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Metrics())
	e.Use(middleware.NoCache())
	e.Use(middleware.LoadUser(sessions, users))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies, userRepo repositories.UserRepository) {
	ctx := context.Background()

	healthHandler := handlers.NewHealthHandler(deps.DB)
	e.GET("/health", healthHandler.HealthCheck)
	e.StaticFS("/static", views.Static())

	// --- Initialize Repositories ---
	catalogRepo := repositories.NewPostgresCatalogRepository(deps.DB)
	mealLikeRepo := repositories.NewPostgresMealLikeRepository(deps.DB)
	restaurantRepo := repositories.NewPostgresRestaurantLikeRepository(deps.DB)
	messageRepo := repositories.NewPostgresMessageRepository(deps.DB)
	messageLikeRepo := repositories.NewPostgresMessageLikeRepository(deps.DB)

	// Gated per route: middleware on an unprefixed group also wraps unknown paths.
	pages := e.Group("")
	requireUser := middleware.RequireUser(deps.Sessions)

	homeHandler := handlers.NewHomeHandler(messageRepo, messageLikeRepo, restaurantRepo)
	homeHandler.RegisterHomeRoutes(pages)

	authHandler := handlers.NewAuthHandler(userRepo, deps.Sessions, deps.JWTSecret)
	authHandler.RegisterAuthRoutes(pages)
	logger.Info(ctx).Msg("auth routes configured")

	userHandler := handlers.NewUserHandler(userRepo, catalogRepo, mealLikeRepo, restaurantRepo, messageRepo, messageLikeRepo, deps.Sessions)
	userHandler.RegisterProfileRoutes(pages, requireUser)

	catalogHandler := handlers.NewCatalogHandler(catalogRepo, mealLikeRepo, messageRepo, restaurantRepo, deps.Recipes)
	catalogHandler.RegisterCatalogRoutes(pages, requireUser)

	mealLikeHandler := handlers.NewMealLikeHandler(catalogRepo, mealLikeRepo, restaurantRepo, deps.Search)
	mealLikeHandler.RegisterMealLikeRoutes(pages, requireUser)

	restaurantHandler := handlers.NewRestaurantHandler(mealLikeRepo, restaurantRepo)
	restaurantHandler.RegisterRestaurantRoutes(pages, requireUser)

	messageHandler := handlers.NewMessageHandler(messageRepo, messageLikeRepo, mealLikeRepo, restaurantRepo, userRepo, deps.Sessions)
	messageHandler.RegisterMessageRoutes(pages, requireUser)
	logger.Info(ctx).Msg("page routes configured")

	// --- Token API ---
	authHandler.RegisterAPIAuthRoutes(e.Group("/api/v1"))

	api := e.Group("/api/v1", middleware.JWTAuthMiddleware(deps.JWTSecret))
	apiHandler := handlers.NewAPIHandler(mealLikeRepo, restaurantRepo, messageRepo, messageLikeRepo)
	apiHandler.RegisterAPIRoutes(api)
	logger.Info(ctx).Msg("API routes configured")
}
