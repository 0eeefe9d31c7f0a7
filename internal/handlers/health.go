package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthHandler reports whether the server can reach its database
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status, database := http.StatusOK, "up"
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.Error(ctx).Err(err).Msg("health check: database unreachable")
		status, database = http.StatusServiceUnavailable, "down"
	}
	return c.JSON(status, map[string]string{
		"status":   http.StatusText(status),
		"service":  "food-roulette",
		"database": database,
	})
}
