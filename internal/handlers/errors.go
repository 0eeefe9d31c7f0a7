package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

type errorPage struct {
	Code    int
	Title   string
	Message string
}

// ErrorHandler renders errors as JSON for API paths and as an HTML page
// everywhere else.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Something went wrong"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
		if he.Internal != nil {
			err = he.Internal
		}
	}

	ctx := c.Request().Context()
	if code >= http.StatusInternalServerError {
		logger.Error(ctx).Err(err).Int("status", code).Str("path", c.Request().URL.Path).Msg("request failed")
	}

	path := c.Request().URL.Path
	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/restaurants/") {
		if err := c.JSON(code, echo.Map{"error": message}); err != nil {
			logger.Error(ctx).Err(err).Msg("failed to write error response")
		}
		return
	}

	if c.Request().Method == http.MethodHead {
		if err := c.NoContent(code); err != nil {
			logger.Error(ctx).Err(err).Msg("failed to write error response")
		}
		return
	}

	page := errorPage{Code: code, Title: http.StatusText(code), Message: message}
	if code == http.StatusNotFound {
		page.Message = "We couldn't find what you were looking for."
	}
	if err := c.Render(code, "error.html", page); err != nil {
		logger.Error(ctx).Err(err).Msg("failed to render error page")
		_ = c.String(code, page.Title)
	}
}
