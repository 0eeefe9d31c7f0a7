package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/anonto42/food-roulette/backend/internal/middleware"
	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/anonto42/food-roulette/backend/internal/session"
	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"github.com/anonto42/food-roulette/backend/pkg/mealdb"
	"github.com/anonto42/food-roulette/backend/pkg/upstream"
	"github.com/labstack/echo/v4"
)

// messagePageSize caps the home page feed.
const messagePageSize = 100

// currentUser returns the logged-in user. Gated routes can rely on it being set.
func currentUser(c echo.Context) *models.User {
	return middleware.CurrentUser(c)
}

// uintParam reads a numeric path parameter; malformed ids are a 404 like any
// other unknown resource.
func uintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return uint(v), nil
}

// stringParam reads a path parameter that may carry escaped characters
// (meal names with spaces, addresses).
func stringParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func addFlash(c echo.Context, sessions *session.Manager, category, text string) {
	if err := sessions.AddFlash(c.Response(), c.Request(), category, text); err != nil {
		logger.Warn(c.Request().Context()).Err(err).Msg("failed to save flash")
	}
}

// redirectBack returns to the page that posted the form, or fallback.
func redirectBack(c echo.Context, fallback string) error {
	if ref := c.Request().Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || u.Host == c.Request().Host) {
			return c.Redirect(http.StatusFound, u.RequestURI())
		}
	}
	return c.Redirect(http.StatusFound, fallback)
}

// httpError maps repository and upstream errors onto HTTP errors.
func httpError(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, mealdb.ErrNoMeals):
		return echo.NewHTTPError(http.StatusNotFound, what+" not found")
	case errors.Is(err, repositories.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, what+" already exists")
	case errors.Is(err, upstream.ErrUnavailable):
		logger.Warn(c.Request().Context()).Err(err).Str("resource", what).Msg("upstream unavailable")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "The meal and restaurant services are unavailable right now. Please try again shortly.").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong").SetInternal(err)
	}
}
