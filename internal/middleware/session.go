package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/anonto42/food-roulette/backend/internal/session"
	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

// UserKey is the echo context key holding the logged-in *models.User.
const UserKey = "user"

// UserFinder loads the user named by the session.
type UserFinder interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// LoadUser puts the session's user into the context. A session pointing at a
// deleted account is cleared.
func LoadUser(sessions *session.Manager, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := sessions.UserID(c.Request())
			if !ok {
				return next(c)
			}
			user, err := users.GetUserByID(c.Request().Context(), id)
			switch {
			case err == nil:
				c.Set(UserKey, user)
			case errors.Is(err, repositories.ErrNotFound):
				_ = sessions.Logout(c.Response(), c.Request())
			default:
				logger.Error(c.Request().Context()).Err(err).Uint("user_id", id).Msg("failed to load session user")
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to load user")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the logged-in user, or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(UserKey).(*models.User)
	return user
}

// RequireUser sends anonymous visitors home with a flash instead of serving
// the page.
func RequireUser(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				_ = sessions.AddFlash(c.Response(), c.Request(), "danger", "Access unauthorized.")
				return c.Redirect(http.StatusFound, "/")
			}
			return next(c)
		}
	}
}
