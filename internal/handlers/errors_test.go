package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/food-roulette/backend/internal/repositories"
	"github.com/anonto42/food-roulette/backend/internal/views"
	"github.com/anonto42/food-roulette/backend/pkg/mealdb"
	"github.com/anonto42/food-roulette/backend/pkg/upstream"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, method, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	renderer, err := views.New(nil)
	require.NoError(t, err)
	e.Renderer = renderer

	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(method, target, nil), rec), rec
}

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", repositories.ErrNotFound, http.StatusNotFound},
		{"no meals", fmt.Errorf("search: %w", mealdb.ErrNoMeals), http.StatusNotFound},
		{"already exists", repositories.ErrAlreadyExists, http.StatusConflict},
		{"upstream down", fmt.Errorf("yelp: %w", upstream.ErrUnavailable), http.StatusServiceUnavailable},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(t, http.MethodGet, "/")
			var he *echo.HTTPError
			require.ErrorAs(t, httpError(c, tt.err, "Meal"), &he)
			assert.Equal(t, tt.code, he.Code)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	t.Run("api paths get json", func(t *testing.T) {
		c, rec := newContext(t, http.MethodGet, "/api/v1/messages/3/likes")
		ErrorHandler(echo.NewHTTPError(http.StatusNotFound, "Message not found"), c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Message not found"}`, rec.Body.String())
	})

	t.Run("pages get the error template", func(t *testing.T) {
		c, rec := newContext(t, http.MethodGet, "/meals/9")
		ErrorHandler(echo.NewHTTPError(http.StatusNotFound, "Meal not found"), c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Not Found")
		assert.Contains(t, rec.Body.String(), "find what you were looking for")
	})

	t.Run("plain errors are 500 without details", func(t *testing.T) {
		c, rec := newContext(t, http.MethodGet, "/")
		ErrorHandler(errors.New("pq: connection refused"), c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
		assert.Contains(t, rec.Body.String(), "Something went wrong")
	})

	t.Run("committed responses are left alone", func(t *testing.T) {
		c, rec := newContext(t, http.MethodGet, "/")
		require.NoError(t, c.String(http.StatusOK, "done"))
		ErrorHandler(errors.New("late"), c)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "done", rec.Body.String())
	})
}

func TestRedirectBack(t *testing.T) {
	t.Run("same host referer", func(t *testing.T) {
		c, rec := newContext(t, http.MethodPost, "/users/add_like/1")
		c.Request().Header.Set("Referer", "http://example.com/meals/1/reviews?x=1")
		require.NoError(t, redirectBack(c, "/"))
		assert.Equal(t, "/meals/1/reviews?x=1", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("foreign referer falls back", func(t *testing.T) {
		c, rec := newContext(t, http.MethodPost, "/users/add_like/1")
		c.Request().Header.Set("Referer", "https://evil.test/phish")
		require.NoError(t, redirectBack(c, "/"))
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	})
}

func TestParams(t *testing.T) {
	c, _ := newContext(t, http.MethodGet, "/")
	c.SetParamNames("meal_id", "meal_name")
	c.SetParamValues("0", "Rock%20Cakes")

	_, err := uintParam(c, "meal_id")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
	assert.Equal(t, "Rock Cakes", stringParam(c, "meal_name"))
}
