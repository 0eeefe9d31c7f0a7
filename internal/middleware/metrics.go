package middleware

import (
	"strconv"
	"time"

	"github.com/anonto42/food-roulette/backend/internal/observability"
	"github.com/labstack/echo/v4"
)

// Metrics records request counts and latency per route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			observability.HTTPRequestsTotal.
				WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).
				Inc()
			observability.HTTPRequestDuration.
				WithLabelValues(method, route).
				Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
