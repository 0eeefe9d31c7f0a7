package middleware

import (
	"time"

	"github.com/anonto42/food-roulette/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

// RequestLogger logs one structured line per request. It must run after
// echo's RequestID middleware so the id is available.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			res := c.Response()

			requestID := res.Header().Get(echo.HeaderXRequestID)
			ctx := logger.WithRequestID(req.Context(), requestID)
			c.SetRequest(req.WithContext(ctx))

			if err := next(c); err != nil {
				c.Error(err)
			}

			duration := time.Since(start)
			status := res.Status

			event := logger.Info(ctx)
			if status >= 500 {
				event = logger.Error(ctx)
			} else if status >= 400 {
				event = logger.Warn(ctx)
			}

			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", c.Path()).
				Int("status", status).
				Dur("duration", duration).
				Int64("bytes_out", res.Size).
				Str("ip", c.RealIP()).
				Msg("request completed")
			return nil
		}
	}
}
