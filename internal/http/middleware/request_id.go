package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// RequestID middleware adds a unique request ID to each request and a
// request-scoped zerolog logger to the request context
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.Set("request_id", requestID)

			logger := log.With().Str("request_id", requestID).Logger()
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

			return next(c)
		}
	}
}

// RequestLogger logs one line per request
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			event := log.Ctx(req.Context()).Info()
			if status >= 500 {
				event = log.Ctx(req.Context()).Error().Err(err)
			}
			event.
				Str("method", req.Method).
				Str("path", c.Path()).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("request")

			return nil
		}
	}
}
