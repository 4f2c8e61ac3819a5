package middleware

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Telemetry middleware adds OpenTelemetry tracing. Without a configured
// provider otel hands out no-op spans.
func Telemetry() echo.MiddlewareFunc {
	tracer := otel.Tracer("acaiteria-api")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			ctx, span := tracer.Start(req.Context(), req.Method+" "+c.Path())
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", req.Method),
				attribute.String("http.url", req.URL.String()),
				attribute.String("http.route", c.Path()),
				attribute.String("user_agent", req.UserAgent()),
			)

			if requestID, ok := c.Get("request_id").(string); ok {
				span.SetAttributes(attribute.String("request.id", requestID))
			}

			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			// JWTAuth roda depois, então o usuário só aparece aqui
			if userID, ok := c.Get("user_id").(uuid.UUID); ok {
				span.SetAttributes(attribute.String("user.id", userID.String()))
			}
			span.SetAttributes(attribute.Int("http.status_code", c.Response().Status))

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else if c.Response().Status >= 500 {
				span.SetStatus(codes.Error, fmt.Sprintf("status %d", c.Response().Status))
			}

			return err
		}
	}
}
