package middleware

import (
	"context"
	"net/http"

	"acaiteria/internal/storehours"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// StatusSource answers whether the store is open right now
type StatusSource interface {
	Status(ctx context.Context) (storehours.StoreStatus, error)
}

// StoreClosedResponse is returned when a route needs the store open
type StoreClosedResponse struct {
	Error  string                 `json:"error"`
	Status storehours.StoreStatus `json:"status"`
}

// RequireStoreOpen bloqueia a rota com 409 enquanto a loja estiver fechada
func RequireStoreOpen(source StatusSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			status, err := source.Status(c.Request().Context())
			if err != nil {
				log.Ctx(c.Request().Context()).Error().Err(err).Msg("Erro ao avaliar horário da loja")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"error": "Não foi possível verificar o horário da loja",
				})
			}

			if !status.IsOpen {
				reason := "Loja fechada"
				if status.Reason != nil {
					reason = *status.Reason
				}
				return c.JSON(http.StatusConflict, StoreClosedResponse{Error: reason, Status: status})
			}

			c.Set("store_status", status)
			return next(c)
		}
	}
}
