package handlers

import (
	"errors"
	"net/http"

	"acaiteria/internal/auth"
	"acaiteria/internal/services"
	"acaiteria/internal/storehours"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UnavailableResponse is returned when the store or delivery is not available
type UnavailableResponse struct {
	Error        string  `json:"error"`
	NextOpenTime *string `json:"next_open_time,omitempty"`
}

var badRequestErrors = []error{
	storehours.ErrInvalidConfig,
	services.ErrAddressRequired,
	services.ErrProductUnavailable,
	services.ErrInvalidChoice,
	services.ErrMinimumOrder,
	services.ErrInvalidChange,
	services.ErrCancelReasonRequired,
	services.ErrFulfillmentMismatch,
	services.ErrInvalidProduct,
	services.ErrNotAnImage,
	auth.ErrWrongPassword,
}

var conflictErrors = []error{
	services.ErrInvalidTransition,
	services.ErrOrderNotCancellable,
	services.ErrDuplicateCategory,
	services.ErrCategoryInUse,
	auth.ErrEmailTaken,
}

func matches(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError maps domain errors to HTTP responses
func respondError(c echo.Context, err error) error {
	var unavailable *services.UnavailableError
	switch {
	case errors.As(err, &unavailable):
		return c.JSON(http.StatusConflict, UnavailableResponse{Error: unavailable.Error(), NextOpenTime: unavailable.NextOpenTime})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Registro não encontrado"})
	case matches(err, badRequestErrors):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case matches(err, conflictErrors):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, auth.ErrUserDisabled):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrStorageDisabled):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}

	log.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg("Erro inesperado")
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Erro interno"})
}

// bindAndValidate binds the body and runs the echo validator. When ok is
// false the 400 response was already written and err is its write result.
func bindAndValidate(c echo.Context, req interface{}) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return true, nil
}

func paramID(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

func invalidID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
}
