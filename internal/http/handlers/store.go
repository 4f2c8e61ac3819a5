package handlers

import (
	"net/http"

	"acaiteria/internal/services"
	"acaiteria/internal/storehours"
	"acaiteria/pkg/models"

	"github.com/labstack/echo/v4"
)

// StoreHandler exposes the store hours
type StoreHandler struct {
	storeService *services.StoreService
}

func NewStoreHandler(storeService *services.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// AvailabilityResponse combina status da loja e da entrega
type AvailabilityResponse struct {
	Name                     string                    `json:"name"`
	Status                   storehours.StoreStatus    `json:"status"`
	Delivery                 storehours.DeliveryStatus `json:"delivery"`
	DeliveryFeeCents         int64                     `json:"delivery_fee_cents"`
	MinimumOrderCents        int64                     `json:"minimum_order_cents"`
	EstimatedDeliveryMinutes int                       `json:"estimated_delivery_minutes"`
}

// ScheduleResponse traz o horário semanal em texto e estruturado
type ScheduleResponse struct {
	Text   string               `json:"text"`
	Config storehours.RawConfig `json:"config"`
}

// Status godoc
// @Summary Store status
// @Description Retorna se a loja está aberta agora, o motivo e a próxima abertura
// @Tags store
// @Produce json
// @Success 200 {object} storehours.StoreStatus
// @Failure 500 {object} map[string]string
// @Router /store/status [get]
func (h *StoreHandler) Status(c echo.Context) error {
	status, err := h.storeService.Status(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

// Delivery godoc
// @Summary Delivery availability
// @Tags store
// @Produce json
// @Success 200 {object} storehours.DeliveryStatus
// @Router /store/delivery [get]
func (h *StoreHandler) Delivery(c echo.Context) error {
	delivery, err := h.storeService.Delivery(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, delivery)
}

// Availability godoc
// @Summary Store and delivery availability
// @Description Status da loja, da entrega e taxas usadas no checkout
// @Tags store
// @Produce json
// @Success 200 {object} AvailabilityResponse
// @Router /store [get]
func (h *StoreHandler) Availability(c echo.Context) error {
	settings, snapshot, err := h.storeService.Availability(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{
		Name:                     settings.Name,
		Status:                   snapshot.Status,
		Delivery:                 snapshot.Delivery,
		DeliveryFeeCents:         settings.DeliveryFeeCents,
		MinimumOrderCents:        settings.MinimumOrderCents,
		EstimatedDeliveryMinutes: settings.EstimatedDeliveryMinutes,
	})
}

// Schedule godoc
// @Summary Weekly schedule
// @Tags store
// @Produce json
// @Success 200 {object} ScheduleResponse
// @Router /store/schedule [get]
func (h *StoreHandler) Schedule(c echo.Context) error {
	cfg, err := h.storeService.LoadStoreConfig(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ScheduleResponse{
		Text:   storehours.FormatSchedule(cfg),
		Config: cfg.Raw(),
	})
}

// GetSettings godoc
// @Summary Get store settings
// @Tags admin-store
// @Produce json
// @Success 200 {object} models.StoreSettings
// @Router /admin/store/settings [get]
// @Security BearerAuth
func (h *StoreHandler) GetSettings(c echo.Context) error {
	settings, err := h.storeService.Settings(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Update store settings
// @Description Atualiza dias, horários de funcionamento e de entrega
// @Tags admin-store
// @Accept json
// @Produce json
// @Param request body models.UpdateStoreSettingsRequest true "Store settings"
// @Success 200 {object} models.StoreSettings
// @Failure 400 {object} map[string]string
// @Router /admin/store/settings [put]
// @Security BearerAuth
func (h *StoreHandler) UpdateSettings(c echo.Context) error {
	var req models.UpdateStoreSettingsRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	settings, err := h.storeService.UpdateSettings(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

// SetManualOpen godoc
// @Summary Toggle manual override
// @Description Abre ou fecha a loja manualmente
// @Tags admin-store
// @Accept json
// @Produce json
// @Param request body models.ManualOpenRequest true "Manual override"
// @Success 200 {object} models.StoreSettings
// @Router /admin/store/manual [put]
// @Security BearerAuth
func (h *StoreHandler) SetManualOpen(c echo.Context) error {
	var req models.ManualOpenRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	settings, err := h.storeService.SetManualOpen(c.Request().Context(), *req.IsManuallyOpen)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}
