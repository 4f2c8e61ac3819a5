package handlers

import (
	"net/http"
	"strconv"

	"acaiteria/internal/http/middleware"
	"acaiteria/internal/services"
	"acaiteria/pkg/models"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CancelOrderRequest is sent by the customer
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

// Checkout godoc
// @Summary Checkout
// @Description Cria um pedido. Recusado com 409 quando a loja está fechada ou a entrega indisponível.
// @Tags orders
// @Accept json
// @Produce json
// @Param request body models.CheckoutRequest true "Checkout data"
// @Success 201 {object} models.Order
// @Failure 400 {object} map[string]string
// @Failure 409 {object} UnavailableResponse
// @Router /orders [post]
// @Security BearerAuth
func (h *OrderHandler) Checkout(c echo.Context) error {
	customerID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}

	var req models.CheckoutRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	order, err := h.orderService.Checkout(c.Request().Context(), customerID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListMine godoc
// @Summary List my orders
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Router /orders [get]
// @Security BearerAuth
func (h *OrderHandler) ListMine(c echo.Context) error {
	customerID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}

	orders, err := h.orderService.ListForCustomer(c.Request().Context(), customerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetMine godoc
// @Summary Track order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
// @Security BearerAuth
func (h *OrderHandler) GetMine(c echo.Context) error {
	customerID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	order, err := h.orderService.GetForCustomer(c.Request().Context(), customerID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// CancelMine godoc
// @Summary Cancel my order
// @Description Só é possível cancelar enquanto o pedido está pendente
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body CancelOrderRequest false "Motivo"
// @Success 200 {object} models.Order
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/cancel [post]
// @Security BearerAuth
func (h *OrderHandler) CancelMine(c echo.Context) error {
	customerID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	var req CancelOrderRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	order, err := h.orderService.CancelByCustomer(c.Request().Context(), customerID, id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// List godoc
// @Summary List orders
// @Tags admin-orders
// @Produce json
// @Param status query string false "Filtrar por status"
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Success 200 {object} models.OrderListResponse
// @Router /admin/orders [get]
// @Security BearerAuth
func (h *OrderHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage > 100 {
		perPage = 100
	}

	result, err := h.orderService.List(c.Request().Context(), models.OrderFilter{
		Status:  c.QueryParam("status"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get order
// @Tags admin-orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Router /admin/orders/{id} [get]
// @Security BearerAuth
func (h *OrderHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	order, err := h.orderService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Update order status
// @Tags admin-orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body models.UpdateOrderStatusRequest true "Novo status"
// @Success 200 {object} models.Order
// @Failure 409 {object} map[string]string
// @Router /admin/orders/{id}/status [put]
// @Security BearerAuth
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	var req models.UpdateOrderStatusRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
