package handlers

import (
	"net/http"
	"strings"

	"acaiteria/internal/http/middleware"
	"acaiteria/internal/repo"
	"acaiteria/pkg/models"

	"github.com/labstack/echo/v4"
)

type AddressHandler struct {
	addressRepo *repo.AddressRepository
}

func NewAddressHandler(addressRepo *repo.AddressRepository) *AddressHandler {
	return &AddressHandler{addressRepo: addressRepo}
}

// List godoc
// @Summary List my addresses
// @Tags addresses
// @Produce json
// @Success 200 {array} models.Address
// @Router /addresses [get]
// @Security BearerAuth
func (h *AddressHandler) List(c echo.Context) error {
	customerID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}

	addresses, err := h.addressRepo.ListByCustomer(c.Request().Context(), customerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, addresses)
}

// Create godoc
// @Summary Create address
// @Tags addresses
// @Accept json
// @Produce json
// @Param request body models.CreateAddressRequest true "Address"
// @Success 201 {object} models.Address
// @Router /addresses [post]
// @Security BearerAuth
func (h *AddressHandler) Create(c echo.Context) error {
	customerID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}

	var req models.CreateAddressRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx := c.Request().Context()
	existing, err := h.addressRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return respondError(c, err)
	}

	address := &models.Address{
		CustomerID:   customerID,
		Label:        req.Label,
		Street:       req.Street,
		Number:       req.Number,
		Complement:   req.Complement,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        strings.ToUpper(req.State),
		ZipCode:      req.ZipCode,
		Reference:    req.Reference,
	}
	if err := h.addressRepo.Create(ctx, address); err != nil {
		return respondError(c, err)
	}

	// o primeiro endereço vira o padrão
	if req.IsDefault || len(existing) == 0 {
		if err := h.addressRepo.SetDefault(ctx, customerID, address.ID); err != nil {
			return respondError(c, err)
		}
		address.IsDefault = true
	}

	return c.JSON(http.StatusCreated, address)
}

// Update godoc
// @Summary Update address
// @Tags addresses
// @Accept json
// @Produce json
// @Param id path string true "Address ID"
// @Param request body models.UpdateAddressRequest true "Address"
// @Success 200 {object} models.Address
// @Router /addresses/{id} [put]
// @Security BearerAuth
func (h *AddressHandler) Update(c echo.Context) error {
	customerID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	var req models.UpdateAddressRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx := c.Request().Context()
	address, err := h.addressRepo.GetByID(ctx, customerID, id)
	if err != nil {
		return respondError(c, err)
	}

	if req.Label != nil {
		address.Label = *req.Label
	}
	if req.Street != nil {
		address.Street = *req.Street
	}
	if req.Number != nil {
		address.Number = *req.Number
	}
	if req.Complement != nil {
		address.Complement = *req.Complement
	}
	if req.Neighborhood != nil {
		address.Neighborhood = *req.Neighborhood
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.State != nil {
		address.State = strings.ToUpper(*req.State)
	}
	if req.ZipCode != nil {
		address.ZipCode = *req.ZipCode
	}
	if req.Reference != nil {
		address.Reference = *req.Reference
	}

	if err := h.addressRepo.Update(ctx, address); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, address)
}

// Delete godoc
// @Summary Delete address
// @Tags addresses
// @Param id path string true "Address ID"
// @Success 204
// @Router /addresses/{id} [delete]
// @Security BearerAuth
func (h *AddressHandler) Delete(c echo.Context) error {
	customerID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := h.addressRepo.Delete(c.Request().Context(), customerID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetDefault godoc
// @Summary Set default address
// @Tags addresses
// @Param id path string true "Address ID"
// @Success 204
// @Router /addresses/{id}/default [put]
// @Security BearerAuth
func (h *AddressHandler) SetDefault(c echo.Context) error {
	customerID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Usuário não autenticado"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := h.addressRepo.SetDefault(c.Request().Context(), customerID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
