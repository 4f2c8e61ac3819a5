package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"acaiteria/internal/repo"

	"github.com/labstack/echo/v4"
)

type CustomerHandler struct {
	userRepo *repo.UserRepository
}

func NewCustomerHandler(userRepo *repo.UserRepository) *CustomerHandler {
	return &CustomerHandler{userRepo: userRepo}
}

// List godoc
// @Summary List customers
// @Tags admin-customers
// @Produce json
// @Param search query string false "Nome, email ou telefone"
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Router /admin/customers [get]
// @Security BearerAuth
func (h *CustomerHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	result, err := h.userRepo.ListCustomers(c.Request().Context(), strings.TrimSpace(c.QueryParam("search")), perPage, (page-1)*perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
