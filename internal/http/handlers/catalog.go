package handlers

import (
	"net/http"

	"acaiteria/internal/services"
	"acaiteria/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCategories godoc
// @Summary List categories
// @Description Lista as categorias ativas ordenadas por sort_order
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogService.ListCategories(c.Request().Context(), !isAdminRoute(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// CreateCategory godoc
// @Summary Create category
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param category body models.CreateCategoryRequest true "Category data"
// @Success 201 {object} models.Category
// @Failure 409 {object} map[string]string
// @Router /admin/categories [post]
// @Security BearerAuth
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req models.CreateCategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	category, err := h.catalogService.CreateCategory(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update category
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body models.UpdateCategoryRequest true "Category data"
// @Success 200 {object} models.Category
// @Router /admin/categories/{id} [put]
// @Security BearerAuth
func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	var req models.UpdateCategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	category, err := h.catalogService.UpdateCategory(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete category
// @Tags admin-catalog
// @Param id path string true "Category ID"
// @Success 204
// @Failure 409 {object} map[string]string
// @Router /admin/categories/{id} [delete]
// @Security BearerAuth
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.catalogService.DeleteCategory(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProducts godoc
// @Summary List products
// @Tags catalog
// @Produce json
// @Param category_id query string false "Category ID"
// @Param search query string false "Busca por nome ou descrição"
// @Success 200 {array} models.Product
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	filter := models.ProductFilter{
		Search:     c.QueryParam("search"),
		OnlyActive: !isAdminRoute(c),
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return invalidID(c)
		}
		filter.CategoryID = &categoryID
	}

	products, err := h.catalogService.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct godoc
// @Summary Get product
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	product, err := h.catalogService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !product.IsActive && !isAdminRoute(c) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Produto não encontrado"})
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Create product
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param product body models.ProductRequest true "Product data"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]string
// @Router /admin/products [post]
// @Security BearerAuth
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req models.ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	product, err := h.catalogService.CreateProduct(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update product
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.ProductRequest true "Product data"
// @Success 200 {object} models.Product
// @Router /admin/products/{id} [put]
// @Security BearerAuth
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	var req models.ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	product, err := h.catalogService.UpdateProduct(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete product
// @Tags admin-catalog
// @Param id path string true "Product ID"
// @Success 204
// @Router /admin/products/{id} [delete]
// @Security BearerAuth
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.catalogService.DeleteProduct(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadProductImage godoc
// @Summary Upload product image
// @Tags admin-catalog
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product ID"
// @Param image formData file true "Imagem do produto"
// @Success 200 {object} models.Product
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /admin/products/{id}/image [post]
// @Security BearerAuth
func (h *CatalogHandler) UploadProductImage(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Arquivo de imagem obrigatório"})
	}

	product, err := h.catalogService.SetProductImage(c.Request().Context(), id, fileHeader)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// ListComplements godoc
// @Summary List flavors and complements
// @Tags catalog
// @Produce json
// @Param kind query string false "flavor ou complement"
// @Success 200 {array} models.Complement
// @Router /complements [get]
func (h *CatalogHandler) ListComplements(c echo.Context) error {
	complements, err := h.catalogService.ListComplements(c.Request().Context(), c.QueryParam("kind"), !isAdminRoute(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, complements)
}

// CreateComplement godoc
// @Summary Create complement
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param complement body models.ComplementRequest true "Complement data"
// @Success 201 {object} models.Complement
// @Router /admin/complements [post]
// @Security BearerAuth
func (h *CatalogHandler) CreateComplement(c echo.Context) error {
	var req models.ComplementRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	complement, err := h.catalogService.CreateComplement(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, complement)
}

// UpdateComplement godoc
// @Summary Update complement
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param id path string true "Complement ID"
// @Param complement body models.ComplementRequest true "Complement data"
// @Success 200 {object} models.Complement
// @Router /admin/complements/{id} [put]
// @Security BearerAuth
func (h *CatalogHandler) UpdateComplement(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}

	var req models.ComplementRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	complement, err := h.catalogService.UpdateComplement(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, complement)
}

// DeleteComplement godoc
// @Summary Delete complement
// @Tags admin-catalog
// @Param id path string true "Complement ID"
// @Success 204
// @Router /admin/complements/{id} [delete]
// @Security BearerAuth
func (h *CatalogHandler) DeleteComplement(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.catalogService.DeleteComplement(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// isAdminRoute reports whether the request came through the admin group
func isAdminRoute(c echo.Context) bool {
	role, _ := c.Get("user_role").(string)
	return role == models.RoleAdmin
}
