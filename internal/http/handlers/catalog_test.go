package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"acaiteria/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(api *testAPI) (active, hidden models.Product) {
	active = models.Product{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Açaí 500ml", Kind: models.ProductKindStandard, PriceCents: 1800, IsActive: true}
	hidden = models.Product{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Açaí Zero", Kind: models.ProductKindStandard, PriceCents: 2000, IsActive: false}
	api.products.items = []models.Product{active, hidden}

	api.categories.items = []models.Category{
		{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Copos", IsActive: true},
		{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Sazonais", IsActive: false},
	}
	api.complements.items = []models.Complement{
		{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Granola", Kind: models.ComplementKindComplement, PriceCents: 200, IsActive: true},
		{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Cupuaçu", Kind: models.ComplementKindFlavor, IsActive: false},
	}
	return active, hidden
}

func productNames(t *testing.T, body []byte) []string {
	t.Helper()
	var products []models.Product
	require.NoError(t, json.Unmarshal(body, &products))
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	api := newTestAPI(t, monday(12, 0))
	seedCatalog(api)
	admin := api.adminToken(t)
	_, customer := api.customerToken(t, "maria@example.com")

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
		want     []string
	}{
		{"public hides inactive", "/api/v1/products", "", http.StatusOK, []string{"Açaí 500ml"}},
		{"customer token on public route", "/api/v1/products", customer, http.StatusOK, []string{"Açaí 500ml"}},
		{"admin sees everything", "/api/v1/admin/products", admin, http.StatusOK, []string{"Açaí 500ml", "Açaí Zero"}},
		{"search on admin route", "/api/v1/admin/products?search=zero", admin, http.StatusOK, []string{"Açaí Zero"}},
		{"search on public route keeps filter", "/api/v1/products?search=zero", "", http.StatusOK, []string{}},
		{"customer cannot use admin route", "/api/v1/admin/products", customer, http.StatusForbidden, nil},
		{"anonymous cannot use admin route", "/api/v1/admin/products", "", http.StatusUnauthorized, nil},
		{"invalid category id", "/api/v1/products?category_id=abc", "", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodGet, tt.path, "", tt.token)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.want != nil {
				assert.ElementsMatch(t, tt.want, productNames(t, rec.Body.Bytes()))
			}
		})
	}
}

func TestCatalogHandler_GetProduct(t *testing.T) {
	api := newTestAPI(t, monday(12, 0))
	active, hidden := seedCatalog(api)
	admin := api.adminToken(t)

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
	}{
		{"active product is public", "/api/v1/products/" + active.ID.String(), "", http.StatusOK},
		{"inactive product is hidden from the storefront", "/api/v1/products/" + hidden.ID.String(), "", http.StatusNotFound},
		{"inactive product is visible to the admin", "/api/v1/admin/products/" + hidden.ID.String(), admin, http.StatusOK},
		{"unknown product", "/api/v1/products/" + uuid.NewString(), "", http.StatusNotFound},
		{"malformed id", "/api/v1/products/123", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodGet, tt.path, "", tt.token)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}

	rec := api.do(http.MethodGet, "/api/v1/products/"+hidden.ID.String(), "", "")
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Produto não encontrado", body["error"])
}

func TestCatalogHandler_CategoriesAndComplements(t *testing.T) {
	api := newTestAPI(t, monday(12, 0))
	seedCatalog(api)
	admin := api.adminToken(t)

	countOf := func(path, token string) int {
		rec := api.do(http.MethodGet, path, "", token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var items []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		return len(items)
	}

	assert.Equal(t, 1, countOf("/api/v1/categories", ""))
	assert.Equal(t, 2, countOf("/api/v1/admin/categories", admin))
	assert.Equal(t, 1, countOf("/api/v1/complements", ""))
	assert.Equal(t, 0, countOf("/api/v1/complements?kind=flavor", ""))
	assert.Equal(t, 1, countOf("/api/v1/admin/complements?kind=flavor", admin))
}
