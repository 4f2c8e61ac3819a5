package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"acaiteria/internal/auth"
	"acaiteria/internal/http/middleware"
	"acaiteria/internal/repo"
	"acaiteria/internal/services"
	"acaiteria/pkg/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type memoryUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.User
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			copied := u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.New()
	m.byID[user.ID] = *user
	return nil
}

func (m *memoryUsers) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[user.ID] = *user
	return nil
}

type memoryCategories struct {
	items []models.Category
}

func (m *memoryCategories) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			copied := m.items[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryCategories) Create(_ context.Context, category *models.Category) error {
	category.ID = uuid.New()
	m.items = append(m.items, *category)
	return nil
}

func (m *memoryCategories) Update(_ context.Context, category *models.Category) error {
	for i := range m.items {
		if m.items[i].ID == category.ID {
			m.items[i] = *category
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryCategories) Delete(_ context.Context, id uuid.UUID) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryCategories) List(_ context.Context, onlyActive bool) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.items {
		if onlyActive && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memoryCategories) FindByName(_ context.Context, name string) (*models.Category, error) {
	for i := range m.items {
		if strings.EqualFold(m.items[i].Name, name) {
			copied := m.items[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryCategories) CountProducts(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

type memoryProducts struct {
	items []models.Product
}

func (m *memoryProducts) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			copied := m.items[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryProducts) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.items {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (m *memoryProducts) Create(_ context.Context, product *models.Product) error {
	product.ID = uuid.New()
	m.items = append(m.items, *product)
	return nil
}

func (m *memoryProducts) Update(_ context.Context, product *models.Product) error {
	for i := range m.items {
		if m.items[i].ID == product.ID {
			m.items[i] = *product
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryProducts) Delete(_ context.Context, id uuid.UUID) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryProducts) List(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	search := strings.ToLower(filter.Search)
	out := []models.Product{}
	for _, p := range m.items {
		if filter.OnlyActive && !p.IsActive {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type memoryComplements struct {
	items []models.Complement
}

func (m *memoryComplements) GetByID(_ context.Context, id uuid.UUID) (*models.Complement, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			copied := m.items[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryComplements) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Complement, error) {
	var out []models.Complement
	for _, c := range m.items {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (m *memoryComplements) List(_ context.Context, kind string, onlyActive bool) ([]models.Complement, error) {
	out := []models.Complement{}
	for _, c := range m.items {
		if (kind != "" && c.Kind != kind) || (onlyActive && !c.IsActive) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memoryComplements) Create(_ context.Context, complement *models.Complement) error {
	complement.ID = uuid.New()
	m.items = append(m.items, *complement)
	return nil
}

func (m *memoryComplements) Update(_ context.Context, complement *models.Complement) error {
	for i := range m.items {
		if m.items[i].ID == complement.ID {
			m.items[i] = *complement
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryComplements) Delete(_ context.Context, id uuid.UUID) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memoryOrders struct {
	mu   sync.Mutex
	byID map[uuid.UUID]models.Order
}

func (m *memoryOrders) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (m *memoryOrders) GetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error) {
	o, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (m *memoryOrders) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	m.byID[order.ID] = *order
	return nil
}

func (m *memoryOrders) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.byID {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out, nil
}

func (m *memoryOrders) List(_ context.Context, filter models.OrderFilter) (*models.PaginationResult[models.Order], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.byID {
		if filter.Status == "" || o.Status == filter.Status {
			out = append(out, o)
		}
	}
	result := models.NewPaginationResult(out, int64(len(out)), 1, len(out))
	return &result, nil
}

func (m *memoryOrders) UpdateStatus(_ context.Context, order *models.Order, status, cancelReason string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[order.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = status
	stored.CancelReason = cancelReason
	m.byID[order.ID] = stored
	return nil
}

func (m *memoryOrders) CountCreatedSince(context.Context, time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

// put grava um pedido já existente (fixture)
func (m *memoryOrders) put(order models.Order) models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	m.byID[order.ID] = order
	return order
}

// testAPI monta as rotas como SetupRoutes, com repositórios em memória e
// gorm sobre sqlmock para endereços e clientes
type testAPI struct {
	e           *echo.Echo
	auth        *auth.Service
	users       *memoryUsers
	categories  *memoryCategories
	products    *memoryProducts
	complements *memoryComplements
	orders      *memoryOrders
	mock        sqlmock.Sqlmock
}

func newTestAPI(t *testing.T, at time.Time) *testAPI {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	api := &testAPI{
		e:           newEcho(),
		users:       &memoryUsers{byID: map[uuid.UUID]models.User{}},
		categories:  &memoryCategories{},
		products:    &memoryProducts{},
		complements: &memoryComplements{},
		orders:      &memoryOrders{byID: map[uuid.UUID]models.Order{}},
		mock:        mock,
	}
	api.auth = auth.NewService(api.users, auth.Options{Secret: "segredo-de-teste"})

	store := newStoreService(at)
	catalogHandler := NewCatalogHandler(services.NewCatalogService(api.categories, api.products, api.complements, nil))
	orderHandler := NewOrderHandler(services.NewOrderService(store, api.products, api.complements, repo.NewAddressRepository(db), api.users, api.orders))
	addressHandler := NewAddressHandler(repo.NewAddressRepository(db))
	customerHandler := NewCustomerHandler(repo.NewUserRepository(db))
	authHandler := NewAuthHandler(api.auth)

	g := api.e.Group("/api/v1")
	g.GET("/categories", catalogHandler.ListCategories)
	g.GET("/products", catalogHandler.ListProducts)
	g.GET("/products/:id", catalogHandler.GetProduct)
	g.GET("/complements", catalogHandler.ListComplements)

	g.POST("/auth/register", authHandler.Register)
	g.POST("/auth/login", authHandler.Login)
	g.POST("/auth/refresh", authHandler.RefreshToken)

	protected := g.Group("")
	protected.Use(middleware.JWTAuth(api.auth))
	protected.GET("/me", authHandler.Profile)

	customer := protected.Group("")
	customer.Use(middleware.CustomerOnly())
	customer.GET("/addresses", addressHandler.List)
	customer.DELETE("/addresses/:id", addressHandler.Delete)
	// sem RequireStoreOpen: a recusa precisa vir do próprio serviço
	customer.POST("/orders", orderHandler.Checkout)
	customer.GET("/orders", orderHandler.ListMine)
	customer.GET("/orders/:id", orderHandler.GetMine)
	customer.POST("/orders/:id/cancel", orderHandler.CancelMine)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/categories", catalogHandler.ListCategories)
	admin.GET("/products", catalogHandler.ListProducts)
	admin.GET("/products/:id", catalogHandler.GetProduct)
	admin.GET("/complements", catalogHandler.ListComplements)
	admin.GET("/orders/:id", orderHandler.Get)
	admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	admin.GET("/customers", customerHandler.List)

	return api
}

// customerToken cadastra um cliente e devolve o id e o access token
func (a *testAPI) customerToken(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()
	resp, err := a.auth.Register(context.Background(), models.RegisterRequest{
		Name:     "Maria",
		Email:    email,
		Phone:    "91999990000",
		Password: "acai123",
	})
	require.NoError(t, err)
	return resp.User.ID, resp.AccessToken
}

func (a *testAPI) adminToken(t *testing.T) string {
	t.Helper()
	hash, err := a.auth.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, a.users.Create(context.Background(), &models.User{
		Email:    "admin@acaiteria.com",
		Password: hash,
		Name:     "Admin",
		Role:     models.RoleAdmin,
		IsActive: true,
	}))

	resp, err := a.auth.Login(context.Background(), auth.LoginRequest{Email: "admin@acaiteria.com", Password: "admin123"})
	require.NoError(t, err)
	return resp.AccessToken
}

func (a *testAPI) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}
