package services

import (
	"context"
	"sync"
	"time"

	"acaiteria/internal/storehours"
	"acaiteria/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings models.StoreSettings
	saves    int
}

func (f *fakeSettingsRepo) Get(context.Context) (*models.StoreSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := f.settings
	return &copied, nil
}

func (f *fakeSettingsRepo) Save(_ context.Context, s *models.StoreSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = *s
	f.saves++
	return nil
}

func (f *fakeSettingsRepo) SetManualOpen(_ context.Context, _ *models.StoreSettings, open bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings.IsManuallyOpen = open
	return nil
}

// shopSettings abre de segunda a sábado, 10:00 às 22:00, entregas 11:00 às 21:30
func shopSettings() models.StoreSettings {
	return models.StoreSettings{
		Name:              "Açaí da Praça",
		IsManuallyOpen:    true,
		OperatingDays:     "1,2,3,4,5,6",
		OpeningTime:       strPtr("10:00"),
		ClosingTime:       strPtr("22:00"),
		DeliveryStartTime: strPtr("11:00"),
		DeliveryEndTime:   strPtr("21:30"),
		Timezone:          "UTC",
		DeliveryFeeCents:  500,
		MinimumOrderCents: 1500,
	}
}

type fakeAvailability struct {
	settings models.StoreSettings
	snapshot storehours.Snapshot
}

func (f *fakeAvailability) Availability(context.Context) (*models.StoreSettings, storehours.Snapshot, error) {
	s := f.settings
	return &s, f.snapshot, nil
}

func availabilityAt(settings models.StoreSettings, now time.Time) *fakeAvailability {
	cfg, err := StoreConfigFromSettings(&settings)
	if err != nil {
		panic(err)
	}
	return &fakeAvailability{
		settings: settings,
		snapshot: storehours.Snapshot{
			Status:      storehours.Evaluate(cfg, now),
			Delivery:    storehours.EvaluateDelivery(cfg, now),
			EvaluatedAt: now,
		},
	}
}

type fakeProducts struct {
	items map[uuid.UUID]models.Product
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{items: map[uuid.UUID]models.Product{}}
	for _, p := range products {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProducts) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeProducts) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) error {
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) List(context.Context, models.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

type fakeComplements struct {
	items map[uuid.UUID]models.Complement
}

func newFakeComplements(complements ...models.Complement) *fakeComplements {
	f := &fakeComplements{items: map[uuid.UUID]models.Complement{}}
	for _, c := range complements {
		f.items[c.ID] = c
	}
	return f
}

func (f *fakeComplements) GetByID(_ context.Context, id uuid.UUID) (*models.Complement, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (f *fakeComplements) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Complement, error) {
	var out []models.Complement
	for _, id := range ids {
		if c, ok := f.items[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeComplements) List(context.Context, string, bool) ([]models.Complement, error) {
	var out []models.Complement
	for _, c := range f.items {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeComplements) Create(_ context.Context, c *models.Complement) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.items[c.ID] = *c
	return nil
}

func (f *fakeComplements) Update(_ context.Context, c *models.Complement) error {
	f.items[c.ID] = *c
	return nil
}

func (f *fakeComplements) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type fakeAddresses struct {
	items map[uuid.UUID]models.Address
}

func (f *fakeAddresses) GetByID(_ context.Context, customerID, addressID uuid.UUID) (*models.Address, error) {
	a, ok := f.items[addressID]
	if !ok || a.CustomerID != customerID {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

type fakeUsers struct {
	items map[uuid.UUID]models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

type statusChange struct {
	status string
	reason string
}

type fakeOrders struct {
	items   map[uuid.UUID]models.Order
	changes []statusChange
	today   int64
}

func newFakeOrders(orders ...models.Order) *fakeOrders {
	f := &fakeOrders{items: map[uuid.UUID]models.Order{}}
	for _, o := range orders {
		f.items[o.ID] = o
	}
	return f
}

func (f *fakeOrders) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (f *fakeOrders) GetForCustomer(_ context.Context, customerID, id uuid.UUID) (*models.Order, error) {
	o, ok := f.items[id]
	if !ok || o.CustomerID != customerID {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	o.ID = uuid.New()
	f.items[o.ID] = *o
	f.today++
	return nil
}

func (f *fakeOrders) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.items {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) List(_ context.Context, filter models.OrderFilter) (*models.PaginationResult[models.Order], error) {
	var out []models.Order
	for _, o := range f.items {
		out = append(out, o)
	}
	result := models.NewPaginationResult(out, int64(len(out)), 1, 20)
	return &result, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, o *models.Order, status, reason string, _ time.Time) error {
	stored := f.items[o.ID]
	stored.Status = status
	stored.CancelReason = reason
	f.items[o.ID] = stored
	f.changes = append(f.changes, statusChange{status: status, reason: reason})
	return nil
}

func (f *fakeOrders) CountCreatedSince(context.Context, time.Time) (int64, error) {
	return f.today, nil
}
