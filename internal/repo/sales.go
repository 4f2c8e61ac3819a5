package repo

import (
	"context"
	"time"

	"acaiteria/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository handles catalog products
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Save(product).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// List lists products ordered for the storefront
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var products []models.Product

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	err := query.Order("sort_order ASC, name ASC").Find(&products).Error
	return products, err
}

// ComplementRepository handles flavors and add-ons
type ComplementRepository struct {
	db *gorm.DB
}

func NewComplementRepository(db *gorm.DB) *ComplementRepository {
	return &ComplementRepository{db: db}
}

func (r *ComplementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Complement, error) {
	var complement models.Complement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&complement).Error; err != nil {
		return nil, err
	}
	return &complement, nil
}

func (r *ComplementRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Complement, error) {
	var complements []models.Complement
	if len(ids) == 0 {
		return complements, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&complements).Error
	return complements, err
}

func (r *ComplementRepository) List(ctx context.Context, kind string, onlyActive bool) ([]models.Complement, error) {
	var complements []models.Complement
	query := r.db.WithContext(ctx)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("kind ASC, sort_order ASC, name ASC").Find(&complements).Error
	return complements, err
}

func (r *ComplementRepository) Create(ctx context.Context, complement *models.Complement) error {
	return r.db.WithContext(ctx).Create(complement).Error
}

func (r *ComplementRepository) Update(ctx context.Context, complement *models.Complement) error {
	return r.db.WithContext(ctx).Save(complement).Error
}

func (r *ComplementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Complement{}).Error
}

// OrderRepository handles orders and their items
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items").Preload("Items.Complements")
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.preloaded(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetForCustomer gets an order only if it belongs to the customer
func (r *OrderRepository) GetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.preloaded(ctx).Where("id = ? AND customer_id = ?", id, customerID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Create persists the order with items and complements in one transaction
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.preloaded(ctx).Where("customer_id = ?", customerID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// List lists orders for the admin panel, newest first
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) (*models.PaginationResult[models.Order], error) {
	var orders []models.Order
	var total int64

	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Order{})
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		return query
	}

	if err := scoped().Count(&total).Error; err != nil {
		return nil, err
	}

	err := scoped().Preload("Items").Preload("Items.Complements").
		Order("created_at DESC").
		Limit(filter.PerPage).
		Offset((filter.Page - 1) * filter.PerPage).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	result := models.NewPaginationResult(orders, total, filter.Page, filter.PerPage)
	return &result, nil
}

// UpdateStatus changes the status and the matching timestamp columns
func (r *OrderRepository) UpdateStatus(ctx context.Context, order *models.Order, status, cancelReason string, at time.Time) error {
	updates := map[string]interface{}{"status": status}
	switch status {
	case models.OrderStatusConfirmed:
		updates["confirmed_at"] = at
	case models.OrderStatusDelivered:
		updates["delivered_at"] = at
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = at
		updates["cancel_reason"] = cancelReason
	}
	return r.db.WithContext(ctx).Model(order).Updates(updates).Error
}

// CountCreatedSince counts orders created after the given instant, used for order numbers
func (r *OrderRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Order{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}
