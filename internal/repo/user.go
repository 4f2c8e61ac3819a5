package repo

import (
	"context"

	"acaiteria/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository handles admin and customer accounts
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail gets a user by email (case insensitive)
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// CountByRole counts users with the given role
func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// ListCustomers lists customers for the admin panel
func (r *UserRepository) ListCustomers(ctx context.Context, search string, limit, offset int) (*models.PaginationResult[models.User], error) {
	var users []models.User
	var total int64

	if limit <= 0 {
		limit = 20
	}

	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleCustomer)
		if search != "" {
			like := "%" + search + "%"
			query = query.Where("name ILIKE ? OR email ILIKE ? OR phone LIKE ?", like, like, like)
		}
		return query
	}

	if err := scoped().Count(&total).Error; err != nil {
		return nil, err
	}

	if err := scoped().Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, err
	}

	result := models.NewPaginationResult(users, total, offset/limit+1, limit)
	return &result, nil
}
