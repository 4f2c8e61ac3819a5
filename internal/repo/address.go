package repo

import (
	"context"

	"acaiteria/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *AddressRepository) GetByID(ctx context.Context, customerID, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).Where("id = ? AND customer_id = ?", addressID, customerID).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *AddressRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error
	return addresses, err
}

func (r *AddressRepository) Update(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *AddressRepository) Delete(ctx context.Context, customerID, addressID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND customer_id = ?", addressID, customerID).Delete(&models.Address{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AddressRepository) SetDefault(ctx context.Context, customerID, addressID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Remove default from all addresses of this customer
		if err := tx.Model(&models.Address{}).
			Where("customer_id = ?", customerID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Address{}).
			Where("id = ? AND customer_id = ?", addressID, customerID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
