package repo

import (
	"context"

	"acaiteria/pkg/models"

	"gorm.io/gorm"
)

// StoreSettingsRepository handles the single store settings row
type StoreSettingsRepository struct {
	db *gorm.DB
}

// NewStoreSettingsRepository creates a new store settings repository
func NewStoreSettingsRepository(db *gorm.DB) *StoreSettingsRepository {
	return &StoreSettingsRepository{db: db}
}

// Get returns the store settings (the oldest row wins if more than one exists)
func (r *StoreSettingsRepository) Get(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates the settings row
func (r *StoreSettingsRepository) Save(ctx context.Context, settings *models.StoreSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// SetManualOpen updates only the manual override flag
func (r *StoreSettingsRepository) SetManualOpen(ctx context.Context, settings *models.StoreSettings, open bool) error {
	return r.db.WithContext(ctx).Model(settings).Update("is_manually_open", open).Error
}
