package db

import (
	"errors"
	"fmt"

	"acaiteria/internal/config"
	"acaiteria/pkg/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection
func NewDatabase(cfg config.Database, development bool) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Error)
	if development {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// AutoMigrate runs database migrations using GORM
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running GORM AutoMigrate...")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Warn().Err(err).Msg("Could not create uuid-ossp extension")
	}

	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		return fmt.Errorf("failed to run GORM AutoMigrate: %w", err)
	}

	createCustomIndexes(db)

	log.Info().Msg("GORM AutoMigrate completed successfully")
	return nil
}

// createCustomIndexes creates the indexes GORM tags can't express
func createCustomIndexes(db *gorm.DB) {
	indexes := []string{
		// só um endereço padrão por cliente
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_customer_default ON addresses (customer_id) WHERE is_default = true AND deleted_at IS NULL`,

		`CREATE INDEX IF NOT EXISTS idx_orders_customer_created ON orders (customer_id, created_at DESC)`,

		`CREATE INDEX IF NOT EXISTS idx_products_search ON products USING gin(to_tsvector('portuguese', coalesce(name, '') || ' ' || coalesce(description, '')))`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name ON categories (LOWER(name)) WHERE deleted_at IS NULL`,
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			log.Warn().Err(err).Str("index", idx).Msg("Failed to create index")
		}
	}
}

// SeedInitialData creates the store settings row and the first admin
func SeedInitialData(db *gorm.DB, cfg config.Config) error {
	log.Info().Msg("Seeding initial data...")

	var settings models.StoreSettings
	err := db.Order("created_at ASC").First(&settings).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		opening, closing := "10:00", "22:00"
		deliveryStart, deliveryEnd := "11:00", "21:30"
		settings = models.StoreSettings{
			Name:                     "Açaiteria",
			IsManuallyOpen:           true,
			OperatingDays:            "1,2,3,4,5,6",
			OpeningTime:              &opening,
			ClosingTime:              &closing,
			DeliveryStartTime:        &deliveryStart,
			DeliveryEndTime:          &deliveryEnd,
			Timezone:                 cfg.StoreTimezone,
			EstimatedDeliveryMinutes: 40,
		}
		if err := db.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to create store settings: %w", err)
		}
		log.Info().Msg("Default store settings created")
	case err != nil:
		return fmt.Errorf("failed to check store settings: %w", err)
	}

	var admins int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if admins > 0 {
		return nil
	}

	if cfg.AdminPassword == "" {
		log.Warn().Msg("ADMIN_PASSWORD not set, skipping admin user creation")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Email:    cfg.AdminEmail,
		Password: string(hash),
		Name:     "Administrador",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info().Str("email", admin.Email).Msg("Admin user created successfully")
	return nil
}

// RunMigrations is the main migration function called from main.go
func RunMigrations(db *gorm.DB, cfg config.Config) error {
	log.Info().Msg("Starting database migrations...")

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}

	if err := SeedInitialData(db, cfg); err != nil {
		return fmt.Errorf("initial data seeding failed: %w", err)
	}

	log.Info().Msg("All migrations completed successfully")
	return nil
}
