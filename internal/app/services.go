package app

import (
	"context"
	"fmt"
	"sync"

	"acaiteria/internal/auth"
	"acaiteria/internal/config"
	"acaiteria/internal/repo"
	"acaiteria/internal/services"
	"acaiteria/internal/storehours"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services holds all application services
type Services struct {
	DB     *gorm.DB
	Config config.Config
	Redis  *redis.Client

	AuthService    *auth.Service
	StoreService   *services.StoreService
	CatalogService *services.CatalogService
	OrderService   *services.OrderService
	StorageService *services.StorageService

	UserRepo          *repo.UserRepository
	AddressRepo       *repo.AddressRepository
	CategoryRepo      *repo.CategoryRepository
	ProductRepo       *repo.ProductRepository
	ComplementRepo    *repo.ComplementRepository
	OrderRepo         *repo.OrderRepository
	StoreSettingsRepo *repo.StoreSettingsRepository

	// Watcher reavalia o status da loja e publica as mudanças
	Watcher *storehours.Watcher

	mu          sync.RWMutex
	subscribers []storehours.Publisher
}

// NewServices creates a new services container
func NewServices(cfg config.Config, db *gorm.DB) (*Services, error) {
	userRepo := repo.NewUserRepository(db)
	addressRepo := repo.NewAddressRepository(db)
	categoryRepo := repo.NewCategoryRepository(db)
	productRepo := repo.NewProductRepository(db)
	complementRepo := repo.NewComplementRepository(db)
	orderRepo := repo.NewOrderRepository(db)
	storeSettingsRepo := repo.NewStoreSettingsRepository(db)

	// Redis é opcional, sem ele a configuração da loja vem sempre do banco
	var redisClient *redis.Client
	var cache redis.Cmdable
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		cache = redisClient
	} else {
		log.Warn().Msg("REDIS_URL not set, store settings cache disabled")
	}

	// Storage também é opcional, sem ele o upload de imagens responde 503
	var storageService *services.StorageService
	var imageStorage services.ImageStorage
	if cfg.Storage.Enabled() {
		s, err := services.NewStorageService(cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize storage service")
		} else {
			storageService = s
			imageStorage = s
		}
	}

	authService := auth.NewService(userRepo, auth.Options{
		Secret:          cfg.JWTSecret,
		AccessDuration:  cfg.JWTAccessDuration,
		RefreshDuration: cfg.JWTRefreshDuration,
	})
	storeService := services.NewStoreService(storeSettingsRepo, cache, cfg.StoreConfigCacheTTL, cfg.Location())
	catalogService := services.NewCatalogService(categoryRepo, productRepo, complementRepo, imageStorage)
	orderService := services.NewOrderService(storeService, productRepo, complementRepo, addressRepo, userRepo, orderRepo)

	s := &Services{
		DB:                db,
		Config:            cfg,
		Redis:             redisClient,
		AuthService:       authService,
		StoreService:      storeService,
		CatalogService:    catalogService,
		OrderService:      orderService,
		StorageService:    storageService,
		UserRepo:          userRepo,
		AddressRepo:       addressRepo,
		CategoryRepo:      categoryRepo,
		ProductRepo:       productRepo,
		ComplementRepo:    complementRepo,
		OrderRepo:         orderRepo,
		StoreSettingsRepo: storeSettingsRepo,
	}

	s.Watcher = storehours.NewWatcher(storeService, storehours.PublisherFunc(s.publish), cfg.StatusPollInterval,
		storehours.WithClock(storeService.Now))

	// mudança feita pelo admin aparece na hora, sem esperar o próximo tick
	storeService.OnChange(func(ctx context.Context) {
		s.Watcher.Refresh(ctx)
	})

	return s, nil
}

// Subscribe registers a publisher for store status changes
func (s *Services) Subscribe(p storehours.Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, p)
}

func (s *Services) publish(snapshot storehours.Snapshot) {
	s.mu.RLock()
	subscribers := append([]storehours.Publisher{}, s.subscribers...)
	s.mu.RUnlock()

	for _, p := range subscribers {
		p.PublishStoreStatus(snapshot)
	}
}

// Close releases the external connections
func (s *Services) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
