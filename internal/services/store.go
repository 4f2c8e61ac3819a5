package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"acaiteria/internal/storehours"
	"acaiteria/pkg/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const storeSettingsCacheKey = "acaiteria:store:settings"

// StoreSettingsStore is the persistence used by StoreService
type StoreSettingsStore interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
	Save(ctx context.Context, settings *models.StoreSettings) error
	SetManualOpen(ctx context.Context, settings *models.StoreSettings, open bool) error
}

// StoreService carrega a configuração da loja e avalia o horário de funcionamento.
// Implementa storehours.ConfigSource para o watcher.
type StoreService struct {
	repo     StoreSettingsStore
	cache    redis.Cmdable
	cacheTTL time.Duration
	fallback *time.Location
	location atomic.Pointer[time.Location]
	clock    func() time.Time

	mu       sync.RWMutex
	onChange []func(ctx context.Context)
}

// NewStoreService creates a new store service. cache may be nil.
func NewStoreService(repo StoreSettingsStore, cache redis.Cmdable, cacheTTL time.Duration, fallback *time.Location) *StoreService {
	if fallback == nil {
		fallback = time.UTC
	}
	s := &StoreService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		fallback: fallback,
		clock:    time.Now,
	}
	s.location.Store(fallback)
	return s
}

// SetClock replaces the wall clock (tests and the CLI --at flag)
func (s *StoreService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// OnChange registers a hook called after every configuration change
func (s *StoreService) OnChange(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

func (s *StoreService) notifyChange(ctx context.Context) {
	s.mu.RLock()
	hooks := append([]func(context.Context){}, s.onChange...)
	s.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

// Location returns the timezone of the last loaded settings
func (s *StoreService) Location() *time.Location {
	return s.location.Load()
}

// Now returns the current instant in the store timezone
func (s *StoreService) Now() time.Time {
	return s.clock().In(s.Location())
}

// Settings returns the store settings, from redis when cached
func (s *StoreService) Settings(ctx context.Context) (*models.StoreSettings, error) {
	if cached := s.cachedSettings(ctx); cached != nil {
		s.trackLocation(cached)
		return cached, nil
	}

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}

	s.storeCache(ctx, settings)
	s.trackLocation(settings)
	return settings, nil
}

func (s *StoreService) cachedSettings(ctx context.Context) *models.StoreSettings {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, storeSettingsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Falha ao ler configuração da loja no cache")
		}
		return nil
	}

	var settings models.StoreSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Warn().Err(err).Msg("Configuração da loja inválida no cache")
		return nil
	}
	return &settings
}

func (s *StoreService) storeCache(ctx context.Context, settings *models.StoreSettings) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, storeSettingsCacheKey, data, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("Falha ao gravar configuração da loja no cache")
	}
}

func (s *StoreService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, storeSettingsCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("Falha ao invalidar cache da configuração da loja")
	}
}

func (s *StoreService) trackLocation(settings *models.StoreSettings) {
	if settings.Timezone == "" {
		s.location.Store(s.fallback)
		return
	}
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", settings.Timezone).Msg("Timezone da loja inválido, usando padrão")
		s.location.Store(s.fallback)
		return
	}
	s.location.Store(loc)
}

// LoadStoreConfig implements storehours.ConfigSource
func (s *StoreService) LoadStoreConfig(ctx context.Context) (storehours.StoreConfig, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return storehours.StoreConfig{}, err
	}
	return StoreConfigFromSettings(settings)
}

// Availability evaluates the store and delivery status right now
func (s *StoreService) Availability(ctx context.Context) (*models.StoreSettings, storehours.Snapshot, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, storehours.Snapshot{}, err
	}
	cfg, err := StoreConfigFromSettings(settings)
	if err != nil {
		return nil, storehours.Snapshot{}, err
	}

	now := s.Now()
	return settings, storehours.Snapshot{
		Status:      storehours.Evaluate(cfg, now),
		Delivery:    storehours.EvaluateDelivery(cfg, now),
		EvaluatedAt: now,
	}, nil
}

// Status returns whether the store is open now
func (s *StoreService) Status(ctx context.Context) (storehours.StoreStatus, error) {
	_, snapshot, err := s.Availability(ctx)
	if err != nil {
		return storehours.StoreStatus{}, err
	}
	return snapshot.Status, nil
}

// Delivery returns whether delivery is available now
func (s *StoreService) Delivery(ctx context.Context) (storehours.DeliveryStatus, error) {
	_, snapshot, err := s.Availability(ctx)
	if err != nil {
		return storehours.DeliveryStatus{}, err
	}
	return snapshot.Delivery, nil
}

// Schedule returns the weekly schedule text
func (s *StoreService) Schedule(ctx context.Context) (string, error) {
	cfg, err := s.LoadStoreConfig(ctx)
	if err != nil {
		return "", err
	}
	return storehours.FormatSchedule(cfg), nil
}

// UpdateSettings applies the admin form. Times and days are validated before saving.
func (s *StoreService) UpdateSettings(ctx context.Context, req *models.UpdateStoreSettingsRequest) (*models.StoreSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}

	if req.Name != nil {
		settings.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		settings.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.IsManuallyOpen != nil {
		settings.IsManuallyOpen = *req.IsManuallyOpen
	}
	if req.OperatingDays != nil {
		settings.OperatingDays = FormatOperatingDays(req.OperatingDays)
	}
	if req.OpeningTime != nil {
		settings.OpeningTime = normalizedTime(*req.OpeningTime)
	}
	if req.ClosingTime != nil {
		settings.ClosingTime = normalizedTime(*req.ClosingTime)
	}
	if req.DeliveryStartTime != nil {
		settings.DeliveryStartTime = normalizedTime(*req.DeliveryStartTime)
	}
	if req.DeliveryEndTime != nil {
		settings.DeliveryEndTime = normalizedTime(*req.DeliveryEndTime)
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, fmt.Errorf("%w: timezone %q", storehours.ErrInvalidConfig, *req.Timezone)
		}
		settings.Timezone = *req.Timezone
	}
	if req.DeliveryFeeCents != nil {
		settings.DeliveryFeeCents = *req.DeliveryFeeCents
	}
	if req.MinimumOrderCents != nil {
		settings.MinimumOrderCents = *req.MinimumOrderCents
	}
	if req.EstimatedDeliveryMinutes != nil {
		settings.EstimatedDeliveryMinutes = *req.EstimatedDeliveryMinutes
	}

	cfg, err := StoreConfigFromSettings(settings)
	if err != nil {
		return nil, err
	}

	// guarda sempre no formato canônico HH:MM
	raw := cfg.Raw()
	settings.OpeningTime = raw.OpeningTime
	settings.ClosingTime = raw.ClosingTime
	settings.DeliveryStartTime = raw.DeliveryStartTime
	settings.DeliveryEndTime = raw.DeliveryEndTime
	settings.OperatingDays = FormatOperatingDays(raw.OperatingDays)

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save store settings: %w", err)
	}

	log.Info().
		Str("operating_days", settings.OperatingDays).
		Bool("is_manually_open", settings.IsManuallyOpen).
		Msg("Configuração da loja atualizada")

	s.invalidate(ctx)
	s.trackLocation(settings)
	s.notifyChange(ctx)
	return settings, nil
}

// SetManualOpen liga ou desliga a abertura manual da loja
func (s *StoreService) SetManualOpen(ctx context.Context, open bool) (*models.StoreSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}

	if err := s.repo.SetManualOpen(ctx, settings, open); err != nil {
		return nil, fmt.Errorf("failed to update manual override: %w", err)
	}
	settings.IsManuallyOpen = open

	log.Info().Bool("is_manually_open", open).Msg("Abertura manual da loja alterada")

	s.invalidate(ctx)
	s.trackLocation(settings)
	s.notifyChange(ctx)
	return settings, nil
}

// StoreConfigFromSettings converts the persisted row into a validated StoreConfig
func StoreConfigFromSettings(settings *models.StoreSettings) (storehours.StoreConfig, error) {
	days, err := ParseOperatingDays(settings.OperatingDays)
	if err != nil {
		return storehours.StoreConfig{}, err
	}

	open := settings.IsManuallyOpen
	raw := storehours.RawConfig{
		IsManuallyOpen:    &open,
		OperatingDays:     days,
		OpeningTime:       settings.OpeningTime,
		ClosingTime:       settings.ClosingTime,
		DeliveryStartTime: settings.DeliveryStartTime,
		DeliveryEndTime:   settings.DeliveryEndTime,
	}
	return raw.Normalize()
}

// ParseOperatingDays parses the "1,2,3" column format. An empty string means no days.
func ParseOperatingDays(csv string) ([]int, error) {
	days := []int{}
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: dia da semana %q", storehours.ErrInvalidConfig, part)
		}
		days = append(days, d)
	}
	return days, nil
}

// FormatOperatingDays formats days as the sorted, deduplicated column format
func FormatOperatingDays(days []int) string {
	seen := make(map[int]bool, len(days))
	unique := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}
	sort.Ints(unique)

	parts := make([]string, len(unique))
	for i, d := range unique {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func normalizedTime(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
