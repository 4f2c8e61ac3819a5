package services

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"acaiteria/internal/storehours"
	"acaiteria/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday é 2024-06-03, uma segunda-feira
func monday(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2024-06-03 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestStoreService(settings models.StoreSettings, now time.Time) (*StoreService, *fakeSettingsRepo) {
	repo := &fakeSettingsRepo{settings: settings}
	svc := NewStoreService(repo, nil, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })
	return svc, repo
}

func TestStoreConfigFromSettings(t *testing.T) {
	settings := shopSettings()
	cfg, err := StoreConfigFromSettings(&settings)
	require.NoError(t, err)

	assert.True(t, cfg.IsManuallyOpen)
	assert.Equal(t, 6, cfg.OperatingDays.Len())
	assert.False(t, cfg.OperatingDays.Contains(time.Sunday))
	require.NotNil(t, cfg.OpeningTime)
	assert.Equal(t, "10:00", cfg.OpeningTime.String())
	assert.Equal(t, "21:30", cfg.DeliveryEndTime.String())
}

func TestStoreConfigFromSettings_Invalid(t *testing.T) {
	settings := shopSettings()
	settings.OperatingDays = "1,x"
	_, err := StoreConfigFromSettings(&settings)
	assert.ErrorIs(t, err, storehours.ErrInvalidConfig)

	settings = shopSettings()
	settings.ClosingTime = strPtr("25:00")
	_, err = StoreConfigFromSettings(&settings)
	assert.ErrorIs(t, err, storehours.ErrInvalidConfig)
}

func TestParseAndFormatOperatingDays(t *testing.T) {
	days, err := ParseOperatingDays(" 6, 1,3 ,")
	require.NoError(t, err)
	assert.Equal(t, []int{6, 1, 3}, days)

	days, err = ParseOperatingDays("")
	require.NoError(t, err)
	assert.Empty(t, days)

	assert.Equal(t, "0,1,6", FormatOperatingDays([]int{6, 0, 1, 6}))
	assert.Equal(t, "", FormatOperatingDays(nil))
}

func TestStoreService_Availability(t *testing.T) {
	tests := []struct {
		name      string
		at        string
		open      bool
		delivery  bool
		reasonSub string
	}{
		{"antes de abrir", "09:59", false, false, "A loja abre às 10:00"},
		{"aberta sem entrega", "10:30", true, false, "Entregas começam às 11:00"},
		{"aberta com entrega", "12:00", true, true, ""},
		{"entregas encerradas", "21:45", true, false, "Entregas encerradas às 21:30"},
		{"depois de fechar", "22:01", false, false, "A loja já encerrou o expediente"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestStoreService(shopSettings(), monday(tt.at))
			_, snapshot, err := svc.Availability(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.open, snapshot.Status.IsOpen)
			assert.Equal(t, tt.delivery, snapshot.Delivery.Available)
			if tt.reasonSub != "" {
				reason := textOf(snapshot.Status.Reason)
				if tt.open {
					reason = textOf(snapshot.Delivery.Reason)
				}
				assert.Contains(t, reason, tt.reasonSub)
			}
		})
	}
}

func TestStoreService_UsesSettingsTimezone(t *testing.T) {
	settings := shopSettings()
	settings.Timezone = "Etc/GMT+3" // UTC-3
	// 12:30 UTC é 09:30 no horário da loja
	svc, _ := newTestStoreService(settings, monday("12:30"))

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.IsOpen)
	assert.Equal(t, "A loja abre às 10:00", textOf(status.Reason))
	assert.Equal(t, 9, svc.Now().Hour())
}

func TestStoreService_InvalidTimezoneFallsBack(t *testing.T) {
	settings := shopSettings()
	settings.Timezone = "Lua/Crateras"
	svc, _ := newTestStoreService(settings, monday("12:00"))

	_, err := svc.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.UTC, svc.Location())
}

func TestStoreService_SetManualOpenNotifies(t *testing.T) {
	svc, repo := newTestStoreService(shopSettings(), monday("12:00"))

	var calls int
	svc.OnChange(func(context.Context) { calls++ })

	settings, err := svc.SetManualOpen(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, settings.IsManuallyOpen)
	assert.False(t, repo.settings.IsManuallyOpen)
	assert.Equal(t, 1, calls)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.IsOpen)
	assert.Equal(t, storehours.ReasonManuallyClosed, textOf(status.Reason))
	assert.Nil(t, status.NextOpenTime)
}

func TestStoreService_UpdateSettings(t *testing.T) {
	svc, repo := newTestStoreService(shopSettings(), monday("12:00"))

	var calls int
	svc.OnChange(func(context.Context) { calls++ })

	req := &models.UpdateStoreSettingsRequest{
		OperatingDays:     []int{0, 6, 6},
		OpeningTime:       strPtr("9:00"),
		DeliveryStartTime: strPtr(""),
		DeliveryFeeCents:  func() *int64 { v := int64(700); return &v }(),
	}
	settings, err := svc.UpdateSettings(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "0,6", settings.OperatingDays)
	require.NotNil(t, settings.OpeningTime)
	assert.Equal(t, "09:00", *settings.OpeningTime)
	assert.Nil(t, settings.DeliveryStartTime)
	assert.Equal(t, int64(700), settings.DeliveryFeeCents)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, 1, calls)
}

func TestStoreService_UpdateSettingsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpdateStoreSettingsRequest
	}{
		{"horário malformado", models.UpdateStoreSettingsRequest{ClosingTime: strPtr("22h")}},
		{"dia fora do intervalo", models.UpdateStoreSettingsRequest{OperatingDays: []int{7}}},
		{"timezone desconhecido", models.UpdateStoreSettingsRequest{Timezone: strPtr("Lua/Crateras")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestStoreService(shopSettings(), monday("12:00"))
			var calls int
			svc.OnChange(func(context.Context) { calls++ })

			_, err := svc.UpdateSettings(context.Background(), &tt.req)
			assert.ErrorIs(t, err, storehours.ErrInvalidConfig)
			assert.Equal(t, 0, repo.saves)
			assert.Equal(t, 0, calls)
		})
	}
}

func TestStoreService_Schedule(t *testing.T) {
	svc, _ := newTestStoreService(shopSettings(), monday("12:00"))
	schedule, err := svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Contains(t, schedule, "• Segunda: 10:00 às 22:00")
	assert.Contains(t, schedule, "• Domingo: Fechado")
}

func TestStoreService_FeedsWatcher(t *testing.T) {
	svc, _ := newTestStoreService(shopSettings(), monday("12:00"))

	var published []storehours.Snapshot
	watcher := storehours.NewWatcher(svc, storehours.PublisherFunc(func(s storehours.Snapshot) {
		published = append(published, s)
	}), time.Minute, storehours.WithClock(svc.Now))
	svc.OnChange(func(ctx context.Context) { watcher.Refresh(ctx) })

	ctx := context.Background()
	watcher.Refresh(ctx)
	require.Len(t, published, 1)
	assert.True(t, published[0].Status.IsOpen)

	_, err := svc.SetManualOpen(ctx, false)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.False(t, published[1].Status.IsOpen)
}

func TestStoreService_SetManualOpenTracksTimezone(t *testing.T) {
	settings := shopSettings()
	settings.Timezone = "America/Sao_Paulo"
	svc, repo := newTestStoreService(settings, monday("12:00"))
	require.Equal(t, "UTC", svc.Location().String())

	updated, err := svc.SetManualOpen(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, updated.IsManuallyOpen)
	assert.False(t, repo.settings.IsManuallyOpen)
	assert.Equal(t, "America/Sao_Paulo", svc.Location().String())
}
