package storehours

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPollInterval is used when NewWatcher receives a non-positive interval.
const DefaultPollInterval = 30 * time.Second

// ConfigSource fornece a configuração atual da loja
type ConfigSource interface {
	LoadStoreConfig(ctx context.Context) (StoreConfig, error)
}

// Publisher recebe os snapshots sempre que o status muda
type Publisher interface {
	PublishStoreStatus(snapshot Snapshot)
}

// PublisherFunc adapts a plain function to Publisher.
type PublisherFunc func(Snapshot)

func (f PublisherFunc) PublishStoreStatus(s Snapshot) { f(s) }

// Snapshot é o resultado de uma avaliação completa
type Snapshot struct {
	Status      StoreStatus    `json:"status"`
	Delivery    DeliveryStatus `json:"delivery"`
	EvaluatedAt time.Time      `json:"evaluated_at"`
}

func (s Snapshot) sameVerdict(o Snapshot) bool {
	return s.Status.IsOpen == o.Status.IsOpen &&
		equalText(s.Status.Reason, o.Status.Reason) &&
		equalText(s.Status.NextOpenTime, o.Status.NextOpenTime) &&
		s.Delivery.Available == o.Delivery.Available &&
		equalText(s.Delivery.Reason, o.Delivery.Reason)
}

func equalText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Watcher reavalia o status em intervalo fixo e publica apenas as mudanças.
// A avaliação continua pura; o estado aqui é só o último snapshot publicado.
type Watcher struct {
	source    ConfigSource
	publisher Publisher
	interval  time.Duration
	clock     func() time.Time

	// serializa Refresh: o tick e o hook de alteração não podem se intercalar
	refreshMu sync.Mutex

	mu      sync.RWMutex
	current Snapshot
	hasLast bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithClock replaces the wall clock used for each evaluation.
func WithClock(clock func() time.Time) WatcherOption {
	return func(w *Watcher) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// NewWatcher creates a watcher. publisher may be nil.
func NewWatcher(source ConfigSource, publisher Publisher, interval time.Duration, opts ...WatcherOption) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	w := &Watcher{
		source:    source,
		publisher: publisher,
		interval:  interval,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run avalia imediatamente e depois a cada intervalo, até o contexto ser cancelado
func (w *Watcher) Run(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Store status watcher started")

	w.Refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Store status watcher stopped")
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Refresh carrega a configuração, avalia e publica se o veredito mudou.
// Retorna o snapshot atual e se ele foi alterado nesta chamada.
func (w *Watcher) Refresh(ctx context.Context) (Snapshot, bool) {
	w.refreshMu.Lock()
	defer w.refreshMu.Unlock()

	cfg, err := w.source.LoadStoreConfig(ctx)
	if err != nil {
		// Sem configuração o status é desconhecido: mantém o último snapshot
		log.Warn().Err(err).Msg("Failed to load store config, keeping previous status")
		snap, _ := w.Current()
		return snap, false
	}

	now := w.clock()
	snap := Snapshot{
		Status:      Evaluate(cfg, now),
		Delivery:    EvaluateDelivery(cfg, now),
		EvaluatedAt: now,
	}

	w.mu.Lock()
	changed := !w.hasLast || !w.current.sameVerdict(snap)
	w.current = snap
	w.hasLast = true
	w.mu.Unlock()

	if changed {
		log.Info().
			Bool("is_open", snap.Status.IsOpen).
			Bool("delivery_available", snap.Delivery.Available).
			Msg("Store status changed")
		if w.publisher != nil {
			w.publisher.PublishStoreStatus(snap)
		}
	} else {
		log.Debug().Bool("is_open", snap.Status.IsOpen).Msg("Store status unchanged")
	}

	return snap, changed
}

// Current retorna o último snapshot avaliado; ok é false antes da primeira avaliação
func (w *Watcher) Current() (Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current, w.hasLast
}
