package storehours

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu  sync.Mutex
	cfg StoreConfig
	err error
}

func (f *fakeSource) LoadStoreConfig(context.Context) (StoreConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg, f.err
}

func (f *fakeSource) set(cfg StoreConfig, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg, f.err = cfg, err
}

type recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (r *recorder) PublishStoreStatus(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

type steppedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func TestWatcher_PublishesOnlyChanges(t *testing.T) {
	src := &fakeSource{cfg: shopConfig()}
	rec := &recorder{}
	clock := &steppedClock{now: at(time.Monday, "09:00")}
	w := NewWatcher(src, rec, time.Minute, WithClock(clock.Now))

	ctx := context.Background()

	_, ok := w.Current()
	assert.False(t, ok)

	snap, changed := w.Refresh(ctx)
	assert.True(t, changed, "first evaluation always publishes")
	assert.False(t, snap.Status.IsOpen)

	// Same verdict a minute later
	clock.Set(at(time.Monday, "09:01"))
	_, changed = w.Refresh(ctx)
	assert.False(t, changed)

	clock.Set(at(time.Monday, "10:00"))
	snap, changed = w.Refresh(ctx)
	assert.True(t, changed)
	assert.True(t, snap.Status.IsOpen)

	assert.Equal(t, 2, rec.count())

	current, ok := w.Current()
	require.True(t, ok)
	assert.Equal(t, snap, current)
	assert.Equal(t, at(time.Monday, "10:00"), current.EvaluatedAt)
}

func TestWatcher_DeliveryChangeIsPublished(t *testing.T) {
	cfg := shopConfig()
	cfg.DeliveryEndTime = tod("21:00")
	src := &fakeSource{cfg: cfg}
	rec := &recorder{}
	clock := &steppedClock{now: at(time.Tuesday, "20:59")}
	w := NewWatcher(src, rec, time.Minute, WithClock(clock.Now))

	w.Refresh(context.Background())
	clock.Set(at(time.Tuesday, "21:01"))
	snap, changed := w.Refresh(context.Background())

	assert.True(t, changed)
	assert.True(t, snap.Status.IsOpen)
	assert.False(t, snap.Delivery.Available)
}

func TestWatcher_ConfigChangeIsPublished(t *testing.T) {
	src := &fakeSource{cfg: shopConfig()}
	rec := &recorder{}
	clock := &steppedClock{now: at(time.Monday, "12:00")}
	w := NewWatcher(src, rec, time.Minute, WithClock(clock.Now))

	w.Refresh(context.Background())

	closedCfg := shopConfig()
	closedCfg.IsManuallyOpen = false
	src.set(closedCfg, nil)

	snap, changed := w.Refresh(context.Background())
	assert.True(t, changed)
	require.NotNil(t, snap.Status.Reason)
	assert.Equal(t, ReasonManuallyClosed, *snap.Status.Reason)
}

func TestWatcher_LoadErrorKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{cfg: shopConfig()}
	rec := &recorder{}
	clock := &steppedClock{now: at(time.Monday, "12:00")}
	w := NewWatcher(src, rec, time.Minute, WithClock(clock.Now))

	first, _ := w.Refresh(context.Background())

	src.set(StoreConfig{}, errors.New("db down"))
	clock.Set(at(time.Monday, "23:00"))
	snap, changed := w.Refresh(context.Background())

	assert.False(t, changed)
	assert.Equal(t, first, snap)
	assert.Equal(t, 1, rec.count())
}

func TestWatcher_LoadErrorBeforeFirstEvaluation(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}
	w := NewWatcher(src, nil, time.Minute)

	_, changed := w.Refresh(context.Background())
	assert.False(t, changed)

	_, ok := w.Current()
	assert.False(t, ok)
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	src := &fakeSource{cfg: shopConfig()}
	var calls sync.WaitGroup
	calls.Add(1)
	var once sync.Once
	pub := PublisherFunc(func(Snapshot) { once.Do(calls.Done) })

	w := NewWatcher(src, pub, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	calls.Wait()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}

	_, ok := w.Current()
	assert.True(t, ok)
}

func TestNewWatcher_DefaultInterval(t *testing.T) {
	w := NewWatcher(&fakeSource{}, nil, 0)
	assert.Equal(t, DefaultPollInterval, w.interval)
}

// gatedSource segura a primeira leitura até release ser fechado
type gatedSource struct {
	mu      sync.Mutex
	calls   int
	stale   StoreConfig
	fresh   StoreConfig
	loading chan struct{}
	release chan struct{}
}

func (g *gatedSource) LoadStoreConfig(context.Context) (StoreConfig, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	if first {
		close(g.loading)
		<-g.release
		return g.stale, nil
	}
	return g.fresh, nil
}

func TestWatcher_ConcurrentRefreshKeepsLatestConfig(t *testing.T) {
	closedCfg := shopConfig()
	closedCfg.IsManuallyOpen = false

	source := &gatedSource{
		stale:   shopConfig(),
		fresh:   closedCfg,
		loading: make(chan struct{}),
		release: make(chan struct{}),
	}
	rec := &recorder{}
	w := NewWatcher(source, rec, time.Minute, WithClock(func() time.Time { return at(time.Tuesday, "12:00") }))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w.Refresh(context.Background())
	}()
	<-source.loading

	go func() {
		defer wg.Done()
		w.Refresh(context.Background())
	}()
	time.Sleep(20 * time.Millisecond)
	close(source.release)
	wg.Wait()

	current, ok := w.Current()
	require.True(t, ok)
	assert.False(t, current.Status.IsOpen)
	require.NotNil(t, current.Status.Reason)
	assert.Equal(t, ReasonManuallyClosed, *current.Status.Reason)
	assert.Equal(t, 2, rec.count())
}
