package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/strandkv/strand/internal/resp"
	"github.com/strandkv/strand/internal/telemetry/metric"
	"github.com/strandkv/strand/pkg/cmap"
)

// Store holds the shared key space and the blocking-pop bookkeeping.
//
// All access to entries and waiters is serialized through a single mutex.
// Nothing suspends while holding it: blocking pops register a waiter,
// release the lock, park on a channel, and re-acquire on wake.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	waiters map[string]*waitGroup

	// timers tracks outstanding expiration timers by ULID so Close can
	// stop them. Sharded separately from the main mutex because timer
	// bookkeeping never needs the key space.
	timers *cmap.Map[*time.Timer]

	logger  *slog.Logger
	metrics *metric.Registry
	closed  bool
}

// entry is one stored value. The generation stamp is bumped on every SET of
// the key; expiration timers capture the stamp they were scheduled against
// and fire only if it is unchanged, so a stale timer never deletes a value
// written after it.
type entry struct {
	val resp.Value
	gen uint64
}

// waitGroup is the per-key wait-list for blocking pops: how many callers are
// parked plus their wake channels in arrival order. A group whose pending
// count reaches zero is removed from the map immediately.
type waitGroup struct {
	pending int
	queue   []chan struct{}
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		waiters: make(map[string]*waitGroup),
		timers:  cmap.New[*time.Timer](),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of keys currently stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops all outstanding expiration timers and wakes every parked
// waiter so their connections can unwind. The store must not be used after
// Close.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	for key, wg := range s.waiters {
		for _, ch := range wg.queue {
			ch <- struct{}{}
		}
		delete(s.waiters, key)
	}
	s.mu.Unlock()

	s.timers.Range(func(_ string, t *time.Timer) bool {
		t.Stop()
		return true
	})
	s.timers.Clear()
	return nil
}

// pendingWaiters reports how many callers are parked on the given key.
// Used by tests to verify wait-group pruning.
func (s *Store) pendingWaiters(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	wg, ok := s.waiters[key]
	if !ok {
		return 0
	}
	return wg.pending
}

// updateKeyGauge refreshes the key-count gauge. Callers hold s.mu.
func (s *Store) updateKeyGauge() {
	if s.metrics != nil {
		s.metrics.KeysActive.Set(float64(len(s.entries)))
	}
}
