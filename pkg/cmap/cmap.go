// Package cmap provides a concurrent-safe sharded map with string keys.
//
// Sharding keeps lock contention low when many goroutines touch disjoint
// keys, which is the common case for timer bookkeeping and per-connection
// state.
package cmap

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Map is a concurrent-safe sharded map keyed by strings.
type Map[V any] struct {
	shards    []*shard[V]
	shardMask uint64
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// New creates a map with the default shard count.
func New[V any]() *Map[V] {
	return NewWithShards[V](DefaultShardCount)
}

// NewWithShards creates a map with the given shard count, which must be a
// power of two (invalid counts fall back to the default).
func NewWithShards[V any](shardCount int) *Map[V] {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	m := &Map[V]{
		shards:    make([]*shard[V], shardCount),
		shardMask: uint64(shardCount - 1),
	}
	for i := range m.shards {
		m.shards[i] = &shard[V]{items: make(map[string]V)}
	}
	return m
}

func (m *Map[V]) shardFor(key string) *shard[V] {
	hash := murmur3.Sum64([]byte(key))
	return m.shards[hash&m.shardMask]
}

// Get retrieves a value by key.
func (m *Map[V]) Get(key string) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Set stores a key-value pair.
func (m *Map[V]) Set(key string, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Delete removes a key.
func (m *Map[V]) Delete(key string) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Pop removes a key and returns its former value.
func (m *Map[V]) Pop(key string) (V, bool) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return v, ok
}

// Has reports whether a key exists.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Count returns the total number of items.
func (m *Map[V]) Count() int {
	count := 0
	for _, s := range m.shards {
		s.mu.RLock()
		count += len(s.items)
		s.mu.RUnlock()
	}
	return count
}

// Range iterates over all key-value pairs. The callback returns false to
// stop early. Locks are taken shard by shard, so the view is not a
// consistent snapshot.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Clear removes all items.
func (m *Map[V]) Clear() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.items = make(map[string]V)
		s.mu.Unlock()
	}
}
