package store

import (
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

// scheduleExpiry arms a one-shot deletion timer for key. The timer captures
// the generation the value was written with; if the key is overwritten
// before the timer fires, the generations no longer match and the fire is a
// no-op. The overwrite schedules its own timer, so there is never a window
// where an older timer can delete a newer value.
func (s *Store) scheduleExpiry(key string, gen uint64, ttl time.Duration) {
	id := ulid.Make().String()
	timer := time.AfterFunc(ttl, func() {
		s.timers.Delete(id)
		s.expire(key, gen)
	})
	s.timers.Set(id, timer)
}

// expire deletes key if it still holds the generation the timer was armed
// against.
func (s *Store) expire(key string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.gen != gen {
		return
	}
	delete(s.entries, key)
	s.updateKeyGauge()
	if s.metrics != nil {
		s.metrics.KeysExpired.Inc()
	}
	s.logger.Debug("key expired", slog.String("key", key))
}
