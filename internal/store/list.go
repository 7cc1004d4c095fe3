package store

import (
	"context"
	"time"

	"github.com/strandkv/strand/internal/command"
	"github.com/strandkv/strand/internal/resp"
)

// list returns the elements of the list at key, or nil when the key is
// absent or holds a non-list value. Callers hold s.mu; the returned slice
// is a borrow and must not escape the critical section uncopied.
func (s *Store) list(key string) []resp.Value {
	e, ok := s.entries[key]
	if !ok || e.val.Kind() != resp.KindArray || e.val.IsNull() {
		return nil
	}
	return e.val.Elems()
}

// storeList replaces the list at key, keeping the entry's generation so an
// expiry scheduled by SET still applies. Callers hold s.mu.
func (s *Store) storeList(key string, elems []resp.Value) {
	if e, ok := s.entries[key]; ok {
		e.val = resp.Array(elems...)
		return
	}
	s.entries[key] = &entry{val: resp.Array(elems...), gen: 1}
}

func (s *Store) push(c command.ListPush) resp.Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.list(c.Key)
	elems := make([]resp.Value, 0, len(old)+len(c.Values))
	if c.Dir == command.Left {
		// Each value is prepended in call order, so the last value pushed
		// ends up at the head.
		for i := len(c.Values) - 1; i >= 0; i-- {
			elems = append(elems, c.Values[i])
		}
		elems = append(elems, old...)
	} else {
		elems = append(elems, old...)
		elems = append(elems, c.Values...)
	}
	s.storeList(c.Key, elems)
	s.updateKeyGauge()

	// One push event wakes at most one parked waiter.
	s.wakeOne(c.Key)

	return resp.Integer(int64(len(elems)))
}

func (s *Store) listRange(c command.ListRange) resp.Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	elems := s.list(c.Key)
	n := int64(len(elems))

	start, stop := c.Start, c.Stop
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop += n
		if stop < 0 {
			stop = 0
		}
	}
	if start >= n || start > stop {
		return resp.Array()
	}
	if stop >= n {
		stop = n - 1
	}

	out := make([]resp.Value, stop-start+1)
	copy(out, elems[start:stop+1])
	return resp.Array(out...)
}

func (s *Store) listLen(key string) resp.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return resp.Integer(int64(len(s.list(key))))
}

func (s *Store) pop(c command.ListPop) resp.Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := c.Count
	if !c.HasCount {
		count = 1
	}
	if count == 0 {
		return resp.Array()
	}

	elems := s.list(c.Key)
	if len(elems) == 0 {
		// An empty (but present) list is removed; a missing key stays
		// missing. Either way the response is the empty array.
		if e, ok := s.entries[c.Key]; ok && e.val.Kind() == resp.KindArray {
			delete(s.entries, c.Key)
			s.updateKeyGauge()
		}
		return resp.Array()
	}

	take := count
	if take > int64(len(elems)) {
		take = int64(len(elems))
	}

	popped := make([]resp.Value, 0, take)
	var rest []resp.Value
	if c.Dir == command.Left {
		popped = append(popped, elems[:take]...)
		rest = elems[take:]
	} else {
		for i := int64(len(elems)) - 1; i >= int64(len(elems))-take; i-- {
			popped = append(popped, elems[i])
		}
		rest = elems[:int64(len(elems))-take]
	}

	if len(rest) == 0 {
		delete(s.entries, c.Key)
	} else {
		remainder := make([]resp.Value, len(rest))
		copy(remainder, rest)
		s.storeList(c.Key, remainder)
	}
	s.updateKeyGauge()

	// A pop of one returns the bare element; larger counts wrap the popped
	// elements in an array.
	if count == 1 {
		return popped[0]
	}
	return resp.Array(popped...)
}

// blockingPop implements BLPOP/BRPOP. The caller registers as a waiter
// under the lock, parks outside it, and re-checks the list after waking:
// a wake is a hint, not a guarantee that an element is still there.
func (s *Store) blockingPop(ctx context.Context, c command.ListPop) resp.Value {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return resp.NullBulkString()
	}
	if v, ok := s.takeOne(c.Key, c.Dir); ok {
		s.mu.Unlock()
		return resp.Array(resp.BulkStringText(c.Key), v)
	}

	ch := make(chan struct{}, 1)
	wg, ok := s.waiters[c.Key]
	if !ok {
		wg = &waitGroup{}
		s.waiters[c.Key] = wg
	}
	wg.pending++
	wg.queue = append(wg.queue, ch)
	if s.metrics != nil {
		s.metrics.BlockedWaiters.Inc()
	}
	s.mu.Unlock()

	var timeout <-chan time.Time
	if c.Timeout > 0 {
		timer := time.NewTimer(c.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-ch:
		// Woken by a push (or Close); the waker already deregistered us.
	case <-timeout:
		s.deregister(c.Key, ch)
	case <-ctx.Done():
		s.deregister(c.Key, ch)
	}
	if s.metrics != nil {
		s.metrics.BlockedWaiters.Dec()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.takeOne(c.Key, c.Dir); ok {
		return resp.Array(resp.BulkStringText(c.Key), v)
	}
	return resp.NullBulkString()
}

// takeOne pops a single element in the given direction. Callers hold s.mu.
func (s *Store) takeOne(key string, dir command.Direction) (resp.Value, bool) {
	elems := s.list(key)
	if len(elems) == 0 {
		return resp.Value{}, false
	}

	var v resp.Value
	var rest []resp.Value
	if dir == command.Left {
		v, rest = elems[0], elems[1:]
	} else {
		v, rest = elems[len(elems)-1], elems[:len(elems)-1]
	}

	if len(rest) == 0 {
		delete(s.entries, key)
	} else {
		remainder := make([]resp.Value, len(rest))
		copy(remainder, rest)
		s.storeList(key, remainder)
	}
	s.updateKeyGauge()
	return v, true
}

// wakeOne signals the longest-parked waiter on key, if any, and removes its
// registration. Groups drained to zero are pruned immediately so the map
// does not accumulate garbage. Callers hold s.mu.
func (s *Store) wakeOne(key string) {
	wg, ok := s.waiters[key]
	if !ok || len(wg.queue) == 0 {
		return
	}
	ch := wg.queue[0]
	wg.queue = wg.queue[1:]
	wg.pending--
	if wg.pending == 0 {
		delete(s.waiters, key)
	}
	// The channel is buffered, so the signal never blocks even if the
	// waiter is still between releasing the lock and parking.
	ch <- struct{}{}
}

// deregister removes a waiter's own registration after a timeout or
// cancellation. If a push already claimed the registration the call is a
// no-op, so counts never go negative.
func (s *Store) deregister(key string, ch chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wg, ok := s.waiters[key]
	if !ok {
		return
	}
	for i, c := range wg.queue {
		if c == ch {
			wg.queue = append(wg.queue[:i], wg.queue[i+1:]...)
			wg.pending--
			break
		}
	}
	if wg.pending == 0 {
		delete(s.waiters, key)
	}
}
