package cmap

import (
	"strconv"
	"sync"
	"testing"
)

func TestMap_BasicOps(t *testing.T) {
	m := New[int]()

	m.Set("a", 1)
	m.Set("b", 2)

	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = (%d, %v), want (1, true)", v, ok)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
	if !m.Has("b") {
		t.Error("Has(b) = false, want true")
	}

	if v, ok := m.Pop("a"); !ok || v != 1 {
		t.Errorf("Pop(a) = (%d, %v), want (1, true)", v, ok)
	}
	if m.Has("a") {
		t.Error("a should be gone after Pop")
	}

	m.Delete("b")
	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}
}

func TestMap_Range(t *testing.T) {
	m := New[int]()
	for i := 0; i < 100; i++ {
		m.Set(strconv.Itoa(i), i)
	}

	seen := 0
	m.Range(func(_ string, _ int) bool {
		seen++
		return true
	})
	if seen != 100 {
		t.Errorf("Range visited %d items, want 100", seen)
	}

	seen = 0
	m.Range(func(_ string, _ int) bool {
		seen++
		return seen < 10
	})
	if seen != 10 {
		t.Errorf("early-stopped Range visited %d items, want 10", seen)
	}
}

func TestMap_InvalidShardCountFallsBack(t *testing.T) {
	for _, n := range []int{0, -1, 3, 17} {
		m := NewWithShards[string](n)
		if len(m.shards) != DefaultShardCount {
			t.Errorf("NewWithShards(%d) created %d shards, want %d", n, len(m.shards), DefaultShardCount)
		}
	}
}

func TestMap_ConcurrentAccess(t *testing.T) {
	m := New[int]()
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := strconv.Itoa(g*500 + i)
				m.Set(key, i)
				m.Get(key)
				if i%3 == 0 {
					m.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	// Every goroutine deleted a third of its keys.
	want := 8 * (500 - 167)
	if got := m.Count(); got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
}
