package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(10 * time.Second)
	if h == nil {
		t.Fatal("NewHandler returned nil")
	}
	if h.timeout != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", h.timeout)
	}
	if h.done == nil {
		t.Error("done channel not initialized")
	}
}

func TestHandler_OnShutdown(t *testing.T) {
	h := NewHandler(time.Second)

	h.OnShutdown(func(context.Context) error { return nil })
	h.OnShutdown(func(context.Context) error { return nil })

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != 2 {
		t.Errorf("hooks = %d, want 2", len(h.hooks))
	}
}

func TestHandler_Done_OpenUntilWait(t *testing.T) {
	h := NewHandler(time.Second)

	select {
	case <-h.Done():
		t.Error("Done closed before Wait ran")
	default:
	}
}

func TestHandler_Wait_ReverseOrder(t *testing.T) {
	h := NewHandler(5 * time.Second)

	var mu sync.Mutex
	var order []string

	// Registered in startup order: store first, listener last. Teardown
	// must run listener → metrics → store.
	for _, name := range []string{"store", "metrics", "listener"} {
		name := name
		h.OnShutdown(func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	time.Sleep(50 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGINT)

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not return after signal")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"listener", "metrics", "store"}
	if len(order) != len(want) {
		t.Fatalf("hooks ran = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("hooks ran = %v, want %v", order, want)
		}
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done not closed after Wait")
	}
}

func TestHandler_Wait_HookErrorDoesNotStopChain(t *testing.T) {
	h := NewHandler(5 * time.Second)

	failErr := errors.New("listener close failed")
	var storeRan bool

	h.OnShutdown(func(context.Context) error {
		storeRan = true
		return nil
	})
	h.OnShutdown(func(context.Context) error {
		return failErr
	})

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	time.Sleep(50 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, failErr) {
			t.Errorf("Wait() error = %v, want %v", err, failErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not return after signal")
	}

	if !storeRan {
		t.Error("hook after the failing one did not run")
	}
}

func TestHandler_ConcurrentRegistration(t *testing.T) {
	h := NewHandler(time.Second)

	var wg sync.WaitGroup
	const n = 16
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != n {
		t.Errorf("hooks = %d, want %d", len(h.hooks), n)
	}
}
