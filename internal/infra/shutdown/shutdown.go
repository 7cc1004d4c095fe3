package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Handler runs registered teardown hooks when the process receives SIGINT
// or SIGTERM. strand-server registers its store, listener, and metrics
// endpoint so in-flight blocking pops are woken before the listener closes.
type Handler struct {
	timeout time.Duration
	mu      sync.Mutex
	hooks   []func(context.Context) error
	done    chan struct{}
}

// NewHandler creates a Handler. timeout bounds the whole hook sequence.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a hook. Hooks run in reverse registration order, so
// registering in startup order tears down dependents before dependencies.
func (h *Handler) OnShutdown(hook func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Wait blocks until SIGINT or SIGTERM, then runs every hook under a shared
// deadline. All hooks run even when one fails; the last error wins.
func (h *Handler) Wait() error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]func(context.Context) error, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var lastErr error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			lastErr = err
		}
	}

	close(h.done)
	return lastErr
}

// Done is closed after all hooks have finished.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
