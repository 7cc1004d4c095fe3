// Package server provides the TCP wire-protocol server for Strand.
package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/strandkv/strand/internal/store"
	"github.com/strandkv/strand/internal/telemetry/logger"
	"github.com/strandkv/strand/internal/telemetry/metric"
)

// Config holds the wire server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// ReadTimeout is how long a connection may stay idle between requests
	// before it is closed (default: 5m). Connections parked in a blocking
	// pop are exempt while parked.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing a response (default: 30s).
	WriteTimeout time.Duration
	// MaxConns caps concurrently served connections. Zero means no cap.
	MaxConns int
	// RateRPS and RateBurst throttle requests per client IP when
	// RateEnabled is true.
	RateEnabled bool
	RateRPS     float64
	RateBurst   int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "0.0.0.0:6379",
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 30 * time.Second,
	}
}

// Server accepts wire-protocol connections and serves each on its own
// goroutine against a shared store.
type Server struct {
	cfg     *Config
	store   *store.Store
	logger  logger.Logger
	metrics *metric.Registry

	ln       net.Listener
	limiters *ipLimiters
	connSem  chan struct{}
	running  atomic.Bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics attaches a metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new wire server over the given store.
func New(cfg *Config, st *store.Store, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.RateEnabled && cfg.RateRPS > 0 {
		s.limiters = newIPLimiters(cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.MaxConns > 0 {
		s.connSem = make(chan struct{}, cfg.MaxConns)
	}
	return s
}

// Start binds the listener and begins accepting connections. It returns
// once the listener is bound; accepting happens on a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.running.Store(true)

	// Connections outlive the Start call; their context must be cancelled
	// by Shutdown so parked blocking pops unwind.
	connCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.logger.Info("server listening", "addr", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(connCtx, ln)
	}()
	return nil
}

// Addr returns the bound listen address, useful when Addr was ":0".
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops accepting, unparks blocked clients, and waits for
// in-flight connections to unwind, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	if s.ln != nil {
		if err := s.ln.Close(); err != nil {
			firstErr = err
		}
	}
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			s.logger.Error("accept failed", "error", err)
			return
		}

		if s.connSem != nil {
			select {
			case s.connSem <- struct{}{}:
			default:
				// At capacity. Refusing immediately beats queueing: the
				// client gets a fast failure instead of a silent stall.
				s.logger.Warn("connection limit reached", "remote", c.RemoteAddr().String())
				_ = c.Close()
				continue
			}
		}

		if s.metrics != nil {
			s.metrics.ConnectionsTotal.Inc()
			s.metrics.ConnectionsActive.Inc()
		}

		connID := ulid.Make().String()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				if s.connSem != nil {
					<-s.connSem
				}
				if s.metrics != nil {
					s.metrics.ConnectionsActive.Dec()
				}
			}()
			s.serveConn(logger.WithConnID(ctx, connID), c)
		}()
	}
}
