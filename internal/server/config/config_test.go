// Package config defines the server configuration structure.
package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Check server defaults
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, DefaultReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want %v", cfg.Server.WriteTimeout, DefaultWriteTimeout)
	}
	if cfg.Server.RateLimit.Enabled {
		t.Error("Rate limiting should be disabled by default")
	}

	// Check metrics defaults
	if cfg.Metrics.Enabled {
		t.Error("Metrics should be disabled by default")
	}
	if cfg.Metrics.Addr != DefaultMetricsAddr {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, DefaultMetricsAddr)
	}

	// Check log defaults
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(cfg *ServerConfig) {},
			wantErr: false,
		},
		{
			name: "empty addr",
			mutate: func(cfg *ServerConfig) {
				cfg.Server.Addr = ""
			},
			wantErr: true,
		},
		{
			name: "addr without port",
			mutate: func(cfg *ServerConfig) {
				cfg.Server.Addr = "localhost"
			},
			wantErr: true,
		},
		{
			name: "negative read timeout",
			mutate: func(cfg *ServerConfig) {
				cfg.Server.ReadTimeout = -time.Second
			},
			wantErr: true,
		},
		{
			name: "negative max conns",
			mutate: func(cfg *ServerConfig) {
				cfg.Server.MaxConns = -1
			},
			wantErr: true,
		},
		{
			name: "rate limit enabled with zero rps",
			mutate: func(cfg *ServerConfig) {
				cfg.Server.RateLimit.Enabled = true
				cfg.Server.RateLimit.RPS = 0
			},
			wantErr: true,
		},
		{
			name: "rate limit enabled with zero burst",
			mutate: func(cfg *ServerConfig) {
				cfg.Server.RateLimit.Enabled = true
				cfg.Server.RateLimit.Burst = 0
			},
			wantErr: true,
		},
		{
			name: "rate limit disabled skips limit checks",
			mutate: func(cfg *ServerConfig) {
				cfg.Server.RateLimit.Enabled = false
				cfg.Server.RateLimit.RPS = 0
				cfg.Server.RateLimit.Burst = 0
			},
			wantErr: false,
		},
		{
			name: "metrics enabled with bad addr",
			mutate: func(cfg *ServerConfig) {
				cfg.Metrics.Enabled = true
				cfg.Metrics.Addr = "not-an-addr"
			},
			wantErr: true,
		},
		{
			name: "metrics disabled skips addr check",
			mutate: func(cfg *ServerConfig) {
				cfg.Metrics.Enabled = false
				cfg.Metrics.Addr = "not-an-addr"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Verify(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
