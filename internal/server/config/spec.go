// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for strand-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the wire-protocol listener.
type ServerSection struct {
	// Addr is the TCP bind address (e.g., "0.0.0.0:6379").
	Addr string `koanf:"addr"`

	// ReadTimeout bounds how long a connection may sit idle mid-request
	// before the read is abandoned.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds a single response write.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// MaxConns caps concurrently served connections. Zero means no cap.
	MaxConns int `koanf:"max_conns"`

	// RateLimit throttles requests per client IP.
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig configures per-IP request throttling.
type RateLimitConfig struct {
	Enabled bool `koanf:"enabled"`

	// RPS is the sustained request rate allowed per client IP.
	RPS float64 `koanf:"rps"`

	// Burst is the instantaneous burst allowance.
	Burst int `koanf:"burst"`
}

// MetricsSection configures the Prometheus metrics endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
