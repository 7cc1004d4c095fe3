// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultAddr        = "0.0.0.0:6379"
	DefaultMetricsAddr = "127.0.0.1:9121"

	DefaultReadTimeout  = 5 * time.Minute
	DefaultWriteTimeout = 30 * time.Second

	DefaultRateRPS   = 5000.0
	DefaultRateBurst = 10000

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr:         DefaultAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			RateLimit: RateLimitConfig{
				Enabled: false,
				RPS:     DefaultRateRPS,
				Burst:   DefaultRateBurst,
			},
		},
		Metrics: MetricsSection{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
