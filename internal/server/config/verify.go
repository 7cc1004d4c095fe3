// Package config defines the server configuration structure.
package config

import (
	"errors"
	"net"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			return errors.New("metrics.addr is not a valid host:port: " + err.Error())
		}
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Addr == "" {
		return errors.New("server.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return errors.New("server.addr is not a valid host:port: " + err.Error())
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if cfg.MaxConns < 0 {
		return errors.New("server.max_conns must not be negative")
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RPS <= 0 {
			return errors.New("server.rate_limit.rps must be positive")
		}
		if cfg.RateLimit.Burst < 1 {
			return errors.New("server.rate_limit.burst must be at least 1")
		}
	}
	return nil
}
