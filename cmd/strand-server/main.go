// Package main provides the entry point for strand-server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/strandkv/strand/internal/infra/buildinfo"
	"github.com/strandkv/strand/internal/infra/confloader"
	"github.com/strandkv/strand/internal/infra/shutdown"
	"github.com/strandkv/strand/internal/server"
	"github.com/strandkv/strand/internal/server/config"
	"github.com/strandkv/strand/internal/store"
	"github.com/strandkv/strand/internal/telemetry/logger"
	"github.com/strandkv/strand/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("strand-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting strand-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	var metrics *metric.Registry
	if cfg.Metrics.Enabled {
		metrics = metric.NewRegistry(prometheus.NewRegistry())
	}

	st := store.New(
		store.WithLogger(logger.Slog(log)),
		store.WithMetrics(metrics),
	)

	srv := server.New(serverConfig(cfg), st,
		server.WithLogger(log),
		server.WithMetrics(metrics),
	)
	if err := srv.Start(context.Background()); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = startMetricsServer(cfg.Metrics.Addr, metrics, log)
	}

	// Reload the log level when the config file changes.
	var watcher *confloader.Watcher
	if *configFile != "" {
		watcher, err = watchConfig(*configFile, log)
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		}
	}

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Hooks run in reverse order of registration.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down store")
		return st.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down server")
		return srv.Shutdown(ctx)
	})
	if metricsServer != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down metrics endpoint")
			return metricsServer.Shutdown(ctx)
		})
	}
	if watcher != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			return watcher.Stop()
		})
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and sets it as the default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// serverConfig maps the loaded configuration onto the wire server's config.
func serverConfig(cfg *config.ServerConfig) *server.Config {
	return &server.Config{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxConns:     cfg.Server.MaxConns,
		RateEnabled:  cfg.Server.RateLimit.Enabled,
		RateRPS:      cfg.Server.RateLimit.RPS,
		RateBurst:    cfg.Server.RateLimit.Burst,
	}
}

// startMetricsServer serves /metrics and /healthz on a side listener.
func startMetricsServer(addr string, metrics *metric.Registry, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics endpoint error", "error", err)
		}
	}()
	return srv
}

// watchConfig re-reads the config file on change and applies the log level.
func watchConfig(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Slog(log)))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(configFile)
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}
