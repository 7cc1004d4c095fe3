// Package metric provides Prometheus metrics for strand.
//
// It exposes counters and gauges for connection churn, per-command
// throughput and latency, key population, and blocking-pop pressure.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	// Connection metrics
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	ProtocolErrors  prometheus.Counter

	// Store metrics
	KeysActive     prometheus.Gauge
	KeysExpired    prometheus.Counter
	BlockedWaiters prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewRegistry creates the application metrics and registers them with reg.
// Passing nil registers with a fresh registry, which keeps tests isolated.
func NewRegistry(reg *prometheus.Registry) *Registry {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &Registry{
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "strand",
			Subsystem: "server",
			Name:      "connections_active",
			Help:      "Number of currently open client connections",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strand",
			Subsystem: "server",
			Name:      "connections_total",
			Help:      "Total number of accepted client connections",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strand",
			Subsystem: "server",
			Name:      "commands_total",
			Help:      "Total number of executed commands",
		}, []string{"command"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "strand",
			Subsystem: "server",
			Name:      "command_duration_seconds",
			Help:      "Command execution latency (includes blocking time)",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 12),
		}, []string{"command"}),
		ProtocolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strand",
			Subsystem: "server",
			Name:      "protocol_errors_total",
			Help:      "Total number of connections dropped for protocol errors",
		}),
		KeysActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "strand",
			Subsystem: "store",
			Name:      "keys_active",
			Help:      "Number of keys currently in the store",
		}),
		KeysExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strand",
			Subsystem: "store",
			Name:      "keys_expired_total",
			Help:      "Total number of keys removed by expiration timers",
		}),
		BlockedWaiters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "strand",
			Subsystem: "store",
			Name:      "blocked_waiters",
			Help:      "Number of clients currently parked in a blocking pop",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.CommandsTotal,
		r.CommandDuration,
		r.ProtocolErrors,
		r.KeysActive,
		r.KeysExpired,
		r.BlockedWaiters,
	)

	return r
}

// Handler returns an HTTP handler serving the registry in Prometheus text
// format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
