package metric

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistry_RegistersAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.ConnectionsTotal.Inc()
	r.CommandsTotal.WithLabelValues("GET").Inc()
	r.KeysActive.Set(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"strand_server_connections_total",
		"strand_server_commands_total",
		"strand_store_keys_active",
	} {
		if !names[want] {
			t.Errorf("metric %q not gathered", want)
		}
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry(nil)
	r.ConnectionsActive.Set(1)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "strand_server_connections_active 1") {
		t.Errorf("body missing gauge sample:\n%s", rec.Body.String())
	}
}

func TestNewRegistry_NilRegistryIsIsolated(t *testing.T) {
	// Two registries created with nil must not collide on registration.
	a := NewRegistry(nil)
	b := NewRegistry(nil)
	a.ConnectionsTotal.Inc()
	b.ConnectionsTotal.Inc()
}
