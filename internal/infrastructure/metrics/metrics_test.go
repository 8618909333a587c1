package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Swap the default registry so a fresh instance can be inspected.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.SettlementsCommitted == nil || m.RoomsCreated == nil || m.AuthAttempts == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.SettlementsCommitted.Inc()
	m.SettlementPot.Observe(200)
	m.AuthAttempts.WithLabelValues("success").Inc()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metrics, got none")
	}

	for _, f := range families {
		if !strings.HasPrefix(f.GetName(), "dpa_") {
			t.Fatalf("metric %q is missing the dpa_ prefix", f.GetName())
		}
	}
}
