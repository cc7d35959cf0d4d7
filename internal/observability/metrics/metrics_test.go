package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSchedulingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)
	m.ObserveReply("options")
	m.ObserveCommit("confirmed")
	m.ObserveFAQMatch("matched")
	m.ObserveAvailabilityQuery("chat", 0.02)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(families))
	}
}

func TestSchedulingMetricsNilSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveReply("ask")
	m.ObserveCommit("conflict")
	m.ObserveFAQMatch("fallback")
	m.ObserveAvailabilityQuery("http", 0.01)
}
