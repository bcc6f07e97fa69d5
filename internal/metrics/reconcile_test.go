package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

func TestNewReconcileMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReconcileMetricsWithRegistry(reg)

	if m == nil {
		t.Fatal("expected non-nil ReconcileMetrics")
	}

	// CounterVecs only show up in Gather once a label value exists.
	m.RecordPass("columnar", 0, 0, 0, 0)
	m.ObserveRun("report", time.Second, false)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	expectedMetrics := map[string]bool{
		"strata_gc_drop_candidates_total": false,
		"strata_gc_deleted_total":         false,
		"strata_gc_delete_failures_total": false,
		"strata_gc_delete_timeouts_total": false,
		"strata_gc_runs_total":            false,
		"strata_gc_run_duration_seconds":  false,
	}

	for _, family := range families {
		name := family.GetName()
		if _, ok := expectedMetrics[name]; ok {
			expectedMetrics[name] = true
		}
	}

	for name, found := range expectedMetrics {
		if !found {
			t.Errorf("expected metric %s to be registered", name)
		}
	}
}

func TestReconcileMetrics_RecordPass(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReconcileMetricsWithRegistry(reg)

	m.RecordPass("columnar", 5, 3, 1, 1)
	m.RecordPass("columnar", 2, 2, 0, 0)
	m.RecordPass("staging", 1, 1, 0, 0)

	if got := getCounterValue(t, reg, "strata_gc_drop_candidates_total", "domain", "columnar"); got != 7 {
		t.Errorf("columnar drop candidates = %v, want 7", got)
	}
	if got := getCounterValue(t, reg, "strata_gc_deleted_total", "domain", "columnar"); got != 5 {
		t.Errorf("columnar deleted = %v, want 5", got)
	}
	if got := getCounterValue(t, reg, "strata_gc_delete_failures_total", "domain", "columnar"); got != 1 {
		t.Errorf("columnar failures = %v, want 1", got)
	}
	if got := getCounterValue(t, reg, "strata_gc_delete_timeouts_total", "domain", "columnar"); got != 1 {
		t.Errorf("columnar timeouts = %v, want 1", got)
	}
	if got := getCounterValue(t, reg, "strata_gc_deleted_total", "domain", "staging"); got != 1 {
		t.Errorf("staging deleted = %v, want 1", got)
	}
}

func TestReconcileMetrics_ObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReconcileMetricsWithRegistry(reg)

	m.ObserveRun("delete", 2*time.Second, true)
	m.ObserveRun("delete", time.Second, false)
	m.ObserveRun("report", time.Second, false)

	if got := getCounterValue(t, reg, "strata_gc_runs_total", "mode", "delete"); got != 2 {
		t.Errorf("delete runs = %v, want 2", got)
	}
	if got := getCounterValue(t, reg, "strata_gc_runs_total", "mode", "report"); got != 1 {
		t.Errorf("report runs = %v, want 1", got)
	}
	if got := getCounterValue(t, reg, "strata_gc_degraded_runs_total"); got != 1 {
		t.Errorf("degraded runs = %v, want 1", got)
	}
}

// getCounterValue reads a counter from the registry, optionally matching
// one label pair given as (name, value).
func getCounterValue(t *testing.T, reg *prometheus.Registry, name string, labelPair ...string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if len(labelPair) == 2 && !hasLabel(metric, labelPair[0], labelPair[1]) {
				continue
			}
			return metric.GetCounter().GetValue()
		}
	}

	t.Fatalf("metric %s%v not found", name, labelPair)
	return 0
}

func hasLabel(metric *io_prometheus_client.Metric, name, value string) bool {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
