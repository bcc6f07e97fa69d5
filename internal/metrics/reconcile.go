// Package metrics exposes Prometheus metrics for the reconciler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ReconcileMetrics tracks the outcome of reconciliation passes.
type ReconcileMetrics struct {
	// DropCandidates counts candidates identified per domain.
	DropCandidates *prometheus.CounterVec

	// Deleted counts artifacts actually removed per domain.
	Deleted *prometheus.CounterVec

	// DeleteFailures counts per-item deletion failures per domain.
	DeleteFailures *prometheus.CounterVec

	// DeleteTimeouts counts deletions abandoned on deadline per domain.
	DeleteTimeouts *prometheus.CounterVec

	// Runs counts completed runs by mode.
	Runs *prometheus.CounterVec

	// DegradedRuns counts runs where at least one pass gave up on part
	// of its work.
	DegradedRuns prometheus.Counter

	// RunDuration observes end-to-end run duration in seconds.
	RunDuration prometheus.Histogram
}

// NewReconcileMetrics creates and registers reconciler metrics.
// Uses promauto for automatic registration with the default registry.
func NewReconcileMetrics() *ReconcileMetrics {
	return newReconcileMetrics(promauto.With(prometheus.DefaultRegisterer))
}

// NewReconcileMetricsWithRegistry creates reconciler metrics registered
// with a custom registry. Useful for testing to avoid conflicts with the
// default registry.
func NewReconcileMetricsWithRegistry(reg prometheus.Registerer) *ReconcileMetrics {
	return newReconcileMetrics(promauto.With(reg))
}

func newReconcileMetrics(factory promauto.Factory) *ReconcileMetrics {
	return &ReconcileMetrics{
		DropCandidates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "strata",
				Subsystem: "gc",
				Name:      "drop_candidates_total",
				Help:      "Number of drop candidates identified, by storage domain.",
			},
			[]string{"domain"},
		),
		Deleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "strata",
				Subsystem: "gc",
				Name:      "deleted_total",
				Help:      "Number of artifacts deleted, by storage domain.",
			},
			[]string{"domain"},
		),
		DeleteFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "strata",
				Subsystem: "gc",
				Name:      "delete_failures_total",
				Help:      "Number of per-item deletion failures, by storage domain.",
			},
			[]string{"domain"},
		),
		DeleteTimeouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "strata",
				Subsystem: "gc",
				Name:      "delete_timeouts_total",
				Help:      "Number of deletions abandoned on deadline, by storage domain.",
			},
			[]string{"domain"},
		),
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "strata",
				Subsystem: "gc",
				Name:      "runs_total",
				Help:      "Number of completed reconciliation runs, by mode.",
			},
			[]string{"mode"},
		),
		DegradedRuns: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "strata",
				Subsystem: "gc",
				Name:      "degraded_runs_total",
				Help:      "Number of runs where a pass gave up on part of its work.",
			},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "strata",
				Subsystem: "gc",
				Name:      "run_duration_seconds",
				Help:      "End-to-end reconciliation run duration.",
				Buckets:   prometheus.ExponentialBuckets(0.1, 3, 10),
			},
		),
	}
}

// RecordPass records the outcome of one domain pass.
func (m *ReconcileMetrics) RecordPass(domain string, candidates, deleted, failed, timedOut int) {
	m.DropCandidates.WithLabelValues(domain).Add(float64(candidates))
	m.Deleted.WithLabelValues(domain).Add(float64(deleted))
	m.DeleteFailures.WithLabelValues(domain).Add(float64(failed))
	m.DeleteTimeouts.WithLabelValues(domain).Add(float64(timedOut))
}

// ObserveRun records a completed run.
func (m *ReconcileMetrics) ObserveRun(mode string, elapsed time.Duration, degraded bool) {
	m.Runs.WithLabelValues(mode).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
	if degraded {
		m.DegradedRuns.Inc()
	}
}
