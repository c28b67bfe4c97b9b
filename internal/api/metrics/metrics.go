// Package metrics defines and registers the custom Prometheus metrics of the
// console gateway. It is the single source of truth for metric names, labels
// and help strings; metrics are registered with the default registry on init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console_gateway"

// ── Dispatch metrics ──────────────────────────────────────────────────────────

// DispatchTotal counts finished dispatch operations.
// Labels:
//   - operation: e.g. "createClient", "login"
//   - source: "remote" or "simulated"
//   - result: "ok" or "error"
var DispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_total",
		Help:      "Total number of console operations, by serving backend and result.",
	},
	[]string{"operation", "source", "result"},
)

// FallbacksTotal counts real-backend failures absorbed by falling back to the
// simulated backend.
var FallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallbacks_total",
		Help:      "Total number of operations that fell back to simulated data after a remote failure.",
	},
	[]string{"operation"},
)

// DispatchDuration measures end-to-end operation latency including fallback.
var DispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Duration of console operations, including any fallback.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "source"},
)

// ── Health metrics ────────────────────────────────────────────────────────────

// HealthProbesTotal counts health probes against the real backend.
// Label:
//   - result: "success" or "failure"
var HealthProbesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "health_probes_total",
		Help:      "Total number of real-backend health probes, by result.",
	},
	[]string{"result"},
)

// BackendOnline is 1 while the real backend is presumed reachable.
var BackendOnline = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backend_online",
		Help:      "1 when the real backend is presumed online, 0 when simulated data is served.",
	},
)

// ── Simulated backend metrics ─────────────────────────────────────────────────

// SimulatedFaultsTotal counts injected transient failures.
var SimulatedFaultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulated_faults_total",
		Help:      "Total number of injected simulated failures, by operation.",
	},
	[]string{"operation"},
)
