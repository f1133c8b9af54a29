package graph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus metrics for graph execution.
//
// Metrics exposed (all namespaced with "stategraph_"):
//
//   - runs_total (counter): completed runs by status (success, error, canceled).
//   - active_runs (gauge): runs currently executing.
//   - steps_total (counter): node executions by node_id and status.
//   - step_latency_ms (histogram): node execution duration in milliseconds,
//     by node_id and status. Buckets span 1ms to 10s.
//
// All methods are safe for concurrent use and are no-ops on a nil receiver,
// so call sites never need to guard.
type Metrics struct {
	runsTotal   *prometheus.CounterVec
	activeRuns  prometheus.Gauge
	stepsTotal  *prometheus.CounterVec
	stepLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers all graph execution metrics with the
// provided registry. Pass prometheus.DefaultRegisterer for the global
// registry, or a private prometheus.NewRegistry() for isolation.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stategraph",
			Name:      "runs_total",
			Help:      "Completed workflow runs by final status",
		}, []string{"status"}),
		activeRuns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "stategraph",
			Name:      "active_runs",
			Help:      "Workflow runs currently executing",
		}),
		stepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stategraph",
			Name:      "steps_total",
			Help:      "Node executions by node and status",
		}, []string{"node_id", "status"}),
		stepLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stategraph",
			Name:      "step_latency_ms",
			Help:      "Node execution duration in milliseconds",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"node_id", "status"}),
	}
}

// RunStarted records the beginning of a run.
func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.activeRuns.Inc()
}

// RunFinished records the end of a run with its final status.
func (m *Metrics) RunFinished(status string) {
	if m == nil {
		return
	}
	m.activeRuns.Dec()
	m.runsTotal.WithLabelValues(status).Inc()
}

// RecordStep records one node execution with its duration and status.
func (m *Metrics) RecordStep(nodeID string, latency time.Duration, status string) {
	if m == nil {
		return
	}
	m.stepsTotal.WithLabelValues(nodeID, status).Inc()
	m.stepLatency.WithLabelValues(nodeID, status).Observe(float64(latency.Milliseconds()))
}
