// Package metrics exposes the engine's Prometheus instrumentation: counts
// of collapses, restarts, and propagations, and a gauge for current queue
// depth, so a host process can scrape generation activity.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder is the narrow interface the engine depends on, so tests and
// callers that don't want Prometheus wiring can pass NopRecorder().
type Recorder interface {
	CollapseTotal()
	RestartTotal()
	PropagationsObserved(n int)
	QueueDepth(n int)
}

const namespace = "wfcgen"

// PrometheusMetrics is the default Recorder, registered against a caller-
// supplied *prometheus.Registry (typically one shared with the host's
// other collectors).
type PrometheusMetrics struct {
	collapses    prometheus.Counter
	restarts     prometheus.Counter
	propagations prometheus.Counter
	queueDepth   prometheus.Gauge
}

// New builds and registers a PrometheusMetrics against reg.
func New(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		collapses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collapses_total",
			Help:      "Total number of cell collapses performed.",
		}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restarts_total",
			Help:      "Total number of contradiction-triggered restarts.",
		}),
		propagations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "propagations_total",
			Help:      "Total number of cells drained by the propagator.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Current length of the propagation work queue.",
		}),
	}
	reg.MustRegister(m.collapses, m.restarts, m.propagations, m.queueDepth)
	return m
}

func (m *PrometheusMetrics) CollapseTotal()             { m.collapses.Inc() }
func (m *PrometheusMetrics) RestartTotal()              { m.restarts.Inc() }
func (m *PrometheusMetrics) PropagationsObserved(n int) { m.propagations.Add(float64(n)) }
func (m *PrometheusMetrics) QueueDepth(n int)           { m.queueDepth.Set(float64(n)) }

type nopRecorder struct{}

// NopRecorder returns a Recorder that discards everything, for tests and
// callers that don't want Prometheus wired up.
func NopRecorder() Recorder { return nopRecorder{} }

func (nopRecorder) CollapseTotal()          {}
func (nopRecorder) RestartTotal()           {}
func (nopRecorder) PropagationsObserved(int) {}
func (nopRecorder) QueueDepth(int)          {}
