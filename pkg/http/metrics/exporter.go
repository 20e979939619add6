// Package metrics exposes load service counters in the Prometheus text format.
package metrics

import (
	"math"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cpuload"

// Exporter tracks request, worker, and host metrics and serves them over HTTP.
// It owns a private registry so several exporters can coexist in tests.
type Exporter struct {
	registry *prometheus.Registry
	handler  http.Handler

	requests      *prometheus.CounterVec
	activeByState *prometheus.GaugeVec
	workers       prometheus.Gauge
	updates       prometheus.Counter
	hostCPU       prometheus.Gauge
	requestedSecs prometheus.Histogram
}

// NewExporter constructs an Exporter with zeroed metrics.
func NewExporter() *Exporter {
	exporter := &Exporter{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "SetLoad calls by outcome.",
		}, []string{"result"}),
		activeByState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_active",
			Help:      "In-flight SetLoad calls by lifecycle state.",
		}, []string{"state"}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "burn_workers_active",
			Help:      "Burn workers currently occupying a core.",
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "progress_updates_total",
			Help:      "Progress updates delivered to callers.",
		}),
		hostCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_cpu_utilisation_ratio",
			Help:      "Last host CPU utilisation sampled during a burn.",
		}),
		requestedSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "requested_duration_seconds",
			Help:      "Normalised burn durations requested by callers.",
			Buckets:   []float64{1, 5, 10, 30, 60, 300, 900, 3600},
		}),
	}

	exporter.registry.MustRegister(
		exporter.requests,
		exporter.activeByState,
		exporter.workers,
		exporter.updates,
		exporter.hostCPU,
		exporter.requestedSecs,
	)

	exporter.handler = promhttp.HandlerFor(exporter.registry, promhttp.HandlerOpts{})

	return exporter
}

// Registry returns the registry backing the exporter.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// ObserveRequest counts a finished call under its outcome label.
func (e *Exporter) ObserveRequest(result string) {
	e.requests.WithLabelValues(label(result)).Inc()
}

// ObserveRequestedDuration records the normalised duration of a call.
func (e *Exporter) ObserveRequestedDuration(seconds float64) {
	e.requestedSecs.Observe(seconds)
}

// TransitionState moves one in-flight call between lifecycle states. An empty
// state is ignored, so entry and exit are single-sided transitions.
func (e *Exporter) TransitionState(from, to string) {
	if from = strings.TrimSpace(from); from != "" {
		e.activeByState.WithLabelValues(from).Dec()
	}

	if to = strings.TrimSpace(to); to != "" {
		e.activeByState.WithLabelValues(to).Inc()
	}
}

// AddWorkers adjusts the number of burning workers by delta.
func (e *Exporter) AddWorkers(delta int) {
	e.workers.Add(float64(delta))
}

// ObserveProgress counts one delivered progress update.
func (e *Exporter) ObserveProgress() {
	e.updates.Inc()
}

// ObserveHostCPU records the latest host utilisation ratio.
func (e *Exporter) ObserveHostCPU(utilisation float64) {
	if math.IsNaN(utilisation) || math.IsInf(utilisation, 0) {
		utilisation = 0
	}

	e.hostCPU.Set(math.Max(0, math.Min(1, utilisation)))
}

// ServeHTTP implements http.Handler for the metrics exporter.
func (e *Exporter) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	e.handler.ServeHTTP(writer, request)
}

func label(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}

	return trimmed
}
