// Package metrics provides Prometheus metrics for the BFHL service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter

	// Dispatch
	operations       *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec

	// Upstream generative service
	upstreamLatency *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// global pairs the package-level manager with the registry it registers on.
type global struct {
	manager  *Manager
	registry *prometheus.Registry
}

var current atomic.Pointer[global] //nolint:gochecknoglobals // singleton

func init() { Init() }

// Init replaces the package-level manager with one built from opts on a
// fresh registry. Call it before GetRegistry is handed to a handler.
func Init(opts ...Option) {
	reg := prometheus.NewRegistry()
	m := NewManager(append([]Option{WithPrometheusRegistry(reg)}, opts...)...)
	current.Store(&global{manager: m, registry: reg})
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bfhl",
		subsystem:        "api",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.rateLimited = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rate_limited_total",
		Help:        "Requests rejected by the inbound rate limiter",
		ConstLabels: m.constLabels,
	})

	m.operations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "operations_total",
		Help:        "Dispatched operations by name and outcome",
		ConstLabels: m.constLabels,
	}, []string{"operation", "outcome"})

	m.operationLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "operation_duration_milliseconds",
		Help:        "Time spent computing an operation in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "upstream",
		Name:        "request_duration_milliseconds",
		Help:        "Generative text service call duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"backend"})

	m.upstreamErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "upstream",
		Name:        "errors_total",
		Help:        "Failed generative text service calls",
		ConstLabels: m.constLabels,
	}, []string{"backend"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
}

// RecordHTTPRequest counts one served request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRateLimited counts one rejected request.
func (m *Manager) RecordRateLimited() {
	if !m.enabled {
		return
	}
	m.rateLimited.Inc()
}

// RecordOperation counts one dispatched operation and its compute time.
func (m *Manager) RecordOperation(operation, outcome string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationLatency.WithLabelValues(operation).Observe(durationMs)
}

// RecordUpstreamCall observes one generative service call.
func (m *Manager) RecordUpstreamCall(backend string, durationMs float64, failed bool) {
	if !m.enabled {
		return
	}
	m.upstreamLatency.WithLabelValues(backend).Observe(durationMs)
	if failed {
		m.upstreamErrors.WithLabelValues(backend).Inc()
	}
}

// UpdateSystem records process gauges.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, avgGCPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if avgGCPauseMs > 0 {
		m.systemGCPauseTime.Observe(avgGCPauseMs)
	}
}

// Package-level helpers operate on the global manager.

// RecordHTTPRequest records one HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	current.Load().manager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordRateLimited records one rate-limited request on the global manager.
func RecordRateLimited() { current.Load().manager.RecordRateLimited() }

// RecordOperation records one operation on the global manager.
func RecordOperation(operation, outcome string, durationMs float64) {
	current.Load().manager.RecordOperation(operation, outcome, durationMs)
}

// RecordUpstreamCall records one upstream call on the global manager.
func RecordUpstreamCall(backend string, durationMs float64, failed bool) {
	current.Load().manager.RecordUpstreamCall(backend, durationMs, failed)
}

// UpdateSystem records process gauges on the global manager.
func UpdateSystem(memBytes uint64, goroutines int, avgGCPauseMs float64) {
	current.Load().manager.UpdateSystem(memBytes, goroutines, avgGCPauseMs)
}

// GetRegistry returns the registry the global manager registers on.
func GetRegistry() *prometheus.Registry {
	return current.Load().registry
}
