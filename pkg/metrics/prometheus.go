// Package metrics provides Prometheus metrics for the QuakeScope dashboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the QuakeScope service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Catalog Metrics - What the service holds in memory
	catalogLoads        *prometheus.CounterVec
	catalogLoadDuration *prometheus.HistogramVec
	catalogRows         *prometheus.GaugeVec
	catalogRegions      *prometheus.GaugeVec
	rowsDropped         *prometheus.CounterVec
	feedFallbacks       prometheus.Counter

	// Pipeline Metrics - Filter-and-aggregate performance
	pipelineRuns     prometheus.Counter
	pipelineDuration prometheus.Histogram
	pipelineRowsKept prometheus.Histogram
	pipelineLastRows prometheus.Gauge

	// HTTP Metrics - Request outcomes and latency
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics - Split by component, type, and endpoint
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Metrics - Process runtime health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "quakescope",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// name applies the optional metric prefix to a base metric name.
func (m *Manager) name(base string) string {
	return m.metricPrefix + base
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Register on the configured registry (custom by default). A disabled
	// manager still builds its instruments so recording stays safe, but
	// registers nothing and exposes nothing.
	reg := m.registry
	if !m.enabled {
		reg = nil
	}
	auto := promauto.With(reg)

	// Catalog Metrics - Loaded table scale and quality
	m.catalogLoads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("catalog_loads_total"),
			Help:        "Total number of catalog loads by data source",
			ConstLabels: m.customLabels,
		},
		[]string{"source"},
	)

	m.catalogLoadDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("catalog_load_duration_milliseconds"),
			Help:        "Catalog load duration in milliseconds by data source",
			ConstLabels: m.customLabels,
			Buckets:     m.histogramBuckets,
		},
		[]string{"source"},
	)

	m.catalogRows = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("catalog_rows"),
			Help:        "Number of normalized rows held per data source",
			ConstLabels: m.customLabels,
		},
		[]string{"source"},
	)

	m.catalogRegions = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("catalog_regions"),
			Help:        "Number of distinct regions per data source",
			ConstLabels: m.customLabels,
		},
		[]string{"source"},
	)

	m.rowsDropped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("rows_dropped_total"),
			Help:        "Total number of rows dropped during normalization by reason",
			ConstLabels: m.customLabels,
		},
		[]string{"reason"},
	)

	m.feedFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("feed_fallback_total"),
		Help:        "Total number of live feed failures recovered by the snapshot",
		ConstLabels: m.customLabels,
	})

	// Pipeline Metrics - The filter-and-aggregate hot path
	m.pipelineRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pipeline_runs_total"),
		Help:        "Total number of filter-and-aggregate invocations",
		ConstLabels: m.customLabels,
	})

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pipeline_duration_milliseconds"),
		Help:        "Filter-and-aggregate duration in milliseconds",
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	})

	m.pipelineRowsKept = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pipeline_rows_kept"),
		Help:        "Distribution of filtered subset sizes",
		ConstLabels: m.customLabels,
		Buckets:     []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
	})

	m.pipelineLastRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pipeline_last_rows"),
		Help:        "Size of the most recent filtered subset",
		ConstLabels: m.customLabels,
	})

	// HTTP Metrics - Request outcomes and latency
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.customLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "HTTP request duration in milliseconds (user experience)",
			ConstLabels: m.customLabels,
			Buckets:     m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics - Split by component, type, and endpoint
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_component_total"),
			Help:        "Total number of errors by component",
			ConstLabels: m.customLabels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_type_total"),
			Help:        "Total number of errors by type",
			ConstLabels: m.customLabels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_by_endpoint_total"),
			Help:        "Total number of errors by endpoint",
			ConstLabels: m.customLabels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("error_latency_milliseconds"),
			Help:        "Latency of operations that resulted in errors",
			ConstLabels: m.customLabels,
			Buckets:     m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Metrics - Process runtime health
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: m.customLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: m.customLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		ConstLabels: m.customLabels,
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Catalog Metrics Functions.

// RecordCatalogLoad increments the load counter for a data source.
func RecordCatalogLoad(source string) {
	globalManager.catalogLoads.WithLabelValues(source).Inc()
}

// RecordCatalogLoadDuration records a catalog load duration in milliseconds.
func RecordCatalogLoadDuration(source string, latencyMs float64) {
	globalManager.catalogLoadDuration.WithLabelValues(source).Observe(latencyMs)
}

// UpdateCatalogRows sets the number of normalized rows held for a source.
func UpdateCatalogRows(source string, count int) {
	globalManager.catalogRows.WithLabelValues(source).Set(float64(count))
}

// UpdateCatalogRegions sets the number of distinct regions for a source.
func UpdateCatalogRegions(source string, count int) {
	globalManager.catalogRegions.WithLabelValues(source).Set(float64(count))
}

// RecordRowsDropped adds to the dropped-rows counter for a reason
// (bad_time, duplicate_id).
func RecordRowsDropped(reason string, count int) {
	if count <= 0 {
		return
	}
	globalManager.rowsDropped.WithLabelValues(reason).Add(float64(count))
}

// RecordFeedFallback increments the live-feed fallback counter.
func RecordFeedFallback() {
	globalManager.feedFallbacks.Inc()
}

// Pipeline Metrics Functions.

// RecordPipelineRun increments the pipeline invocation counter.
func RecordPipelineRun() {
	globalManager.pipelineRuns.Inc()
}

// RecordPipelineDuration records a pipeline run duration in milliseconds.
func RecordPipelineDuration(latencyMs float64) {
	globalManager.pipelineDuration.Observe(latencyMs)
}

// RecordPipelineRowsKept records the filtered subset size of a pipeline run.
func RecordPipelineRowsKept(count int) {
	globalManager.pipelineRowsKept.Observe(float64(count))
	globalManager.pipelineLastRows.Set(float64(count))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval reports how often background gauge loops should refresh.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
