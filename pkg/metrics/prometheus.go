// Package metrics provides Prometheus metrics for the medalboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset lifecycle
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	datasetRows         *prometheus.GaugeVec
	datasetGeneration   prometheus.Gauge

	// Analytics and result cache
	viewLatency    *prometheus.HistogramVec
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions prometheus.Counter
	cacheSize      prometheus.Gauge

	// Chart rendering
	renderLatency  *prometheus.HistogramVec
	renderRejected prometheus.Counter
	renderErrors   *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Warm-up queue
	queueCapacity      prometheus.Gauge
	queueSize          prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Warm-up workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "medalboard",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.datasetLoads = m.counterVec("dataset_loads_total", "Dataset load attempts by result", "result")
	m.datasetLoadDuration = m.histogram("dataset_load_duration_milliseconds", "Time spent reading and normalizing the dataset", m.histogramBuckets)
	m.datasetRows = m.gaugeVec("dataset_rows", "Rows per table in the current dataset", "table")
	m.datasetGeneration = m.gauge("dataset_generation", "Generation number of the dataset being served")

	m.viewLatency = m.histogramVec("view_latency_milliseconds", "Time to compute a dashboard view", "view")
	m.cacheHits = m.counterVec("cache_hits_total", "Result cache hits by view", "view")
	m.cacheMisses = m.counterVec("cache_misses_total", "Result cache misses by view", "view")
	m.cacheEvictions = m.counter("cache_evictions_total", "Entries evicted from the result cache")
	m.cacheSize = m.gauge("cache_entries", "Entries currently held by the result cache")

	m.renderLatency = m.histogramVec("render_latency_milliseconds", "Server-side chart rendering latency", "format")
	m.renderRejected = m.counter("render_rejected_total", "Render requests rejected by the rate limiter")
	m.renderErrors = m.counterVec("render_errors_total", "Chart rendering failures by reason", "reason")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.queueCapacity = m.gauge("warmup_queue_capacity", "Maximum warm-up queue capacity")
	m.queueSize = m.gauge("warmup_queue_size", "Jobs waiting in the warm-up queue")
	m.queueUtilization = m.gauge("warmup_queue_utilization_ratio", "Warm-up queue size divided by capacity")
	m.queueEnqueued = m.counter("warmup_queue_enqueue_total", "Warm-up jobs enqueued")
	m.queueDequeued = m.counter("warmup_queue_dequeue_total", "Warm-up jobs dequeued")
	m.queueEnqueueErrors = m.counter("warmup_queue_enqueue_errors_total", "Warm-up jobs rejected by the queue")

	m.workerCount = m.gauge("warmup_worker_count", "Configured warm-up workers")
	m.workerActiveCount = m.gauge("warmup_worker_active_count", "Warm-up workers currently running a job")
	m.workerProcessingLatency = m.histogram("warmup_worker_latency_milliseconds", "Time a worker spends on one warm-up job", m.histogramBuckets)
	m.workerErrors = m.counter("warmup_worker_errors_total", "Warm-up jobs that failed")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that resulted in errors", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Dataset lifecycle.

// RecordDatasetLoad counts a load attempt; result is "ok" or "error".
func RecordDatasetLoad(result string, durationMs float64) {
	globalManager.datasetLoads.WithLabelValues(result).Inc()
	globalManager.datasetLoadDuration.Observe(durationMs)
}

// UpdateDatasetRows sets the row count of one table.
func UpdateDatasetRows(table string, rows int) {
	globalManager.datasetRows.WithLabelValues(table).Set(float64(rows))
}

// UpdateDatasetGeneration sets the generation being served.
func UpdateDatasetGeneration(gen uint64) {
	globalManager.datasetGeneration.Set(float64(gen))
}

// Views and cache.

// RecordViewLatency records the time spent computing a view.
func RecordViewLatency(view string, latencyMs float64) {
	globalManager.viewLatency.WithLabelValues(view).Observe(latencyMs)
}

// RecordCacheHit increments the cache hit counter for view.
func RecordCacheHit(view string) {
	globalManager.cacheHits.WithLabelValues(view).Inc()
}

// RecordCacheMiss increments the cache miss counter for view.
func RecordCacheMiss(view string) {
	globalManager.cacheMisses.WithLabelValues(view).Inc()
}

// RecordCacheEviction increments the eviction counter.
func RecordCacheEviction() {
	globalManager.cacheEvictions.Inc()
}

// UpdateCacheSize sets the number of cached entries.
func UpdateCacheSize(n int) {
	globalManager.cacheSize.Set(float64(n))
}

// Rendering.

// RecordRenderLatency records the time spent rasterizing a chart.
func RecordRenderLatency(format string, latencyMs float64) {
	globalManager.renderLatency.WithLabelValues(format).Observe(latencyMs)
}

// RecordRenderRejected counts a render request refused by the limiter.
func RecordRenderRejected() {
	globalManager.renderRejected.Inc()
}

// RecordRenderError counts a failed render.
func RecordRenderError(reason string) {
	globalManager.renderErrors.WithLabelValues(reason).Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Queue.

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueSize sets the current queue size and utilization.
func UpdateQueueSize(size, capacity int) {
	globalManager.queueSize.Set(float64(size))
	if capacity > 0 {
		globalManager.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Workers.

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// AddWorkerActive adjusts the active worker gauge by delta.
func AddWorkerActive(delta int) {
	globalManager.workerActiveCount.Add(float64(delta))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Errors.

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

// System.

// UpdateSystemMemoryUsage sets the heap usage in bytes.
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
