// Package metrics provides Prometheus metrics for the SDP analysis service.
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

// Manager manages all Prometheus metrics for the analysis service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	latencyBuckets   []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Analysis Metrics - one label per core operation
	analysisRequests  *prometheus.CounterVec
	analysisLatency   *prometheus.HistogramVec
	analysisErrors    *prometheus.CounterVec
	groupsProduced    *prometheus.CounterVec
	benchmarkMissing  prometheus.Counter
	benchmarkFallback prometheus.Counter
	tierAssignments   *prometheus.CounterVec
	exports           *prometheus.CounterVec

	// Dataset Metrics - what the service is analysing
	datasetRecords      *prometheus.GaugeVec
	datasetLocations    prometheus.Gauge
	datasetLoadDuration *prometheus.HistogramVec

	// Snapshot Metrics - repository snapshot timings
	snapshotRebuildDuration prometheus.Histogram
	snapshotLastUnix        prometheus.Gauge
	snapshotCount           prometheus.Counter
	snapshotLastDurationMs  prometheus.Gauge

	// Reload Metrics - dataset reload queue and worker
	reloadQueueCapacity prometheus.Gauge
	reloadQueueSize     prometheus.Gauge
	reloadEnqueued      prometheus.Counter
	reloadRejected      *prometheus.CounterVec
	reloadDuplicates    prometheus.Counter
	reloadJobs          *prometheus.CounterVec
	reloadDuration      prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics - detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
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
		namespace:        "sdp",
		subsystem:        "analysis",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		latencyBuckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
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

	// A disabled manager still hands out working collectors; they are just
	// never exposed.
	if !m.enabled {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval is how often gauges fed by polling should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		ConstLabels: m.customLabels, Buckets: buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.analysisRequests = auto.NewCounterVec(
		m.counterOpts("requests_total", "Analysis operations served"),
		[]string{"operation"},
	)
	m.analysisLatency = auto.NewHistogramVec(
		m.histogramOpts("latency_milliseconds", "Analysis operation latency in milliseconds", m.latencyBuckets),
		[]string{"operation"},
	)
	m.analysisErrors = auto.NewCounterVec(
		m.counterOpts("errors_total", "Analysis operations that failed, by error kind"),
		[]string{"operation", "kind"},
	)
	m.groupsProduced = auto.NewCounterVec(
		m.counterOpts("groups_total", "Rows produced by analysis operations"),
		[]string{"operation"},
	)
	m.benchmarkMissing = auto.NewCounter(
		m.counterOpts("benchmark_missing_total", "Groups without a benchmark counterpart"),
	)
	m.benchmarkFallback = auto.NewCounter(
		m.counterOpts("benchmark_fallback_total", "Groups compared against the configured fallback benchmark value"),
	)
	m.tierAssignments = auto.NewCounterVec(
		m.counterOpts("tier_assignments_total", "Priority rows by assigned tier"),
		[]string{"tier"},
	)
	m.exports = auto.NewCounterVec(
		m.counterOpts("exports_total", "Priority table exports by format"),
		[]string{"format"},
	)

	m.datasetRecords = auto.NewGaugeVec(
		m.gaugeOpts("dataset_records", "Records in the loaded dataset"),
		[]string{"kind"},
	)
	m.datasetLocations = auto.NewGauge(
		m.gaugeOpts("dataset_locations", "Distinct locations in the loaded dataset"),
	)
	m.datasetLoadDuration = auto.NewHistogramVec(
		m.histogramOpts("dataset_load_duration_milliseconds", "Dataset load duration in milliseconds", m.histogramBuckets),
		[]string{"source"},
	)

	m.snapshotRebuildDuration = auto.NewHistogram(
		m.histogramOpts("repository_snapshot_rebuild_duration_milliseconds", "Repository snapshot rebuild duration in milliseconds", m.histogramBuckets),
	)
	m.snapshotLastUnix = auto.NewGauge(
		m.gaugeOpts("repository_snapshot_last_unix", "Unix timestamp of the last repository snapshot publish"),
	)
	m.snapshotCount = auto.NewCounter(
		m.counterOpts("repository_snapshot_count_total", "Total number of repository snapshots published"),
	)
	m.snapshotLastDurationMs = auto.NewGauge(
		m.gaugeOpts("repository_snapshot_last_duration_milliseconds", "Last repository snapshot rebuild duration in milliseconds"),
	)

	m.reloadQueueCapacity = auto.NewGauge(m.gaugeOpts("reload_queue_capacity", "Maximum number of pending dataset reloads"))
	m.reloadQueueSize = auto.NewGauge(m.gaugeOpts("reload_queue_size", "Number of pending dataset reloads"))
	m.reloadEnqueued = auto.NewCounter(m.counterOpts("reload_enqueued_total", "Total number of accepted reload requests"))
	m.reloadRejected = auto.NewCounterVec(
		m.counterOpts("reload_rejected_total", "Total number of reload requests that were not queued"),
		[]string{"reason"},
	)
	m.reloadDuplicates = auto.NewCounter(
		m.counterOpts("reload_duplicates_total", "Total number of reload requests dropped by idempotency key"),
	)
	m.reloadJobs = auto.NewCounterVec(
		m.counterOpts("reload_jobs_total", "Total number of reload jobs run by status"),
		[]string{"status"},
	)
	m.reloadDuration = auto.NewHistogram(
		m.histogramOpts("reload_duration_milliseconds", "Dataset reload duration in milliseconds",
			[]float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000}),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Analysis Metrics Functions.

// RecordAnalysisRequest counts one served analysis operation.
func RecordAnalysisRequest(operation string) {
	globalManager.analysisRequests.WithLabelValues(operation).Inc()
}

// RecordAnalysisLatency records an operation's latency in milliseconds.
func RecordAnalysisLatency(operation string, latencyMs float64) {
	globalManager.analysisLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordAnalysisError counts a failed operation.
func RecordAnalysisError(operation, kind string) {
	globalManager.analysisErrors.WithLabelValues(operation, kind).Inc()
}

// RecordGroupsProduced adds n output rows for operation.
func RecordGroupsProduced(operation string, n int) {
	globalManager.groupsProduced.WithLabelValues(operation).Add(float64(n))
}

// RecordBenchmarkMissing counts a group with no benchmark counterpart.
func RecordBenchmarkMissing() {
	globalManager.benchmarkMissing.Inc()
}

// RecordBenchmarkFallback counts a comparison against the fallback value.
func RecordBenchmarkFallback() {
	globalManager.benchmarkFallback.Inc()
}

// RecordTierAssignment counts a ranked row in tier.
func RecordTierAssignment(tier string) {
	globalManager.tierAssignments.WithLabelValues(tier).Inc()
}

// RecordExport counts an export in format.
func RecordExport(format string) {
	globalManager.exports.WithLabelValues(format).Inc()
}

// Dataset Metrics Functions.

// UpdateDatasetRecords sets the record count of one dataset kind.
func UpdateDatasetRecords(kind string, count int) {
	globalManager.datasetRecords.WithLabelValues(kind).Set(float64(count))
}

// UpdateDatasetLocations sets the number of distinct locations.
func UpdateDatasetLocations(count int) {
	globalManager.datasetLocations.Set(float64(count))
}

// RecordDatasetLoadDuration records how long loading from source took.
func RecordDatasetLoadDuration(source string, durationMs float64) {
	globalManager.datasetLoadDuration.WithLabelValues(source).Observe(durationMs)
}

// Snapshot Metrics Functions.

// RecordSnapshotPublished records one published repository snapshot.
func RecordSnapshotPublished(durationMs float64) {
	globalManager.snapshotRebuildDuration.Observe(durationMs)
	globalManager.snapshotLastDurationMs.Set(durationMs)
	globalManager.snapshotLastUnix.Set(float64(time.Now().Unix()))
	globalManager.snapshotCount.Inc()
}

// Reload Metrics Functions.

// UpdateReloadQueue sets the reload queue size and capacity.
func UpdateReloadQueue(size, capacity int) {
	globalManager.reloadQueueSize.Set(float64(size))
	globalManager.reloadQueueCapacity.Set(float64(capacity))
}

// RecordReloadEnqueued counts an accepted reload request.
func RecordReloadEnqueued() {
	globalManager.reloadEnqueued.Inc()
}

// RecordReloadRejected counts a reload request that was not queued.
func RecordReloadRejected(reason string) {
	globalManager.reloadRejected.WithLabelValues(reason).Inc()
}

// RecordReloadDuplicate counts a request dropped by its idempotency key.
func RecordReloadDuplicate() {
	globalManager.reloadDuplicates.Inc()
}

// RecordReloadJob records one finished reload job.
func RecordReloadJob(status string, durationMs float64) {
	globalManager.reloadJobs.WithLabelValues(status).Inc()
	globalManager.reloadDuration.Observe(durationMs)
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

// System Performance Metrics Functions.

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

// RefreshInterval returns the global manager's polling interval.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
