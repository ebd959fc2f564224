// Package metrics provides Prometheus metrics for the trendboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine stage label values.
const (
	StageNormalize = "normalize"
	StageAggregate = "aggregate"
	StageRank      = "rank"
	StageClassify  = "classify"
	StageOverlap   = "overlap"
	StageInfluence = "influence"
	StageReport    = "report"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Engine
	engineRuns         *prometheus.CounterVec
	engineStageLatency *prometheus.HistogramVec
	observations       prometheus.Gauge
	distinctTopics     prometheus.Gauge
	bucketSize         *prometheus.GaugeVec
	overlapPercentage  *prometheus.GaugeVec

	// Dataset snapshot
	snapshotLoads      *prometheus.CounterVec
	snapshotLastUnix   prometheus.Gauge
	snapshotGraphs     prometheus.Gauge
	snapshotPlatforms  prometheus.Gauge
	snapshotLoadMillis prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Identity
	identityOutcomes *prometheus.CounterVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "trendboard",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all metric definitions
	auto := promauto.With(m.registry)

	m.engineRuns = auto.NewCounterVec(m.counterOpts("runs_total", "Engine computations by stage"), []string{"stage"})
	m.engineStageLatency = auto.NewHistogramVec(m.histogramOpts("stage_latency_milliseconds", "Engine stage latency in milliseconds"), []string{"stage"})
	m.observations = auto.NewGauge(m.gaugeOpts("observations", "Topic observations produced by the last normalization"))
	m.distinctTopics = auto.NewGauge(m.gaugeOpts("distinct_topics", "Distinct topics produced by the last aggregation"))
	m.bucketSize = auto.NewGaugeVec(m.gaugeOpts("classification_bucket_size", "Topics per classification bucket"), []string{"bucket"})
	m.overlapPercentage = auto.NewGaugeVec(m.gaugeOpts("overlap_percentage", "Share of a platform's topics found in the reference set"), []string{"source"})

	m.snapshotLoads = auto.NewCounterVec(m.counterOpts("snapshot_loads_total", "Dataset snapshot loads by result"), []string{"result"})
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_unix", "Unix time of the last successful snapshot load"))
	m.snapshotGraphs = auto.NewGauge(m.gaugeOpts("snapshot_graphs", "Graphs in the current snapshot"))
	m.snapshotPlatforms = auto.NewGauge(m.gaugeOpts("snapshot_platforms", "Platforms in the current snapshot"))
	m.snapshotLoadMillis = auto.NewHistogram(m.histogramOpts("snapshot_load_milliseconds", "Snapshot load duration in milliseconds"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})

	m.identityOutcomes = auto.NewCounterVec(m.counterOpts("identity_outcomes_total", "Signup and login outcomes"), []string{"operation", "result"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component and type"), []string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds"))
}

// Engine Metrics Functions.

// RecordStage counts one run of an engine stage and its latency.
func RecordStage(stage string, latencyMs float64) {
	globalManager.engineRuns.WithLabelValues(stage).Inc()
	globalManager.engineStageLatency.WithLabelValues(stage).Observe(latencyMs)
}

// UpdateObservations sets the observation gauge.
func UpdateObservations(count int) {
	globalManager.observations.Set(float64(count))
}

// UpdateDistinctTopics sets the distinct topic gauge.
func UpdateDistinctTopics(count int) {
	globalManager.distinctTopics.Set(float64(count))
}

// UpdateBucketSize sets the size of a classification bucket.
func UpdateBucketSize(bucket string, size int) {
	globalManager.bucketSize.WithLabelValues(bucket).Set(float64(size))
}

// UpdateOverlap sets the overlap percentage of a source.
func UpdateOverlap(source string, percentage float64) {
	globalManager.overlapPercentage.WithLabelValues(source).Set(percentage)
}

// Snapshot Metrics Functions.

// RecordSnapshotLoad records a dataset load attempt.
func RecordSnapshotLoad(result string, durationMs float64) {
	globalManager.snapshotLoads.WithLabelValues(result).Inc()
	globalManager.snapshotLoadMillis.Observe(durationMs)
}

// UpdateSnapshotShape records the timestamp and size of the active snapshot.
func UpdateSnapshotShape(unix int64, graphs, platforms int) {
	globalManager.snapshotLastUnix.Set(float64(unix))
	globalManager.snapshotGraphs.Set(float64(graphs))
	globalManager.snapshotPlatforms.Set(float64(platforms))
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

// RecordIdentityOutcome counts a signup or login result.
func RecordIdentityOutcome(operation, result string) {
	globalManager.identityOutcomes.WithLabelValues(operation, result).Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
