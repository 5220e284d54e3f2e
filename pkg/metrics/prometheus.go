// Package metrics provides Prometheus metrics for C4HScore.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Buckets for file save latency in milliseconds.
var defaultSaveBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals // bucket layout

// Manager owns all Prometheus metrics for one registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Model Metrics
	entitiesCreated     *prometheus.CounterVec
	duplicateRejections *prometheus.CounterVec
	invalidFormat       *prometheus.CounterVec
	eventEntities       *prometheus.GaugeVec

	// Persistence Metrics
	eventSaves        prometheus.Counter
	eventSaveBytes    prometheus.Gauge
	eventSaveDuration prometheus.Histogram
	eventLoads        prometheus.Counter
	articlesLoaded    prometheus.Gauge
	sqliteExports     prometheus.Counter

	// Import Metrics
	nominationRows   prometheus.Counter
	nominationErrors prometheus.Counter

	// Error Metrics
	errorsByOperation *prometheus.CounterVec
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
		namespace:        "c4hscore",
		subsystem:        "event",
		histogramBuckets: defaultSaveBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)

	m.entitiesCreated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "entities_created_total",
		Help:        "Total number of records created by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.duplicateRejections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duplicate_rejections_total",
		Help:        "Total number of creations rejected because the key was taken",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.invalidFormat = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "invalid_format_total",
		Help:        "Total number of field values rejected by validation",
		ConstLabels: m.constLabels,
	}, []string{"field"})

	m.eventEntities = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "entities",
		Help:        "Current number of records in the open event by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.eventSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "saves_total",
		Help:        "Total number of event file saves",
		ConstLabels: m.constLabels,
	})

	m.eventSaveBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "file_size_bytes",
		Help:        "Size of the last written event file",
		ConstLabels: m.constLabels,
	})

	m.eventSaveDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "save_duration_milliseconds",
		Help:        "Time taken to encode and write the event file",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.eventLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "loads_total",
		Help:        "Total number of event files opened",
		ConstLabels: m.constLabels,
	})

	m.articlesLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "articles_loaded",
		Help:        "Number of reference articles currently loaded",
		ConstLabels: m.constLabels,
	})

	m.sqliteExports = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sqlite_exports_total",
		Help:        "Total number of SQLite report exports",
		ConstLabels: m.constLabels,
	})

	m.nominationRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "nomination_rows_total",
		Help:        "Total number of nomination rows imported",
		ConstLabels: m.constLabels,
	})

	m.nominationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "nomination_errors_total",
		Help:        "Total number of nomination imports that failed",
		ConstLabels: m.constLabels,
	})

	m.errorsByOperation = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Total number of failed operations by operation name",
		ConstLabels: m.constLabels,
	}, []string{"operation"})
}

// Registry returns the registry this manager registers on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordEntityCreated counts a created record of the given kind.
func (m *Manager) RecordEntityCreated(kind string) { m.entitiesCreated.WithLabelValues(kind).Inc() }

// RecordDuplicateRejected counts a rejected duplicate of the given kind.
func (m *Manager) RecordDuplicateRejected(kind string) {
	m.duplicateRejections.WithLabelValues(kind).Inc()
}

// RecordInvalidFormat counts a rejected field value.
func (m *Manager) RecordInvalidFormat(field string) { m.invalidFormat.WithLabelValues(field).Inc() }

// UpdateEventEntities sets the number of records of a kind in the open event.
func (m *Manager) UpdateEventEntities(kind string, count int) {
	m.eventEntities.WithLabelValues(kind).Set(float64(count))
}

// RecordEventSave records one save with its latency and file size.
func (m *Manager) RecordEventSave(latencyMs float64, size int) {
	m.eventSaves.Inc()
	m.eventSaveDuration.Observe(latencyMs)
	m.eventSaveBytes.Set(float64(size))
}

// RecordEventLoad counts an opened event file.
func (m *Manager) RecordEventLoad() { m.eventLoads.Inc() }

// UpdateArticlesLoaded sets the number of loaded reference articles.
func (m *Manager) UpdateArticlesLoaded(count int) { m.articlesLoaded.Set(float64(count)) }

// RecordSQLiteExport counts a SQLite export.
func (m *Manager) RecordSQLiteExport() { m.sqliteExports.Inc() }

// RecordNominationRows adds n imported nomination rows.
func (m *Manager) RecordNominationRows(n int) { m.nominationRows.Add(float64(n)) }

// RecordNominationError counts a failed nomination import.
func (m *Manager) RecordNominationError() { m.nominationErrors.Inc() }

// RecordErrorByOperation counts a failed operation.
func (m *Manager) RecordErrorByOperation(operation string) {
	m.errorsByOperation.WithLabelValues(operation).Inc()
}

// WriteTextfile writes the registry in the text exposition format for the
// node-exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}

// Global convenience functions delegating to the default manager.

// RecordEntityCreated counts a created record of the given kind.
func RecordEntityCreated(kind string) { globalManager.RecordEntityCreated(kind) }

// RecordDuplicateRejected counts a rejected duplicate of the given kind.
func RecordDuplicateRejected(kind string) { globalManager.RecordDuplicateRejected(kind) }

// RecordInvalidFormat counts a rejected field value.
func RecordInvalidFormat(field string) { globalManager.RecordInvalidFormat(field) }

// UpdateEventEntities sets the number of records of a kind in the open event.
func UpdateEventEntities(kind string, count int) { globalManager.UpdateEventEntities(kind, count) }

// RecordEventSave records one save with its latency and file size.
func RecordEventSave(latencyMs float64, size int) { globalManager.RecordEventSave(latencyMs, size) }

// RecordEventLoad counts an opened event file.
func RecordEventLoad() { globalManager.RecordEventLoad() }

// UpdateArticlesLoaded sets the number of loaded reference articles.
func UpdateArticlesLoaded(count int) { globalManager.UpdateArticlesLoaded(count) }

// RecordSQLiteExport counts a SQLite export.
func RecordSQLiteExport() { globalManager.RecordSQLiteExport() }

// RecordNominationRows adds n imported nomination rows.
func RecordNominationRows(n int) { globalManager.RecordNominationRows(n) }

// RecordNominationError counts a failed nomination import.
func RecordNominationError() { globalManager.RecordNominationError() }

// RecordErrorByOperation counts a failed operation.
func RecordErrorByOperation(operation string) { globalManager.RecordErrorByOperation(operation) }

// WriteTextfile writes the default registry to path.
func WriteTextfile(path string) error { return globalManager.WriteTextfile(path) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
