// Package metrics provides Prometheus metrics for the contact report job.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector recorded during a report run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Input metrics
	recordsLoaded *prometheus.CounterVec

	// Contact pipeline metrics
	contactsDuplicate  prometheus.Counter
	contactsTooShort   prometheus.Counter
	contactsRetained   prometheus.Gauge
	dualRoleRows       prometheus.Gauge
	participantsMissed prometheus.Counter

	// Reconciliation
	reconciliationAnomalies prometheus.Counter

	// Report output
	sheetsWritten *prometheus.CounterVec
	sheetRows     *prometheus.GaugeVec

	// Run health
	stageLatency *prometheus.HistogramVec
	runFailures  *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton recorder for the batch run

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager on its own registry unless one is
// supplied through WithPrometheusRegistry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "contactreport",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000},
		constLabels:      make(map[string]string),
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.recordsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_loaded_total",
		Help:        "Records read from each input source",
		ConstLabels: labels,
	}, []string{"source"})

	m.contactsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "contacts_duplicate_total",
		Help:        "Contact rows collapsed as exact duplicates",
		ConstLabels: labels,
	})

	m.contactsTooShort = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "contacts_too_short_total",
		Help:        "Contacts dropped for lasting less than the minimum duration",
		ConstLabels: labels,
	})

	m.contactsRetained = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "contacts_retained",
		Help:        "Contacts remaining after deduplication and duration filtering",
		ConstLabels: labels,
	})

	m.dualRoleRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dual_role_rows",
		Help:        "Rows in the per-participant contact table",
		ConstLabels: labels,
	})

	m.participantsMissed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "participants_unresolved_total",
		Help:        "Contact participants with no matching person",
		ConstLabels: labels,
	})

	m.reconciliationAnomalies = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reconciliation_anomalies_total",
		Help:        "Small-dataset persons with no last-name match in the large dataset",
		ConstLabels: labels,
	})

	m.sheetsWritten = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sheets_written_total",
		Help:        "Sheets handed to the report sink",
		ConstLabels: labels,
	}, []string{"sheet"})

	m.sheetRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sheet_rows",
		Help:        "Data rows written per sheet",
		ConstLabels: labels,
	}, []string{"sheet"})

	m.stageLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_latency_milliseconds",
		Help:        "Wall time of each pipeline stage in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"stage"})

	m.runFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_failures_total",
		Help:        "Runs aborted, by failing stage",
		ConstLabels: labels,
	}, []string{"stage"})
}

// Registry returns the registry this manager records into.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps the manager's registry in the textfile collector format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// RecordRecordsLoaded adds n records read from source.
func RecordRecordsLoaded(source string, n int) {
	globalManager.recordsLoaded.WithLabelValues(source).Add(float64(n))
}

// RecordContactsDuplicate adds n collapsed duplicate contact rows.
func RecordContactsDuplicate(n int) {
	globalManager.contactsDuplicate.Add(float64(n))
}

// RecordContactsTooShort adds n contacts dropped by the duration threshold.
func RecordContactsTooShort(n int) {
	globalManager.contactsTooShort.Add(float64(n))
}

// UpdateContactsRetained sets the filtered contact count.
func UpdateContactsRetained(n int) {
	globalManager.contactsRetained.Set(float64(n))
}

// UpdateDualRoleRows sets the per-participant row count.
func UpdateDualRoleRows(n int) {
	globalManager.dualRoleRows.Set(float64(n))
}

// RecordParticipantsUnresolved adds n participant lookups that found no person.
func RecordParticipantsUnresolved(n int) {
	globalManager.participantsMissed.Add(float64(n))
}

// RecordReconciliationAnomalies adds n unexpected unmatched persons.
func RecordReconciliationAnomalies(n int) {
	globalManager.reconciliationAnomalies.Add(float64(n))
}

// RecordSheetWritten counts a sheet and records its row count.
func RecordSheetWritten(sheet string, rows int) {
	globalManager.sheetsWritten.WithLabelValues(sheet).Inc()
	globalManager.sheetRows.WithLabelValues(sheet).Set(float64(rows))
}

// RecordStageLatency observes a stage duration in milliseconds.
func RecordStageLatency(stage string, latencyMs float64) {
	globalManager.stageLatency.WithLabelValues(stage).Observe(latencyMs)
}

// RecordRunFailure counts a run aborted in stage.
func RecordRunFailure(stage string) {
	globalManager.runFailures.WithLabelValues(stage).Inc()
}

// GetRegistry returns the registry used by the package-level recorders.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}

// WriteTextfile dumps the package-level registry to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}
