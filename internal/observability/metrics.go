// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Generation metrics
	PlayersGenerated  *prometheus.CounterVec
	PaymentsSimulated prometheus.Counter
	EventsWritten     prometheus.Gauge
	EventsDropped     prometheus.Gauge
	EventsDuplicated  prometheus.Gauge

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec
	ModelsTrained     *prometheus.CounterVec
	RowsExported      *prometheus.CounterVec

	// Stream metrics
	StreamClients        prometheus.Gauge
	StreamEventsReplayed prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "mmo_analytics_lab"
	}

	return &Metrics{
		// Generation metrics
		PlayersGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "players_generated_total",
			Help:      "Total number of players generated by archetype",
		}, []string{"archetype"}),
		PaymentsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "payments_simulated_total",
			Help:      "Total number of payment transactions simulated",
		}),
		EventsWritten: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "events_written",
			Help:      "Event rows written during the last generation run",
		}),
		EventsDropped: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "events_dropped",
			Help:      "Event writes lost to simulated transport loss during the last run",
		}),
		EventsDuplicated: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "events_duplicated",
			Help:      "Event writes duplicated by simulated client redelivery during the last run",
		}),

		// Pipeline metrics
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"phase", "status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"phase"}),
		ModelsTrained: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pltv",
			Name:      "models_trained_total",
			Help:      "Total number of pLTV models trained by feature track",
		}, []string{"track"}),
		RowsExported: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "rows_exported_total",
			Help:      "Total CSV rows exported by table",
		}, []string{"table"}),

		// Stream metrics
		StreamClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Number of connected replay clients",
		}),
		StreamEventsReplayed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "events_replayed_total",
			Help:      "Total number of events sent to replay clients",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPlayerGenerated increments the per-archetype player counter.
func RecordPlayerGenerated(archetypeID string) {
	DefaultMetrics.PlayersGenerated.WithLabelValues(archetypeID).Inc()
}

// RecordPayments adds simulated payment transactions to the counter.
func RecordPayments(n int) {
	DefaultMetrics.PaymentsSimulated.Add(float64(n))
}

// RecordEventStats publishes the event write statistics of a finished run.
func RecordEventStats(written, dropped, duplicated int) {
	DefaultMetrics.EventsWritten.Set(float64(written))
	DefaultMetrics.EventsDropped.Set(float64(dropped))
	DefaultMetrics.EventsDuplicated.Set(float64(duplicated))
}

// RecordPipelineRun records a pipeline run.
func RecordPipelineRun(phase, status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues(phase).Observe(durationSeconds)
}

// RecordModelTrained increments the per-track model counter.
func RecordModelTrained(track string) {
	DefaultMetrics.ModelsTrained.WithLabelValues(track).Inc()
}

// RecordRowsExported adds exported CSV rows for a table.
func RecordRowsExported(table string, rows int) {
	DefaultMetrics.RowsExported.WithLabelValues(table).Add(float64(rows))
}

// RecordStreamClient adjusts the connected client gauge by delta.
func RecordStreamClient(delta int) {
	DefaultMetrics.StreamClients.Add(float64(delta))
}

// RecordEventsReplayed adds replayed events to the counter.
func RecordEventsReplayed(n int) {
	DefaultMetrics.StreamEventsReplayed.Add(float64(n))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
