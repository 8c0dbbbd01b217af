// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transaction status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds all Prometheus metrics for the application.
// Each instance owns its registry, so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// Gateway metrics
	TransactionsTotal   *prometheus.CounterVec
	TransactionDuration *prometheus.HistogramVec
	TokensCreated       prometheus.Counter
	BaseUnitsMinted     prometheus.Counter

	// History metrics
	IssuanceEventsStored prometheus.Counter
	IssuanceStoreErrors  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulTransaction prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_manager"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Gateway metrics
		TransactionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "transactions_total",
			Help:      "Total number of executed transactions by instruction and outcome",
		}, []string{"instruction", "status", "error_kind"}),
		TransactionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "transaction_duration_seconds",
			Help:      "Transaction execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"instruction"}),
		TokensCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "tokens_created_total",
			Help:      "Total number of tokens created",
		}),
		BaseUnitsMinted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "base_units_minted_total",
			Help:      "Total base units minted across all tokens",
		}),

		// History metrics
		IssuanceEventsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "issuance_events_stored_total",
			Help:      "Total number of issuance events written to the history store",
		}),
		IssuanceStoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "issuance_store_errors_total",
			Help:      "Total number of failed issuance event writes",
		}),

		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulTransaction: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_transaction_timestamp",
			Help:      "Unix timestamp of last successful transaction",
		}),
	}
}

// Registry returns the registry holding these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format,
// for collection by node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// RecordTransaction records an executed transaction. errorKind is empty on success.
func (m *Metrics) RecordTransaction(instruction string, duration time.Duration, errorKind string) {
	status := StatusSuccess
	if errorKind != "" {
		status = StatusError
	}
	m.TransactionsTotal.WithLabelValues(instruction, status, errorKind).Inc()
	m.TransactionDuration.WithLabelValues(instruction).Observe(duration.Seconds())
	if errorKind == "" {
		m.LastSuccessfulTransaction.SetToCurrentTime()
	}
}

// RecordTokenCreated increments the created tokens counter.
func (m *Metrics) RecordTokenCreated() {
	m.TokensCreated.Inc()
}

// RecordMinted adds amount base units to the minted counter.
func (m *Metrics) RecordMinted(amount uint64) {
	m.BaseUnitsMinted.Add(float64(amount))
}

// RecordIssuanceStored records the outcome of an issuance event write.
func (m *Metrics) RecordIssuanceStored(err error) {
	if err != nil {
		m.IssuanceStoreErrors.Inc()
		return
	}
	m.IssuanceEventsStored.Inc()
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
