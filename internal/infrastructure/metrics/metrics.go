package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// Record metrics
	RecordsProcessed *prometheus.CounterVec
	Rejections       *prometheus.CounterVec
	RecordDuration   *prometheus.HistogramVec

	// Account metrics
	AccountsKnown  prometheus.Gauge
	AccountsLocked prometheus.Counter

	// Ledger metrics
	TransactionsRetained prometheus.Gauge
	DisputesOpened       prometheus.Counter
	DisputesResolved     prometheus.Counter
	Chargebacks          prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RecordsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txengine_records_processed_total",
				Help: "Total records processed by type and status",
			},
			[]string{"type", "status"},
		),
		Rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txengine_rejections_total",
				Help: "Total business rejections by reason",
			},
			[]string{"reason"},
		),
		RecordDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txengine_record_duration_seconds",
				Help:    "Duration of record processing",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),

		AccountsKnown: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txengine_accounts_known",
			Help: "Current number of known accounts",
		}),
		AccountsLocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "txengine_accounts_locked_total",
			Help: "Total accounts locked by chargebacks",
		}),

		TransactionsRetained: factory.NewGauge(prometheus.GaugeOpts{
			Name: "txengine_transactions_retained",
			Help: "Current number of retained disputable transactions",
		}),
		DisputesOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "txengine_disputes_opened_total",
			Help: "Total disputes opened",
		}),
		DisputesResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "txengine_disputes_resolved_total",
			Help: "Total disputes resolved",
		}),
		Chargebacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "txengine_chargebacks_total",
			Help: "Total chargebacks applied",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txengine_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "txengine_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
