package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Bucket registry metrics
	BucketsCreated     prometheus.Counter
	BucketsDeleted     prometheus.Counter
	ShareReallocations *prometheus.CounterVec

	// Allocation metrics
	IncomesRecorded    prometheus.Counter
	IncomesReversed    prometheus.Counter
	IncomeAmount       prometheus.Histogram
	AllocationDuration prometheus.Histogram
	MovementsRecorded  *prometheus.CounterVec
	OperationErrors    *prometheus.CounterVec

	// Debt metrics
	DebtsCreated prometheus.Counter
	DebtsSettled prometheus.Counter

	// Reconciliation metrics
	ReconciliationRuns          prometheus.Counter
	ReconciliationDiscrepancies prometheus.Gauge

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge
	DBRetries     prometheus.Counter

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Bucket registry metrics
		BucketsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "shareledger_buckets_created_total",
			Help: "Total number of buckets created",
		}),
		BucketsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "shareledger_buckets_deleted_total",
			Help: "Total number of buckets deleted",
		}),
		ShareReallocations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shareledger_share_reallocations_total",
				Help: "Share taken from a donor bucket, by donor kind",
			},
			[]string{"donor"},
		),

		// Allocation metrics
		IncomesRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "shareledger_incomes_recorded_total",
			Help: "Total number of incomes split across buckets",
		}),
		IncomesReversed: f.NewCounter(prometheus.CounterOpts{
			Name: "shareledger_incomes_reversed_total",
			Help: "Total number of income groups deleted or re-split",
		}),
		IncomeAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "shareledger_income_amount",
			Help:    "Income amounts in major units",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		AllocationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "shareledger_allocation_duration_seconds",
			Help:    "Duration of income split transactions",
			Buckets: prometheus.DefBuckets,
		}),
		MovementsRecorded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shareledger_movements_recorded_total",
				Help: "Total direct movements by direction",
			},
			[]string{"direction"},
		),
		OperationErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shareledger_operation_errors_total",
				Help: "Total use case errors by operation",
			},
			[]string{"operation"},
		),

		// Debt metrics
		DebtsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "shareledger_debts_created_total",
			Help: "Total number of debts created",
		}),
		DebtsSettled: f.NewCounter(prometheus.CounterOpts{
			Name: "shareledger_debts_settled_total",
			Help: "Total number of debts settled",
		}),

		// Reconciliation metrics
		ReconciliationRuns: f.NewCounter(prometheus.CounterOpts{
			Name: "shareledger_reconciliation_runs_total",
			Help: "Total reconciliation runs",
		}),
		ReconciliationDiscrepancies: f.NewGauge(prometheus.GaugeOpts{
			Name: "shareledger_reconciliation_discrepancies",
			Help: "Discrepancies found by the last reconciliation run",
		}),

		// Outbox metrics
		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "shareledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "shareledger_outbox_errors_total",
			Help: "Total outbox publish failures",
		}),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shareledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shareledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "shareledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBRetries: f.NewCounter(prometheus.CounterOpts{
			Name: "shareledger_db_retries_total",
			Help: "Total retries of transient storage failures",
		}),

		// Redis metrics
		RedisOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shareledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shareledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shareledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shareledger_rate_limit_hits_total",
				Help: "Total rate limit hits by limiter key scope",
			},
			[]string{"scope"},
		),
	}
}
