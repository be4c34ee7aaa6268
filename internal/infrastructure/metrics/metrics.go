package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsCreated *prometheus.CounterVec
	TransactionErrors   *prometheus.CounterVec
	TransactionDuration prometheus.Histogram
	TransactionAmount   prometheus.Histogram

	// Refund metrics
	RefundsCreated   prometheus.Counter
	DuplicateRefunds prometheus.Counter
	RefundFailures   *prometheus.CounterVec

	// Status webhook metrics
	StatusChanges *prometheus.CounterVec

	// Drift metrics
	DriftOrders prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBErrors      *prometheus.CounterVec
	DBConnections prometheus.Gauge

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		TransactionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freightpoint_transactions_created_total",
				Help: "Total number of dual transactions created by type",
			},
			[]string{"type"},
		),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freightpoint_transaction_errors_total",
				Help: "Total number of transaction errors by type",
			},
			[]string{"error_type"},
		),
		TransactionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "freightpoint_transaction_duration_seconds",
			Help:    "Duration of dual transaction writes",
			Buckets: prometheus.DefBuckets,
		}),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "freightpoint_transaction_amount",
			Help:    "Customer-side transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Refund metrics
		RefundsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "freightpoint_refunds_created_total",
			Help: "Total number of refund pairs created",
		}),
		DuplicateRefunds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "freightpoint_duplicate_refunds_total",
			Help: "Total number of refund requests resolved to an existing refund",
		}),
		RefundFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freightpoint_refund_failures_total",
				Help: "Total number of failed refund writes by source",
			},
			[]string{"source"},
		),

		// Status webhook metrics
		StatusChanges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freightpoint_status_changes_total",
				Help: "Total order status changes observed by new status",
			},
			[]string{"new_status"},
		),

		// Drift metrics
		DriftOrders: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "freightpoint_drift_orders",
			Help: "Orders with disagreeing dual-ledger totals at last check",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freightpoint_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "freightpoint_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freightpoint_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "freightpoint_db_connections",
			Help: "Current number of database connections",
		}),

		// Authentication metrics
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freightpoint_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freightpoint_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
