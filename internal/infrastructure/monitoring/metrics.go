package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	SaleBatchAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sale_batch_attempts_total",
			Help: "Total number of sale batch attempts",
		},
	)

	SaleBatchCommittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sale_batch_committed_total",
			Help: "Total number of committed sale batches",
		},
	)

	SaleBatchRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sale_batch_rejected_total",
			Help: "Total number of sale batches rejected by validation",
		},
	)

	SaleBatchFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sale_batch_failed_total",
			Help: "Total number of sale batches that failed during commit",
		},
		[]string{"reason"},
	)

	SaleLinesCommittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sale_lines_committed_total",
			Help: "Total number of committed sale lines",
		},
	)

	StockConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_conflicts_total",
			Help: "Total number of commit-time stock conflicts",
		},
	)
)

var (
	ItemsExpired = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_items_expired",
			Help: "Number of active items past their expiration date",
		},
	)

	ItemsNearExpiry = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_items_near_expiry",
			Help: "Number of active items within the near-expiry window",
		},
	)

	ItemsLowStock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_items_low_stock",
			Help: "Number of active items at or below the low-stock threshold",
		},
	)
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var (
	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Duration of Redis commands in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)

	RedisLockAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_attempts_total",
			Help: "Total number of distributed lock attempts",
		},
		[]string{"lock_type"},
	)

	RedisLockSuccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_success_total",
			Help: "Total number of successful lock acquisitions",
		},
		[]string{"lock_type"},
	)

	RedisLockFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_failure_total",
			Help: "Total number of failed lock acquisitions",
		},
		[]string{"lock_type", "reason"},
	)
)

func TimeDBQuery(queryType, table string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start).Seconds()
		DBQueryDuration.WithLabelValues(queryType, table).Observe(duration)
	}
}

func RecordSaleAttempt() {
	SaleBatchAttemptsTotal.Inc()
}

func RecordSaleRejected() {
	SaleBatchRejectedTotal.Inc()
}

func RecordSaleFailed(reason string) {
	SaleBatchFailedTotal.WithLabelValues(reason).Inc()
}

func RecordBatchCommitted(lines int) {
	SaleBatchCommittedTotal.Inc()
	SaleLinesCommittedTotal.Add(float64(lines))
}

func UpdateInventoryGauges(expired, nearExpiry, lowStock int) {
	ItemsExpired.Set(float64(expired))
	ItemsNearExpiry.Set(float64(nearExpiry))
	ItemsLowStock.Set(float64(lowStock))
}

func RecordLockAttempt(lockKey string) {
	RedisLockAttemptsTotal.WithLabelValues(getLockType(lockKey)).Inc()
}

func RecordLockSuccess(lockKey string) {
	RedisLockSuccessTotal.WithLabelValues(getLockType(lockKey)).Inc()
}

func RecordLockFailure(lockKey, reason string) {
	RedisLockFailureTotal.WithLabelValues(getLockType(lockKey), reason).Inc()
}

func getLockType(lockKey string) string {
	if len(lockKey) >= 4 && lockKey[:4] == "sale" {
		return "sale"
	}
	return "other"
}
