package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// AuthEvents counts authentication events by event and outcome.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_auth_events_total",
		Help: "Authentication events by type and outcome",
	}, []string{"event", "outcome"})

	// EmailDispatch counts notification jobs by template and result
	// (queued, rejected, sent, failed).
	EmailDispatch = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_email_dispatch_total",
		Help: "Notification jobs by template and result",
	}, []string{"template", "result"})

	// NotifyQueueDepth is the number of notification jobs waiting for a worker.
	NotifyQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_notify_queue_depth",
		Help: "Notification jobs waiting for a worker",
	})

	// BlobOperations counts blob store calls by operation and outcome.
	BlobOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_blob_operations_total",
		Help: "Blob store operations by type and outcome",
	}, []string{"operation", "outcome"})

	// BlobLatency records blob store call latency.
	BlobLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_blob_latency_seconds",
		Help:    "Blob store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_redis_errors_total",
		Help: "Redis errors by command",
	}, []string{"command"})

	// CacheLookups counts cache-aside lookups by result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	// DBQueryIssues counts failed and slow SQL statements by kind (error, slow).
	DBQueryIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_db_query_issues_total",
		Help: "Failed and slow database queries",
	}, []string{"kind"})
)

// Outcome maps an error to an outcome label value.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// RecordAuthEvent increments the auth event counter.
func RecordAuthEvent(event string, err error) {
	AuthEvents.WithLabelValues(event, Outcome(err)).Inc()
}

// TrackBlob returns a function that records the latency and outcome of a blob call.
func TrackBlob(operation string) func(err error) {
	start := time.Now()
	return func(err error) {
		BlobLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		BlobOperations.WithLabelValues(operation, Outcome(err)).Inc()
	}
}
