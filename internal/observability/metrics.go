package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every custom metric of the api and worker processes
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Login / session metrics
	LoginAttemptsTotal *prometheus.CounterVec
	LogoutsTotal       prometheus.Counter
	CacheHitsTotal     *prometheus.CounterVec
	CacheMissesTotal   *prometheus.CounterVec

	// Login log pipeline
	QueueMessagesPublished *prometheus.CounterVec
	QueueMessagesConsumed  *prometheus.CounterVec
	LoginLogsFailedTotal   *prometheus.CounterVec
}

// NewMetrics registers all metrics on the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		LoginAttemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"}, // success, failure
		),

		LogoutsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "logouts_total",
				Help: "Total number of logouts and kick-outs",
			},
		),

		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_type"},
		),

		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_type"},
		),

		QueueMessagesPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_messages_published_total",
				Help: "Total number of messages published to the queue",
			},
			[]string{"queue_name"},
		),

		QueueMessagesConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_messages_consumed_total",
				Help: "Total number of messages consumed from the queue",
			},
			[]string{"queue_name"},
		),

		LoginLogsFailedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_logs_failed_total",
				Help: "Total number of login log messages that could not be stored",
			},
			[]string{"error_type"},
		),
	}
}

// GlobalMetrics is nil until InitMetrics runs; the helpers below are no-ops until then.
var GlobalMetrics *Metrics

func InitMetrics() {
	GlobalMetrics = NewMetrics()
}

func CacheHit(keyType string) {
	if GlobalMetrics != nil {
		GlobalMetrics.CacheHitsTotal.WithLabelValues(keyType).Inc()
	}
}

func CacheMiss(keyType string) {
	if GlobalMetrics != nil {
		GlobalMetrics.CacheMissesTotal.WithLabelValues(keyType).Inc()
	}
}

func LoginAttempt(status string) {
	if GlobalMetrics != nil {
		GlobalMetrics.LoginAttemptsTotal.WithLabelValues(status).Inc()
	}
}

func Logout() {
	if GlobalMetrics != nil {
		GlobalMetrics.LogoutsTotal.Inc()
	}
}

func MessagePublished(queue string) {
	if GlobalMetrics != nil {
		GlobalMetrics.QueueMessagesPublished.WithLabelValues(queue).Inc()
	}
}

func MessageConsumed(queue string) {
	if GlobalMetrics != nil {
		GlobalMetrics.QueueMessagesConsumed.WithLabelValues(queue).Inc()
	}
}

func LoginLogFailed(errorType string) {
	if GlobalMetrics != nil {
		GlobalMetrics.LoginLogsFailedTotal.WithLabelValues(errorType).Inc()
	}
}
