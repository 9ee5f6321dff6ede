package bitrix24

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the client's request
// lifecycle. It is safe for concurrent use and can be shared between client
// instances.
type MetricsCollector struct {
	callsTotal       *prometheus.CounterVec
	callDuration     *prometheus.HistogramVec
	rateLimitRetries *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
}

// NewMetricsCollector creates a collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		callsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitrix24_calls_total",
				Help: "Total number of REST method invocations",
			},
			[]string{"method", "status_code"},
		),
		callDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bitrix24_call_duration_seconds",
				Help:    "Duration of REST method invocations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code"},
		),
		rateLimitRetries: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitrix24_rate_limit_retries_total",
				Help: "Total number of retries caused by QUERY_LIMIT_EXCEEDED throttling",
			},
			[]string{"method"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitrix24_errors_total",
				Help: "Total number of failed REST method invocations",
			},
			[]string{"method"},
		),
	}
}

// ObserveCall records one round trip of a REST invocation.
func (m *MetricsCollector) ObserveCall(method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}

	labels := []string{method, strconv.Itoa(statusCode)}
	m.callsTotal.WithLabelValues(labels...).Inc()
	m.callDuration.WithLabelValues(labels...).Observe(duration.Seconds())
}

// IncRateLimitRetry records one throttle-induced retry.
func (m *MetricsCollector) IncRateLimitRetry(method string) {
	if m == nil {
		return
	}

	m.rateLimitRetries.WithLabelValues(method).Inc()
}

// IncError records one failed invocation.
func (m *MetricsCollector) IncError(method string) {
	if m == nil {
		return
	}

	m.errorsTotal.WithLabelValues(method).Inc()
}
