package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"estatechat/chatrelay/pkg/config"
)

// RelayMetrics tracks client-facing chat traffic.
type RelayMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
}

// NewRelayMetrics creates and registers relay metrics with the provided registry.
func NewRelayMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RelayMetrics {
	rm := &RelayMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "chat_requests_total",
				Help:      "Total number of chat requests by outcome and response code",
			},
			[]string{"outcome", "code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "chat_request_duration_seconds",
				Help:      "Duration of chat requests in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"outcome"},
		),

		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rate_limited_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.rateLimited,
	)

	return rm
}

// RecordChat records one finished chat request.
func (rm *RelayMetrics) RecordChat(outcome, code string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(outcome, code).Inc()
	rm.requestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordRateLimited counts one rejected request.
func (rm *RelayMetrics) RecordRateLimited() {
	rm.rateLimited.Inc()
}
