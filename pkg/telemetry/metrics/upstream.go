package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"estatechat/chatrelay/pkg/config"
)

// UpstreamMetrics tracks calls made to the upstream backend.
type UpstreamMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	probes   *prometheus.CounterVec
	up       prometheus.Gauge
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of forward attempts by result kind",
			},
			[]string{"kind"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_latency_seconds",
				Help:      "Latency of forward attempts in seconds",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"kind"},
		),

		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "health_probes_total",
				Help:      "Total number of upstream health probes by result",
			},
			[]string{"result"},
		),

		up: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "upstream_up",
				Help:      "Upstream health from the last probe (1=reported status, 0=otherwise)",
			},
		),
	}

	registry.MustRegister(
		um.requests,
		um.latency,
		um.probes,
		um.up,
	)

	return um
}

// RecordCall records one forward attempt.
func (um *UpstreamMetrics) RecordCall(kind string, latency time.Duration) {
	um.requests.WithLabelValues(kind).Inc()
	um.latency.WithLabelValues(kind).Observe(latency.Seconds())
}

// RecordProbe counts one health probe.
func (um *UpstreamMetrics) RecordProbe(result string) {
	um.probes.WithLabelValues(result).Inc()
}

// SetUp sets the upstream_up gauge.
func (um *UpstreamMetrics) SetUp(up bool) {
	if up {
		um.up.Set(1)
		return
	}
	um.up.Set(0)
}
