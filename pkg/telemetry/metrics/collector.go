package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"estatechat/chatrelay/pkg/config"
	"estatechat/chatrelay/pkg/upstream"
)

// Health probe results used as label values. The backend status itself is
// free text reported by the upstream and is not used as a label.
const (
	ProbeHealthy            = "healthy"
	ProbeUnexpectedResponse = "unexpected_response"
	ProbeUnreachable        = "unreachable"
	ProbeNotConfigured      = "not_configured"
)

// Collector owns the relay's Prometheus registry and metric families.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	relayMetrics    *RelayMetrics
	upstreamMetrics *UpstreamMetrics
}

// NewCollector creates a collector with the specified configuration and
// registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	collector := metrics.NewCollector(&config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "chatrelay",
//	}, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = config.DefaultLatencyBuckets
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.relayMetrics = NewRelayMetrics(cfg, registry)
	c.upstreamMetrics = NewUpstreamMetrics(cfg, registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}),
	)

	return c
}

// Enabled reports whether metrics are recorded.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// RecordChatRequest records a finished chat request.
//
// Parameters:
//   - outcome: how the request ended ("relayed", "no_response", ...)
//   - statusCode: the status code sent to the client
//   - duration: total time spent handling the request
func (c *Collector) RecordChatRequest(outcome string, statusCode int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.relayMetrics.RecordChat(outcome, strconv.Itoa(statusCode), duration)
}

// RecordRateLimited records a request rejected by the rate limiter.
func (c *Collector) RecordRateLimited() {
	if !c.config.Enabled {
		return
	}

	c.relayMetrics.RecordRateLimited()
}

// RecordUpstreamCall records one forward attempt.
func (c *Collector) RecordUpstreamCall(kind upstream.Kind, latency time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.upstreamMetrics.RecordCall(kind.String(), latency)
}

// RecordHealthProbe records a health probe result and updates the
// upstream_up gauge.
func (c *Collector) RecordHealthProbe(result upstream.HealthResult) {
	if !c.config.Enabled {
		return
	}

	c.upstreamMetrics.RecordProbe(ProbeResult(result))
	c.upstreamMetrics.SetUp(result.Healthy())
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ProbeResult reduces a health result to a bounded label value.
func ProbeResult(result upstream.HealthResult) string {
	switch {
	case result.BackendStatus == upstream.StatusNotConfigured:
		return ProbeNotConfigured
	case result.Healthy():
		return ProbeHealthy
	case result.Reachable:
		return ProbeUnexpectedResponse
	default:
		return ProbeUnreachable
	}
}
