// Package metrics provides Prometheus metrics for the chat relay.
//
// # Metrics
//
// With the default "chatrelay" namespace the collector exposes:
//
//   - chatrelay_chat_requests_total{outcome,code}: chat requests by outcome
//     and the status code sent to the client
//   - chatrelay_chat_request_duration_seconds{outcome}: end to end chat latency
//   - chatrelay_rate_limited_total: requests rejected by the rate limiter
//   - chatrelay_upstream_requests_total{kind}: forward attempts by result kind
//   - chatrelay_upstream_latency_seconds{kind}: forward attempt latency
//   - chatrelay_health_probes_total{result}: upstream health probes
//   - chatrelay_upstream_up: 1 when the last probe got a status report
//
// Go runtime and process collectors are registered on the same registry.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	router.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//	collector.RecordChatRequest("relayed", 200, 850*time.Millisecond)
//
// Every Record method is a no-op when metrics are disabled, so callers never
// check the configuration themselves.
package metrics
