// Package handlers provides the relay's HTTP endpoint handlers.
//
// ChatHandler serves POST /api/chat. It checks that an upstream is
// configured, validates the body, forwards the raw bytes with a single
// attempt and hands the tagged upstream result to proxy.MapResult, which
// decides the one response the client receives:
//
//	no upstream configured      503 {"aiMessage": ..., "error": "Proxy configuration error"}
//	invalid body                400 / 413
//	upstream 2xx, JSON body     upstream status, body relayed verbatim
//	upstream 2xx, other body    upstream status, error body naming the status
//	upstream non-2xx            upstream status, upstream body in "error"
//	no response                 504 {"aiMessage": ..., "error": "Gateway timeout"}
//	send error                  500 {"aiMessage": ..., "error": <cause>}
//
// HealthHandler serves GET /health and always answers 200:
//
//	{"status": "proxy_healthy", "backend_status": "healthy"}
//
// backend_status is "not_configured", the status string reported by the
// upstream, "unexpected_response_<code>" or "unreachable".
package handlers
