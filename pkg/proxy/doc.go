// Package proxy turns the outcome of a forwarded chat request into the
// response sent back to the mobile client.
//
// # Classification
//
// The upstream package reports every forward attempt as a tagged
// upstream.Result. MapResult is the single place that decides what the client
// sees:
//
//	Upstream answered 2xx with JSON   → upstream status, upstream bytes verbatim
//	Upstream answered 2xx, not JSON   → upstream status, {aiMessage, error: raw body}
//	Upstream answered non-2xx         → upstream status, {aiMessage, error: body text}
//	No response (refused, timeout)    → 504, {aiMessage: timeout text, error: "Gateway timeout"}
//	Send error (bad URL, DNS failure) → 500, {aiMessage: setup text, error: cause}
//
// Failures the relay detects itself (missing upstream URL, malformed request
// bodies, rate limiting, panics) use the same {aiMessage, error} shape.
//
// # Localization
//
// User-facing aiMessage texts come from a Messages catalog selected by the
// configured locale. French is the default; English is also available.
//
// # Subpackages
//
//   - types: JSON request and response bodies
//   - handlers: the /api/chat and /health HTTP handlers
//   - middleware: CORS, request IDs, logging, recovery and rate limiting
package proxy
