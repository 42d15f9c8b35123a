package upstream

import (
	"net/http"
	"time"
)

// Kind tags the outcome of a forwarded request.
type Kind int

const (
	// KindUpstreamResponse means the upstream answered with a status and body.
	KindUpstreamResponse Kind = iota + 1

	// KindNoResponse means the request was sent but no complete answer came back.
	KindNoResponse

	// KindSendError means the request could not be built or sent.
	KindSendError
)

// String returns the snake_case name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindUpstreamResponse:
		return "upstream_response"
	case KindNoResponse:
		return "no_response"
	case KindSendError:
		return "send_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single Forward call. Exactly one of the field
// groups is meaningful, selected by Kind:
//
//   - KindUpstreamResponse: StatusCode, Header and Body
//   - KindNoResponse: Err is a *NoResponseError
//   - KindSendError: Err is a *SendError
type Result struct {
	Kind Kind

	StatusCode int
	Header     http.Header
	Body       []byte

	Err error

	// Latency is the time spent on the attempt, including reading the body.
	Latency time.Duration
}

// Success reports whether the upstream answered with a 2xx status.
func (r Result) Success() bool {
	return r.Kind == KindUpstreamResponse && r.StatusCode >= 200 && r.StatusCode < 300
}

// Backend status values reported by Probe that do not come from the upstream.
const (
	StatusNotConfigured = "not_configured"
	StatusUnreachable   = "unreachable"
)

// HealthResult is the outcome of a Probe call.
type HealthResult struct {
	// BackendStatus is the value reported as backend_status on /health.
	BackendStatus string

	// Reachable is true when the upstream answered with any HTTP response.
	Reachable bool

	// StatusCode is the upstream HTTP status, zero when unreachable.
	StatusCode int

	// Reported is true when BackendStatus was taken from the upstream body.
	Reported bool

	// Err holds the transport error when the upstream was unreachable.
	Err error

	Latency time.Duration
}

// Healthy reports whether the upstream answered 2xx and reported its own
// status.
func (h HealthResult) Healthy() bool {
	return h.Reported
}
