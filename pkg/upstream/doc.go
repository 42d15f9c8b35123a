// Package upstream wraps the outbound HTTP calls the relay makes to the chat
// backend.
//
// A Client performs exactly one attempt per call and never retries. Forward
// returns a tagged Result that says which of three things happened:
//
//   - KindUpstreamResponse: the backend answered with a status and a body,
//     whatever the status code.
//   - KindNoResponse: the request left the relay but no complete answer came
//     back (connection refused, reset, timeout, body cut short).
//   - KindSendError: the request could not be built or sent at all (malformed
//     URL, unsupported scheme, host name that does not resolve).
//
// Translating a Result into a client-facing response is the job of the proxy
// package. Probe performs the backend health check and reduces it to the
// backend status string reported by the relay's own health endpoint.
package upstream
