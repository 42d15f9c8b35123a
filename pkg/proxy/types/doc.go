// Package types defines the JSON bodies exchanged by the chat relay.
//
// Request types:
//   - ChatRequest: body of POST /api/chat
//
// Response types:
//   - ChatResponse: upstream answer relayed to the client
//   - ErrorResponse: body synthesized by the relay when forwarding fails
//   - HealthStatus: body of GET /health
//
// The relay does not interpret property listings or smart tags; they are
// carried as json.RawMessage so that their content is never re-encoded.
// Field names follow the mobile client's camelCase convention, except
// HealthStatus which keeps backend_status for compatibility.
package types
