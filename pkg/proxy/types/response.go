package types

import "encoding/json"

// ChatResponse is the upstream's answer to a chat request.
type ChatResponse struct {
	// AIMessage is the assistant's reply, rendered directly by the client.
	AIMessage string `json:"aiMessage,omitempty"`

	// Properties lists property listings matching the conversation. Opaque.
	Properties json.RawMessage `json:"properties,omitempty"`

	// SmartTags lists suggestion labels attached to the reply. Opaque.
	SmartTags json.RawMessage `json:"smartTags,omitempty"`

	// Error carries a diagnostic string on failure.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is the body the relay synthesizes for every failure. Both
// fields are always present so clients can render AIMessage without
// inspecting Error.
type ErrorResponse struct {
	// AIMessage is a human-readable, localized explanation.
	AIMessage string `json:"aiMessage"`

	// Error is a diagnostic string.
	Error string `json:"error"`
}

// NewErrorResponse creates an ErrorResponse.
func NewErrorResponse(aiMessage, errText string) *ErrorResponse {
	return &ErrorResponse{AIMessage: aiMessage, Error: errText}
}

// HealthStatus is the body of the relay's health endpoint.
type HealthStatus struct {
	// Status is always ProxyHealthy while the relay can answer.
	Status string `json:"status"`

	// BackendStatus reports the upstream's state as observed by this request.
	BackendStatus string `json:"backend_status"`
}

// ProxyHealthy is the relay's own health status.
const ProxyHealthy = "proxy_healthy"
