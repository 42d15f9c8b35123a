package types

import (
	"bytes"
	"encoding/json"
)

// ChatRequest is the body of a chat request. Only the presence of message is
// checked; the raw request bytes are what gets forwarded upstream.
type ChatRequest struct {
	// Message is the user's input, kept undecoded. Clients send a string, but
	// any non-null JSON value is accepted and relayed.
	Message json.RawMessage `json:"message"`
}

var jsonNull = []byte("null")

// Validate checks that the message field is present and not null.
func (r *ChatRequest) Validate() error {
	if len(r.Message) == 0 || bytes.Equal(r.Message, jsonNull) {
		return &ValidationError{Field: "message", Message: "field is required"}
	}
	return nil
}

// Text returns the message when it is a JSON string.
func (r *ChatRequest) Text() (string, bool) {
	var text string
	if err := json.Unmarshal(r.Message, &text); err != nil {
		return "", false
	}
	return text, true
}

// DecodeChatRequest parses body as a ChatRequest. The body must be a JSON
// object; unknown fields are allowed.
func DecodeChatRequest(body []byte) (*ChatRequest, error) {
	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ValidationError{Field: "body", Message: "invalid JSON object", Cause: err}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}
// ValidationError describes a malformed chat request.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Field + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Field + ": " + e.Message
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}
