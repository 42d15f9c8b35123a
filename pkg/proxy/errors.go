package proxy

import (
	"errors"
	"fmt"
	"net/http"

	"estatechat/chatrelay/pkg/proxy/types"
)

// Diagnostic texts written to the error field of synthesized responses.
const (
	ErrTextNotConfigured    = "Proxy configuration error"
	ErrTextGatewayTimeout   = "Gateway timeout"
	ErrTextBodyTooLarge     = "Request body too large"
	ErrTextRateLimited      = "Rate limit exceeded"
	ErrTextInternal         = "Internal server error"
	ErrTextNotFound         = "Not found"
	ErrTextMethodNotAllowed = "Method not allowed"
)

// RequestError represents a chat request rejected before forwarding.
type RequestError struct {
	// StatusCode is the HTTP status returned to the client.
	StatusCode int

	// Key selects the user-facing message.
	Key MessageKey

	// Message is the diagnostic text.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// NewInvalidRequestError creates a 400 RequestError.
func NewInvalidRequestError(cause error) *RequestError {
	return &RequestError{
		StatusCode: http.StatusBadRequest,
		Key:        MsgInvalidRequest,
		Message:    "invalid request",
		Cause:      cause,
	}
}

// NewBodyTooLargeError creates a 413 RequestError.
func NewBodyTooLargeError(limit int64) *RequestError {
	return &RequestError{
		StatusCode: http.StatusRequestEntityTooLarge,
		Key:        MsgBodyTooLarge,
		Message:    fmt.Sprintf("%s (limit %d bytes)", ErrTextBodyTooLarge, limit),
	}
}

// HandleError converts an error raised inside the relay into a Reply. Request
// errors keep their status; anything else becomes a 500.
func HandleError(err error, msgs *Messages) Reply {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return errorReply(reqErr.StatusCode, OutcomeInvalidRequest, msgs.Get(reqErr.Key), reqErr.Error())
	}

	return errorReply(http.StatusInternalServerError, OutcomeInternalError, msgs.Get(MsgInternalError), ErrTextInternal)
}

// NotConfiguredReply is the answer to every chat request while no upstream
// URL is configured.
func NotConfiguredReply(msgs *Messages) Reply {
	return errorReply(http.StatusServiceUnavailable, OutcomeNotConfigured, msgs.Get(MsgNotConfigured), ErrTextNotConfigured)
}

// RateLimitedReply is the answer to a request rejected by the rate limiter.
func RateLimitedReply(msgs *Messages) Reply {
	return errorReply(http.StatusTooManyRequests, OutcomeRateLimited, msgs.Get(MsgRateLimited), ErrTextRateLimited)
}

// NotFoundReply is the answer for unknown routes.
func NotFoundReply(msgs *Messages) Reply {
	return errorReply(http.StatusNotFound, OutcomeNotFound, msgs.Get(MsgNotFound), ErrTextNotFound)
}

// MethodNotAllowedReply is the answer for known routes hit with the wrong
// method.
func MethodNotAllowedReply(msgs *Messages) Reply {
	return errorReply(http.StatusMethodNotAllowed, OutcomeNotFound, msgs.Get(MsgMethodNotAllowed), ErrTextMethodNotAllowed)
}

func errorReply(status int, outcome Outcome, aiMessage, errText string) Reply {
	return Reply{
		StatusCode: status,
		Outcome:    outcome,
		Body:       mustMarshal(types.NewErrorResponse(aiMessage, errText)),
	}
}
