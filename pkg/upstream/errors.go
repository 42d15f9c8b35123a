package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// SendError reports that a request could not be built or transmitted.
// Nothing reached the upstream.
type SendError struct {
	// Op names the step that failed ("build request", "resolve host", "send").
	Op string

	// URL is the target URL as configured, which may be malformed.
	URL string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *SendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *SendError) Unwrap() error {
	return e.Cause
}

// NoResponseError reports that a request was sent but no complete response
// was received.
type NoResponseError struct {
	// URL is the target URL.
	URL string

	// Timeout is set when the attempt was abandoned because its deadline
	// expired.
	Timeout bool

	// Elapsed is how long the attempt ran before giving up.
	Elapsed time.Duration

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *NoResponseError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("no response from %s after %s: %v", e.URL, e.Elapsed.Round(time.Millisecond), e.Cause)
	}
	return fmt.Sprintf("no response from %s: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *NoResponseError) Unwrap() error {
	return e.Cause
}

// classifyTransportError turns an error returned by http.Client.Do into a
// SendError or NoResponseError.
func classifyTransportError(target string, err error, elapsed time.Duration) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &SendError{Op: "resolve host", URL: target, Cause: err}
	}

	return &NoResponseError{
		URL:     target,
		Timeout: isTimeout(err),
		Elapsed: elapsed,
		Cause:   err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
