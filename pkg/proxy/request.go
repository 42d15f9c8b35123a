package proxy

import (
	"fmt"
	"io"
	"net/http"

	"estatechat/chatrelay/pkg/proxy/types"
)

// RequestIDHeader is the HTTP header for request ID propagation.
const RequestIDHeader = "X-Request-ID"

// ReadChatRequest reads and validates a chat request body. It returns the raw
// bytes, which are forwarded upstream unchanged, and the decoded request.
//
// The body is limited to maxBytes. Larger bodies produce a 413 RequestError;
// malformed ones a 400 RequestError.
func ReadChatRequest(r *http.Request, maxBytes int64) ([]byte, *types.ChatRequest, error) {
	if r.Body == nil {
		return nil, nil, NewInvalidRequestError(fmt.Errorf("empty request body"))
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, nil, NewInvalidRequestError(fmt.Errorf("failed to read request body: %w", err))
	}
	if int64(len(body)) > maxBytes {
		return nil, nil, NewBodyTooLargeError(maxBytes)
	}

	req, err := types.DecodeChatRequest(body)
	if err != nil {
		return nil, nil, NewInvalidRequestError(err)
	}

	return body, req, nil
}
