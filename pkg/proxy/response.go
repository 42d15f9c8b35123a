package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// WriteReply writes a decided Reply as a JSON response. Statuses that
// forbid a body (204, 304) are written without one.
func WriteReply(w http.ResponseWriter, reply Reply) error {
	if reply.StatusCode == http.StatusNoContent || reply.StatusCode == http.StatusNotModified {
		w.WriteHeader(reply.StatusCode)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(reply.Body)))
	w.WriteHeader(reply.StatusCode)

	if _, err := w.Write(reply.Body); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}
