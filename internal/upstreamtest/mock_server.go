// Package upstreamtest provides a scriptable fake chat backend for tests.
package upstreamtest

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer is a fake upstream backend. Responses are configured per path;
// unconfigured paths answer 404.
type MockServer struct {
	server    *httptest.Server
	responses map[string]Response
	requests  []RecordedRequest
	mu        sync.Mutex
}

// Response defines how the mock answers a path.
type Response struct {
	StatusCode int

	// Body is written as-is when it is a string or []byte, JSON-encoded
	// otherwise.
	Body interface{}

	Headers map[string]string

	// Delay is applied before answering. The wait ends early when the client
	// goes away.
	Delay time.Duration

	// Hang blocks until the client gives up.
	Hang bool

	// DropConnection closes the TCP connection without writing a response.
	DropConnection bool

	// TruncateBody announces a larger Content-Length than it writes, then
	// closes the connection.
	TruncateBody bool
}

// RecordedRequest captures what the mock received.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// NewMockServer starts a mock upstream.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]Response),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close shuts the mock server down.
func (ms *MockServer) Close() {
	ms.server.CloseClientConnections()
	ms.server.Close()
}

// SetResponse sets the response for a path.
func (ms *MockServer) SetResponse(path string, response Response) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responses[path] = response
}

// RequestCount returns the number of requests received on any path.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.requests)
}

// Requests returns a copy of every request received so far.
func (ms *MockServer) Requests() []RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]RecordedRequest, len(ms.requests))
	copy(out, ms.requests)
	return out
}

// LastRequest returns the most recent request and false when none arrived.
func (ms *MockServer) LastRequest() (RecordedRequest, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if len(ms.requests) == 0 {
		return RecordedRequest{}, false
	}
	return ms.requests[len(ms.requests)-1], true
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Hang {
		<-r.Context().Done()
		return
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	if response.DropConnection {
		closeConnection(w)
		return
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	payload := encodeBody(response.Body)

	if response.TruncateBody {
		w.Header().Set("Content-Length", "1048576")
		w.WriteHeader(statusOrOK(response.StatusCode))
		_, _ = w.Write(payload)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		closeConnection(w)
		return
	}

	w.WriteHeader(statusOrOK(response.StatusCode))
	_, _ = w.Write(payload)
}

func encodeBody(body interface{}) []byte {
	switch v := body.(type) {
	case nil:
		return nil
	case string:
		return []byte(v)
	case []byte:
		return v
	default:
		data, _ := json.Marshal(v)
		return data
	}
}

func statusOrOK(code int) int {
	if code == 0 {
		return http.StatusOK
	}
	return code
}

func closeConnection(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("upstreamtest: response writer does not support hijacking")
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		return
	}
	_ = conn.Close()
}

// RefusedURL returns a base URL on which nothing is listening, so every
// connection attempt is refused.
func RefusedURL() string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic("upstreamtest: cannot reserve a port: " + err.Error())
	}
	addr := l.Addr().String()
	_ = l.Close()
	return "http://" + addr
}
