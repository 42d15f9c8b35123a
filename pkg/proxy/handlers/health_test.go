package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estatechat/chatrelay/internal/upstreamtest"
	"estatechat/chatrelay/pkg/proxy/types"
	"estatechat/chatrelay/pkg/upstream"
)

func getHealth(t *testing.T, handler http.Handler) types.HealthStatus {
	t.Helper()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var status types.HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if status.Status != types.ProxyHealthy {
		t.Errorf("status = %q, want %q", status.Status, types.ProxyHealthy)
	}
	return status
}

func TestHealthHandler(t *testing.T) {
	mock := upstreamtest.NewMockServer()
	defer mock.Close()

	rec := &recorder{}
	handler := NewHealthHandler(newClient(mock.URL(), time.Second), rec)

	tests := []struct {
		name     string
		response upstreamtest.Response
		want     string
	}{
		{name: "healthy", response: upstreamtest.Response{Body: `{"status":"healthy"}`}, want: "healthy"},
		{name: "status echoed", response: upstreamtest.Response{Body: `{"status":"maintenance"}`}, want: "maintenance"},
		{name: "server error", response: upstreamtest.Response{StatusCode: http.StatusInternalServerError}, want: "unexpected_response_500"},
		{name: "no status field", response: upstreamtest.Response{Body: `{}`}, want: "unexpected_response_200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.SetResponse(upstream.HealthPath, tt.response)

			if got := getHealth(t, handler).BackendStatus; got != tt.want {
				t.Errorf("backend_status = %q, want %q", got, tt.want)
			}
		})
	}

	if len(rec.probes) != len(tests) {
		t.Errorf("recorded probes = %d, want %d", len(rec.probes), len(tests))
	}
}

func TestHealthHandler_NotConfigured(t *testing.T) {
	handler := NewHealthHandler(newClient("", time.Second), nil)

	if got := getHealth(t, handler).BackendStatus; got != upstream.StatusNotConfigured {
		t.Errorf("backend_status = %q, want %q", got, upstream.StatusNotConfigured)
	}
}

func TestHealthHandler_UnreachableIsStable(t *testing.T) {
	handler := NewHealthHandler(newClient(upstreamtest.RefusedURL(), time.Second), nil)

	for i := 0; i < 5; i++ {
		if got := getHealth(t, handler).BackendStatus; got != upstream.StatusUnreachable {
			t.Errorf("call %d: backend_status = %q, want %q", i, got, upstream.StatusUnreachable)
		}
	}
}

func TestHealthHandler_RecoversWithUpstream(t *testing.T) {
	mock := upstreamtest.NewMockServer()
	defer mock.Close()

	handler := NewHealthHandler(newClient(mock.URL(), time.Second), nil)

	mock.SetResponse(upstream.HealthPath, upstreamtest.Response{StatusCode: http.StatusServiceUnavailable})
	if got := getHealth(t, handler).BackendStatus; got != "unexpected_response_503" {
		t.Errorf("backend_status = %q, want unexpected_response_503", got)
	}

	mock.SetResponse(upstream.HealthPath, upstreamtest.Response{Body: `{"status":"healthy"}`})
	if got := getHealth(t, handler).BackendStatus; got != "healthy" {
		t.Errorf("backend_status = %q, want healthy (no caching)", got)
	}
}
