package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"estatechat/chatrelay/pkg/proxy"
	"estatechat/chatrelay/pkg/proxy/types"
)

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		})

		wrapped := RecoveryMiddleware(proxy.MessagesFor("fr"))(handler)

		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}

		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		if body.AIMessage != proxy.MessagesFor("fr").Get(proxy.MsgInternalError) {
			t.Errorf("aiMessage = %q, want localized internal error", body.AIMessage)
		}
		if body.Error != proxy.ErrTextInternal {
			t.Errorf("error = %q, want %q", body.Error, proxy.ErrTextInternal)
		}
	})

	t.Run("uses configured locale", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(42)
		})

		w := httptest.NewRecorder()
		RecoveryMiddleware(proxy.MessagesFor("en"))(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		if body.AIMessage != proxy.MessagesFor("en").Get(proxy.MsgInternalError) {
			t.Errorf("aiMessage = %q, want english internal error", body.AIMessage)
		}
	})

	t.Run("passes through without panic", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})

		w := httptest.NewRecorder()
		RecoveryMiddleware(proxy.MessagesFor("fr"))(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Code != http.StatusAccepted {
			t.Errorf("status = %d, want %d", w.Code, http.StatusAccepted)
		}
	})

	t.Run("re-panics on ErrAbortHandler", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})

		defer func() {
			if rec := recover(); rec != http.ErrAbortHandler {
				t.Errorf("recover() = %v, want http.ErrAbortHandler", rec)
			}
		}()

		RecoveryMiddleware(proxy.MessagesFor("fr"))(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		t.Error("ServeHTTP returned, want panic")
	})
}
