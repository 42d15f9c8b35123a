package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"estatechat/chatrelay/pkg/proxy"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and answers with
// the relay's uniform 500 error body in the configured locale. The panic is
// logged with its stack trace; no internal detail reaches the client.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the connection
// silently.
//
// Example usage:
//
//	handler = RecoveryMiddleware(proxy.MessagesFor("fr"))(handler)
func RecoveryMiddleware(msgs *proxy.Messages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				reply := proxy.HandleError(fmt.Errorf("panic: %v", rec), msgs)
				_ = proxy.WriteReply(w, reply)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
