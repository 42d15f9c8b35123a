// Package server wires the relay's handlers and middleware into a chi
// router and manages the HTTP server lifecycle.
//
// # Routes
//
//   - POST /api/chat: relay a chat message upstream (rate limited)
//   - GET /health: relay health plus a live upstream probe, always 200
//   - GET /version: build information
//   - GET /metrics: Prometheus exposition, when metrics are enabled
//
// Unknown routes answer 404 and known routes hit with the wrong method
// answer 405, both with the relay's {"aiMessage", "error"} body.
//
// # Usage
//
//	client := upstream.NewClient(upstream.Config{BaseURL: cfg.Relay.TargetBackendURL})
//	srv, err := server.NewServer(cfg, server.Options{Upstream: client})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx) // returns after ctx is canceled and shutdown completes
//
// # Graceful Shutdown
//
// Canceling the context passed to Start stops accepting new connections and
// waits up to the configured shutdown timeout for in-flight requests. A chat
// request waiting on the upstream is bounded by the chat timeout, so
// shutdown timeouts above it let every request finish.
package server
