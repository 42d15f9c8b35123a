// Package server provides the chat relay's HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"estatechat/chatrelay/pkg/config"
	"estatechat/chatrelay/pkg/proxy"
	"estatechat/chatrelay/pkg/proxy/handlers"
	"estatechat/chatrelay/pkg/proxy/middleware"
	"estatechat/chatrelay/pkg/telemetry/health"
	"estatechat/chatrelay/pkg/telemetry/metrics"
)

// Route paths.
const (
	ChatRoute    = "/api/chat"
	HealthRoute  = "/health"
	VersionRoute = "/version"
)

// Options carries the collaborators a Server needs besides its config.
type Options struct {
	// Upstream is the outbound client. Required.
	Upstream handlers.Upstream

	// Metrics is optional. When nil or disabled no metrics route is mounted.
	Metrics *metrics.Collector

	// Version is served on /version.
	Version health.VersionInfo
}

// Server is the chat relay HTTP server.
type Server struct {
	config   *config.Config
	options  Options
	messages *proxy.Messages
	handler  http.Handler

	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server and builds its routes.
func NewServer(cfg *config.Config, opts Options) (*Server, error) {
	if opts.Upstream == nil {
		return nil, errors.New("server: upstream client is required")
	}

	msgs, err := proxy.NewMessages(cfg.Relay.Locale)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{
		config:   cfg,
		options:  opts,
		messages: msgs,
	}
	s.handler = s.setupRoutes()

	return s, nil
}

// Start listens on the configured address and serves until ctx is canceled
// or the server fails. Cancellation triggers a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	listener, err := net.Listen("tcp", s.config.Server.Address())
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.Address(), err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:        s.handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
		BaseContext:    func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("chat relay listening",
			"address", listener.Addr().String(),
			"upstream_configured", s.options.Upstream.Configured(),
			"locale", s.messages.Locale(),
		)

		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("chat relay stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain. Middleware
// runs outermost first: RealIP, RequestID, Logging, Recovery, CORS.
// Logging sits outside Recovery so a recovered panic is logged with its 500.
func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RecoveryMiddleware(s.messages))
	r.Use(middleware.CORSMiddleware(s.corsConfig()))

	r.NotFound(s.replyHandler(proxy.NotFoundReply(s.messages)))
	r.MethodNotAllowed(s.replyHandler(proxy.MethodNotAllowedReply(s.messages)))

	recorder := s.recorder()

	r.Method(http.MethodGet, HealthRoute, handlers.NewHealthHandler(s.options.Upstream, recorder))
	r.Method(http.MethodGet, VersionRoute, health.VersionHandler(s.options.Version))

	// Rate limiting covers the chat route only; /health must keep answering.
	r.With(middleware.RateLimitMiddleware(
		middleware.RateLimitConfig{
			RequestsPerSecond: s.config.RateLimit.RequestsPerSecond,
			Burst:             s.config.RateLimit.Burst,
		},
		s.messages,
		s.onRateLimited,
	)).Method(http.MethodPost, ChatRoute, handlers.NewChatHandler(
		s.options.Upstream,
		s.messages,
		s.config.Relay.MaxBodyBytes,
		recorder,
	))

	if s.metricsEnabled() {
		r.Method(http.MethodGet, s.config.Telemetry.Metrics.Path, s.options.Metrics.Handler())
	}

	return r
}

func (s *Server) replyHandler(reply proxy.Reply) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := proxy.WriteReply(w, reply); err != nil {
			slog.ErrorContext(r.Context(), "failed to write response", "error", err)
		}
	}
}

func (s *Server) onRateLimited(context.Context) {
	if s.metricsEnabled() {
		s.options.Metrics.RecordRateLimited()
		s.options.Metrics.RecordChatRequest(string(proxy.OutcomeRateLimited), http.StatusTooManyRequests, 0)
	}
}

// recorder returns the collector as a handlers.Recorder, or nil so the
// handlers skip recording. A typed nil pointer must not leak into the
// interface.
func (s *Server) recorder() handlers.Recorder {
	if !s.metricsEnabled() {
		return nil
	}
	return s.options.Metrics
}

func (s *Server) metricsEnabled() bool {
	return s.options.Metrics != nil && s.options.Metrics.Enabled()
}

// corsConfig converts config.CORSConfig to middleware.CORSConfig.
func (s *Server) corsConfig() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:        s.config.CORS.Enabled,
		AllowedOrigins: s.config.CORS.AllowedOrigins,
		AllowedMethods: s.config.CORS.AllowedMethods,
		AllowedHeaders: s.config.CORS.AllowedHeaders,
		ExposedHeaders: s.config.CORS.ExposedHeaders,
		MaxAge:         s.config.CORS.MaxAge,
	}
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the address the server listens on, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}
