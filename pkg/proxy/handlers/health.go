package handlers

import (
	"log/slog"
	"net/http"

	"estatechat/chatrelay/pkg/proxy"
	"estatechat/chatrelay/pkg/proxy/types"
)

// HealthHandler serves GET /health. It always answers 200 with the relay's
// own status and the upstream status observed by a fresh probe.
type HealthHandler struct {
	upstream Upstream
	metrics  Recorder
}

// NewHealthHandler creates a health handler. metrics may be nil.
func NewHealthHandler(up Upstream, metrics Recorder) *HealthHandler {
	return &HealthHandler{
		upstream: up,
		metrics:  recorderOrNop(metrics),
	}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result := h.upstream.Probe(ctx)
	h.metrics.RecordHealthProbe(result)

	if result.Healthy() {
		slog.DebugContext(ctx, "upstream health probe",
			"backend_status", result.BackendStatus,
			"latency_ms", result.Latency.Milliseconds(),
		)
	} else {
		slog.WarnContext(ctx, "upstream health probe",
			"backend_status", result.BackendStatus,
			"status_code", result.StatusCode,
			"error", result.Err,
		)
	}

	response := types.HealthStatus{
		Status:        types.ProxyHealthy,
		BackendStatus: result.BackendStatus,
	}
	if err := proxy.WriteJSONResponse(w, http.StatusOK, response); err != nil {
		slog.ErrorContext(ctx, "failed to write health response", "error", err)
	}
}
