package handlers

import (
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"estatechat/chatrelay/pkg/proxy"
	"estatechat/chatrelay/pkg/proxy/middleware"
	"estatechat/chatrelay/pkg/upstream"
)

// ChatHandler relays POST /api/chat to the upstream backend.
type ChatHandler struct {
	upstream     Upstream
	messages     *proxy.Messages
	maxBodyBytes int64
	metrics      Recorder
}

// NewChatHandler creates a chat handler. metrics may be nil.
func NewChatHandler(up Upstream, msgs *proxy.Messages, maxBodyBytes int64, metrics Recorder) *ChatHandler {
	return &ChatHandler{
		upstream:     up,
		messages:     msgs,
		maxBodyBytes: maxBodyBytes,
		metrics:      recorderOrNop(metrics),
	}
}

// ServeHTTP handles one chat request:
//
//  1. answer 503 without reading the body when no upstream is configured
//  2. read and validate the body (400, or 413 when over the size limit)
//  3. forward the raw body upstream in a single attempt
//  4. map the tagged result to exactly one client response
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	if !h.upstream.Configured() {
		slog.ErrorContext(ctx, "chat request rejected: upstream URL is not configured")
		h.finish(w, r, proxy.NotConfiguredReply(h.messages), startTime)
		return
	}

	raw, chatReq, err := proxy.ReadChatRequest(r, h.maxBodyBytes)
	if err != nil {
		slog.WarnContext(ctx, "invalid chat request", "error", err)
		h.finish(w, r, proxy.HandleError(err, h.messages), startTime)
		return
	}

	attrs := []any{"body_bytes", len(raw)}
	if text, ok := chatReq.Text(); ok {
		attrs = append(attrs, "message_chars", utf8.RuneCountInString(text))
	}
	slog.InfoContext(ctx, "chat request received", attrs...)

	result := h.upstream.Forward(ctx, raw, middleware.GetRequestID(ctx))
	h.metrics.RecordUpstreamCall(result.Kind, result.Latency)
	logResult(r, result)

	h.finish(w, r, proxy.MapResult(result, h.messages), startTime)
}

func (h *ChatHandler) finish(w http.ResponseWriter, r *http.Request, reply proxy.Reply, startTime time.Time) {
	if err := proxy.WriteReply(w, reply); err != nil {
		slog.ErrorContext(r.Context(), "failed to write chat response", "error", err)
	}

	h.metrics.RecordChatRequest(string(reply.Outcome), reply.StatusCode, time.Since(startTime))
}

func logResult(r *http.Request, result upstream.Result) {
	ctx := r.Context()

	switch result.Kind {
	case upstream.KindUpstreamResponse:
		level := slog.LevelInfo
		if !result.Success() {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "upstream responded",
			"status", result.StatusCode,
			"body_bytes", len(result.Body),
			"upstream_latency_ms", result.Latency.Milliseconds(),
		)
	case upstream.KindNoResponse:
		slog.ErrorContext(ctx, "no response from upstream",
			"error", result.Err,
			"upstream_latency_ms", result.Latency.Milliseconds(),
		)
	case upstream.KindSendError:
		slog.ErrorContext(ctx, "failed to send request upstream",
			"error", result.Err,
		)
	default:
		slog.ErrorContext(ctx, "unclassified upstream result", "kind", result.Kind.String())
	}
}
