package handlers

import (
	"context"
	"time"

	"estatechat/chatrelay/pkg/upstream"
)

// Upstream is the outbound side used by the handlers. *upstream.Client
// implements it.
type Upstream interface {
	Configured() bool
	Forward(ctx context.Context, body []byte, requestID string) upstream.Result
	Probe(ctx context.Context) upstream.HealthResult
}

// Recorder receives per-request measurements. *metrics.Collector implements
// it; a nil Recorder records nothing.
type Recorder interface {
	RecordChatRequest(outcome string, statusCode int, duration time.Duration)
	RecordUpstreamCall(kind upstream.Kind, latency time.Duration)
	RecordHealthProbe(result upstream.HealthResult)
}

type nopRecorder struct{}

func (nopRecorder) RecordChatRequest(string, int, time.Duration)    {}
func (nopRecorder) RecordUpstreamCall(upstream.Kind, time.Duration) {}
func (nopRecorder) RecordHealthProbe(upstream.HealthResult)         {}

func recorderOrNop(rec Recorder) Recorder {
	if rec == nil {
		return nopRecorder{}
	}
	return rec
}
