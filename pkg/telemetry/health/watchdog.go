package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"estatechat/chatrelay/pkg/upstream"
)

// Prober checks the upstream. *upstream.Client implements it.
type Prober interface {
	Probe(ctx context.Context) upstream.HealthResult
}

// ProbeRecorder receives every probe result. *metrics.Collector implements it.
type ProbeRecorder interface {
	RecordHealthProbe(result upstream.HealthResult)
}

// Watchdog probes the upstream on a cron schedule.
type Watchdog struct {
	prober   Prober
	recorder ProbeRecorder
	schedule string

	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool

	last    upstream.HealthResult
	lastAt  time.Time
	hasLast bool
}

// NewWatchdog creates a watchdog. recorder may be nil.
func NewWatchdog(prober Prober, recorder ProbeRecorder, schedule string) *Watchdog {
	return &Watchdog{
		prober:   prober,
		recorder: recorder,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "health.watchdog"),
	}
}

// Start schedules the probe using a standard five-field cron expression:
//   - "* * * * *"     every minute
//   - "*/5 * * * *"   every five minutes
//   - "@every 30s"    every thirty seconds
//
// If the schedule is empty, the watchdog does nothing. The watchdog stops
// when ctx is canceled.
func (w *Watchdog) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.schedule == "" {
		w.logger.Info("watchdog schedule not configured, skipping")
		return nil
	}
	if w.running {
		return fmt.Errorf("watchdog is already running")
	}

	if _, err := cron.ParseStandard(w.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", w.schedule, err)
	}

	if _, err := w.cron.AddFunc(w.schedule, func() {
		w.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule upstream probe: %w", err)
	}

	w.cron.Start()
	w.running = true

	w.logger.Info("watchdog started", "schedule", w.schedule)

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}

// RunOnce probes the upstream immediately and records the result.
func (w *Watchdog) RunOnce(ctx context.Context) upstream.HealthResult {
	result := w.prober.Probe(ctx)

	if w.recorder != nil {
		w.recorder.RecordHealthProbe(result)
	}

	w.mu.Lock()
	previous, hadPrevious := w.last, w.hasLast
	w.last = result
	w.lastAt = time.Now()
	w.hasLast = true
	w.mu.Unlock()

	switch {
	case hadPrevious && previous.BackendStatus != result.BackendStatus:
		w.logger.Warn("upstream status changed",
			"from", previous.BackendStatus,
			"to", result.BackendStatus,
			"error", result.Err,
		)
	case result.Healthy():
		w.logger.Debug("upstream probe", "backend_status", result.BackendStatus, "latency_ms", result.Latency.Milliseconds())
	default:
		w.logger.Warn("upstream probe", "backend_status", result.BackendStatus, "error", result.Err)
	}

	return result
}

// Last returns the most recent probe result and when it was taken.
func (w *Watchdog) Last() (upstream.HealthResult, time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.last, w.lastAt, w.hasLast
}

// Stop stops the scheduler and waits for a running probe to complete.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	if w.cron == nil || !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	// RunOnce takes w.mu, so wait outside the lock.
	<-w.cron.Stop().Done()
	w.logger.Info("watchdog stopped")
}

// IsRunning returns true if the watchdog is scheduled.
func (w *Watchdog) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.running
}

// NextRun returns the next scheduled probe time.
func (w *Watchdog) NextRun() *time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	entries := w.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
