package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"testing"
	"time"

	"estatechat/chatrelay/pkg/upstream"
)

// scriptedProber returns the queued results in order, repeating the last.
type scriptedProber struct {
	mu      sync.Mutex
	results []upstream.HealthResult
	calls   int
}

func (p *scriptedProber) Probe(context.Context) upstream.HealthResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.calls
	if i >= len(p.results) {
		i = len(p.results) - 1
	}
	p.calls++
	return p.results[i]
}

func (p *scriptedProber) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type probeLog struct {
	mu      sync.Mutex
	results []upstream.HealthResult
}

func (l *probeLog) RecordHealthProbe(result upstream.HealthResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, result)
}

var (
	healthyResult     = upstream.HealthResult{BackendStatus: "healthy", Reachable: true, StatusCode: 200, Reported: true}
	unreachableResult = upstream.HealthResult{BackendStatus: upstream.StatusUnreachable, Err: errors.New("connection refused")}
)

func TestWatchdog_RunOnce(t *testing.T) {
	prober := &scriptedProber{results: []upstream.HealthResult{healthyResult, unreachableResult}}
	recorder := &probeLog{}
	w := NewWatchdog(prober, recorder, "")

	if _, _, ok := w.Last(); ok {
		t.Error("Last() ok = true before any probe")
	}

	if got := w.RunOnce(context.Background()); got.BackendStatus != "healthy" {
		t.Errorf("first probe = %q, want healthy", got.BackendStatus)
	}
	if got := w.RunOnce(context.Background()); got.BackendStatus != upstream.StatusUnreachable {
		t.Errorf("second probe = %q, want unreachable", got.BackendStatus)
	}

	last, at, ok := w.Last()
	if !ok || last.BackendStatus != upstream.StatusUnreachable {
		t.Errorf("Last() = %q, %v, want unreachable, true", last.BackendStatus, ok)
	}
	if at.IsZero() {
		t.Error("Last() time is zero")
	}
	if len(recorder.results) != 2 {
		t.Errorf("recorded %d probes, want 2", len(recorder.results))
	}
}

func TestWatchdog_NilRecorder(t *testing.T) {
	w := NewWatchdog(&scriptedProber{results: []upstream.HealthResult{healthyResult}}, nil, "")

	if got := w.RunOnce(context.Background()); !got.Healthy() {
		t.Errorf("RunOnce() = %+v, want healthy", got)
	}
}

func TestWatchdog_Start(t *testing.T) {
	t.Run("empty schedule is a no-op", func(t *testing.T) {
		w := NewWatchdog(&scriptedProber{results: []upstream.HealthResult{healthyResult}}, nil, "")

		if err := w.Start(context.Background()); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if w.IsRunning() {
			t.Error("IsRunning() = true, want false")
		}
		if w.NextRun() != nil {
			t.Error("NextRun() != nil for a disabled watchdog")
		}
	})

	t.Run("invalid schedule", func(t *testing.T) {
		w := NewWatchdog(&scriptedProber{results: []upstream.HealthResult{healthyResult}}, nil, "every minute")

		if err := w.Start(context.Background()); err == nil {
			t.Error("Start() error = nil, want invalid schedule error")
		}
	})

	t.Run("runs on schedule and stops with context", func(t *testing.T) {
		prober := &scriptedProber{results: []upstream.HealthResult{healthyResult}}
		w := NewWatchdog(prober, nil, "@every 1s")

		ctx, cancel := context.WithCancel(context.Background())
		if err := w.Start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if !w.IsRunning() {
			t.Fatal("IsRunning() = false after Start")
		}
		if next := w.NextRun(); next == nil || next.Before(time.Now().Add(-time.Second)) {
			t.Errorf("NextRun() = %v, want upcoming time", next)
		}
		if err := w.Start(ctx); err == nil {
			t.Error("second Start() error = nil, want already running")
		}

		deadline := time.Now().Add(5 * time.Second)
		for prober.Calls() == 0 && time.Now().Before(deadline) {
			time.Sleep(50 * time.Millisecond)
		}
		if prober.Calls() == 0 {
			t.Fatal("scheduled probe never ran")
		}

		cancel()
		deadline = time.Now().Add(5 * time.Second)
		for w.IsRunning() && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		if w.IsRunning() {
			t.Error("IsRunning() = true after context cancel")
		}
	})
}

func TestVersionHandler(t *testing.T) {
	handler := VersionHandler(NewVersionInfo("1.2.0", "abc123", "2026-03-02T00:00:00Z"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var info VersionInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if info.Version != "1.2.0" || info.Commit != "abc123" {
		t.Errorf("info = %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}

	head := httptest.NewRecorder()
	handler.ServeHTTP(head, httptest.NewRequest(http.MethodHead, "/version", nil))
	if head.Body.Len() != 0 {
		t.Errorf("HEAD body = %q, want empty", head.Body.String())
	}
}
