package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"estatechat/chatrelay/internal/upstreamtest"
	"estatechat/chatrelay/pkg/cli"
	"estatechat/chatrelay/pkg/upstream"
)

func TestProbe(t *testing.T) {
	mock := upstreamtest.NewMockServer()
	defer mock.Close()

	tests := []struct {
		name        string
		baseURL     string
		response    upstreamtest.Response
		wantStatus  string
		wantHealthy bool
		wantCode    int
		wantErr     bool
	}{
		{
			name:        "healthy",
			baseURL:     mock.URL(),
			response:    upstreamtest.Response{Body: `{"status":"healthy"}`},
			wantStatus:  "healthy",
			wantHealthy: true,
			wantCode:    http.StatusOK,
		},
		{
			name:       "unexpected response",
			baseURL:    mock.URL(),
			response:   upstreamtest.Response{StatusCode: http.StatusServiceUnavailable},
			wantStatus: "unexpected_response_503",
			wantCode:   http.StatusServiceUnavailable,
		},
		{
			name:       "unreachable",
			baseURL:    upstreamtest.RefusedURL(),
			wantStatus: upstream.StatusUnreachable,
			wantErr:    true,
		},
		{
			name:       "not configured",
			baseURL:    "",
			wantStatus: upstream.StatusNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.SetResponse(upstream.HealthPath, tt.response)

			client := upstream.NewClient(upstream.Config{BaseURL: tt.baseURL, HealthTimeout: time.Second})
			report := probe(context.Background(), client)

			if report.BackendStatus != tt.wantStatus {
				t.Errorf("BackendStatus = %q, want %q", report.BackendStatus, tt.wantStatus)
			}
			if report.Healthy != tt.wantHealthy {
				t.Errorf("Healthy = %v, want %v", report.Healthy, tt.wantHealthy)
			}
			if report.StatusCode != tt.wantCode {
				t.Errorf("StatusCode = %d, want %d", report.StatusCode, tt.wantCode)
			}
			if (report.Error != "") != tt.wantErr {
				t.Errorf("Error = %q, wantErr %v", report.Error, tt.wantErr)
			}
		})
	}
}

func TestProbeReport_String(t *testing.T) {
	report := ProbeReport{BackendStatus: "not_configured", LatencyMS: 0}

	got := report.String()
	for _, want := range []string{"Upstream:       (not configured)", "Backend status: not_configured", "Healthy:        false"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Error:") {
		t.Errorf("String() has an Error line without an error:\n%s", got)
	}
}

func TestProbeCommand(t *testing.T) {
	mock := upstreamtest.NewMockServer()
	defer mock.Close()

	t.Run("healthy json", func(t *testing.T) {
		clearEnv(t)
		mock.SetResponse(upstream.HealthPath, upstreamtest.Response{Body: `{"status":"healthy"}`})

		out, err := executeCommand(t, "probe", "--url", mock.URL()+"/", "--output", "json")
		if err != nil {
			t.Fatalf("probe error = %v\n%s", err, out)
		}

		var report ProbeReport
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if report.Target != mock.URL() {
			t.Errorf("target = %q, want %q", report.Target, mock.URL())
		}
		if !report.Healthy {
			t.Errorf("healthy = false, want true")
		}
	})

	t.Run("unhealthy exits with failure", func(t *testing.T) {
		clearEnv(t)
		mock.SetResponse(upstream.HealthPath, upstreamtest.Response{StatusCode: http.StatusInternalServerError})

		out, err := executeCommand(t, "probe", "--url", mock.URL())
		if err == nil {
			t.Fatal("probe error = nil, want error for unhealthy backend")
		}
		var cmdErr *cli.CommandError
		if !errors.As(err, &cmdErr) {
			t.Errorf("error = %T, want *cli.CommandError", err)
		}
		if cli.ExitCode(err) != cli.ExitFailure {
			t.Errorf("ExitCode = %d, want %d", cli.ExitCode(err), cli.ExitFailure)
		}
		if !strings.Contains(out, "unexpected_response_500") {
			t.Errorf("output missing backend status:\n%s", out)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		clearEnv(t)

		_, err := executeCommand(t, "probe")
		if err == nil || !strings.Contains(err.Error(), upstream.StatusNotConfigured) {
			t.Errorf("probe error = %v, want not_configured failure", err)
		}
	})
}
