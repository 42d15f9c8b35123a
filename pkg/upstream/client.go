package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Upstream paths, appended to the configured base URL.
const (
	ChatPath   = "/api/chat"
	HealthPath = "/health"

	requestIDHeader = "X-Request-ID"
)

// Config contains the settings for a Client.
type Config struct {
	// BaseURL is the upstream base URL without a trailing slash. Empty means
	// the relay is not configured.
	BaseURL string

	// ChatTimeout bounds Forward, including reading the response body.
	ChatTimeout time.Duration

	// HealthTimeout bounds Probe.
	HealthTimeout time.Duration

	// Connection pool settings. Zero values use the defaults below.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// Transport overrides the pooled transport. Used by tests.
	Transport http.RoundTripper
}

// Client performs outbound calls to the upstream chat backend.
// It is safe for concurrent use and holds no per-request state.
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates a client with a pooled HTTP transport.
func NewClient(cfg Config) *Client {
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = 10
	}
	if cfg.IdleConnTimeout == 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,
			ForceAttemptHTTP2:   true,
		}
	}

	// Deadlines come from the per-call context, not from http.Client.Timeout,
	// so that expiry surfaces as context.DeadlineExceeded.
	return &Client{
		config: cfg,
		client: &http.Client{Transport: transport},
	}
}

// Configured reports whether an upstream URL is set.
func (c *Client) Configured() bool {
	return c.config.BaseURL != ""
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Forward posts body to the upstream chat endpoint and reports what happened.
// The body is sent unmodified. requestID, when non-empty, is propagated in
// the X-Request-ID header. Forward makes a single attempt and never retries.
//
// The caller must check Configured first; Forward on an unconfigured client
// returns a KindSendError result.
func (c *Client) Forward(ctx context.Context, body []byte, requestID string) Result {
	start := time.Now()
	target := c.config.BaseURL + ChatPath

	ctx, cancel := context.WithTimeout(ctx, c.config.ChatTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, target, body)
	if err != nil {
		return Result{Kind: KindSendError, Err: err, Latency: time.Since(start)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}

	slog.DebugContext(ctx, "sending request upstream",
		"method", req.Method,
		"url", target,
		"body_bytes", len(body),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		err = classifyTransportError(target, err, elapsed)
		return Result{Kind: kindOf(err), Err: err, Latency: elapsed}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// Headers arrived but the body did not: the answer is incomplete.
		elapsed := time.Since(start)
		return Result{
			Kind: KindNoResponse,
			Err: &NoResponseError{
				URL:     target,
				Timeout: isTimeout(err),
				Elapsed: elapsed,
				Cause:   fmt.Errorf("reading response body: %w", err),
			},
			Latency: elapsed,
		}
	}

	return Result{
		Kind:       KindUpstreamResponse,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		Latency:    time.Since(start),
	}
}

// Probe queries the upstream health endpoint. It never returns an error;
// every outcome is folded into the backend status:
//
//   - no upstream configured: "not_configured", no network call is made
//   - 2xx with a JSON object holding a non-empty string "status": that status
//   - any other HTTP response: "unexpected_response_<code>"
//   - no response: "unreachable"
func (c *Client) Probe(ctx context.Context) HealthResult {
	if !c.Configured() {
		return HealthResult{BackendStatus: StatusNotConfigured}
	}

	start := time.Now()
	target := c.config.BaseURL + HealthPath

	ctx, cancel := context.WithTimeout(ctx, c.config.HealthTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return HealthResult{BackendStatus: StatusUnreachable, Err: err, Latency: time.Since(start)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		return HealthResult{
			BackendStatus: StatusUnreachable,
			Err:           classifyTransportError(target, err, elapsed),
			Latency:       elapsed,
		}
	}
	defer resp.Body.Close()

	result := HealthResult{
		BackendStatus: "unexpected_response_" + strconv.Itoa(resp.StatusCode),
		Reachable:     true,
		StatusCode:    resp.StatusCode,
	}

	// A body that cannot be read still counts as an HTTP answer.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if status, ok := reportedStatus(body); ok {
			result.BackendStatus = status
			result.Reported = true
		}
	}
	result.Latency = time.Since(start)

	return result
}

// newRequest validates the target URL and builds the request. Any failure is
// a SendError since nothing has been transmitted yet.
func (c *Client) newRequest(ctx context.Context, method, target string, body []byte) (*http.Request, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, &SendError{Op: "build request", URL: target, Cause: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &SendError{Op: "build request", URL: target, Cause: fmt.Errorf("unsupported protocol scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return nil, &SendError{Op: "build request", URL: target, Cause: errors.New("missing host")}
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, &SendError{Op: "build request", URL: target, Cause: err}
	}
	return req, nil
}

// reportedStatus extracts a non-empty string "status" field from a JSON
// object.
func reportedStatus(body []byte) (string, bool) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	raw, ok := payload["status"]
	if !ok {
		return "", false
	}
	var status string
	if err := json.Unmarshal(raw, &status); err != nil || status == "" {
		return "", false
	}
	return status, true
}

func kindOf(err error) Kind {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return KindSendError
	}
	return KindNoResponse
}
