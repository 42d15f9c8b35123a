package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure for the chat relay.
type Config struct {
	// Server contains HTTP listener configuration including the port and
	// connection timeouts.
	Server ServerConfig `yaml:"server"`

	// Relay contains the upstream target and the limits applied to every
	// forwarded request.
	Relay RelayConfig `yaml:"relay"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// RateLimit contains optional per-client request rate limiting.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Telemetry contains logging, metrics and upstream watchdog settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP listener.
type ServerConfig struct {
	// Host is the interface to bind. Empty means all interfaces.
	Host string `yaml:"host"`

	// Port is the TCP port to listen on.
	// Default: 3000
	Port int `yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the chat timeout so that a 504 can still be
	// written after the upstream gives up.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RelayConfig contains configuration for forwarding chat traffic upstream.
type RelayConfig struct {
	// TargetBackendURL is the base URL of the upstream chat backend, without
	// a trailing path. Empty means the relay is not configured.
	TargetBackendURL string `yaml:"target_backend_url"`

	// ChatTimeout bounds a single forwarded chat request, including reading
	// the upstream response body.
	// Default: 15s
	ChatTimeout time.Duration `yaml:"chat_timeout"`

	// HealthTimeout bounds the upstream health probe.
	// Default: 5s
	HealthTimeout time.Duration `yaml:"health_timeout"`

	// MaxBodyBytes limits the size of an incoming chat request body.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// Locale selects the language of user-facing messages ("fr" or "en").
	// Default: "fr"
	Locale string `yaml:"locale"`
}

// Configured reports whether an upstream URL is set.
func (r RelayConfig) Configured() bool {
	return r.TargetBackendURL != ""
}

// CORSConfig contains Cross-Origin Resource Sharing configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are written.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists permitted origins. "*" permits every origin.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists methods advertised on preflight responses.
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists request headers advertised on preflight responses.
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders lists response headers readable by browsers.
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// RateLimitConfig contains per-client rate limiting configuration.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate allowed per client address.
	// Zero disables rate limiting.
	// Default: 0
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the number of requests a client may make at once.
	// Default: 10
	Burst int `yaml:"burst"`
}

// Enabled reports whether rate limiting is active.
func (r RateLimitConfig) Enabled() bool {
	return r.RequestsPerSecond > 0
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Watchdog contains scheduled upstream probing configuration.
	Watchdog WatchdogConfig `yaml:"watchdog"`
}

// LoggingConfig contains configuration for structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json" or "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	AddSource bool `yaml:"add_source"`

	// File, when set, receives a copy of every log line with size-based
	// rotation.
	File LogFileConfig `yaml:"file"`
}

// LogFileConfig configures rotated file output.
type LogFileConfig struct {
	// Path is the log file location. Empty disables file output.
	Path string `yaml:"path"`

	// MaxSizeMB is the size at which the file is rotated.
	// Default: 10
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep.
	// Default: 3
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays is the number of days to keep rotated files.
	// Default: 28
	MaxAgeDays int `yaml:"max_age_days"`

	// Compress gzips rotated files.
	// Default: true
	Compress bool `yaml:"compress"`
}

// MetricsConfig contains configuration for Prometheus metrics.
type MetricsConfig struct {
	// Enabled controls whether metrics are recorded and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path serving the Prometheus exposition.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "chatrelay"
	Namespace string `yaml:"namespace"`

	// LatencyBuckets are the upstream latency histogram buckets in seconds.
	LatencyBuckets []float64 `yaml:"latency_buckets"`
}

// WatchdogConfig contains configuration for the scheduled upstream probe.
type WatchdogConfig struct {
	// Schedule is a standard five-field cron expression. Empty disables the
	// watchdog.
	Schedule string `yaml:"schedule"`
}
