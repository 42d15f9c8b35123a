package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// SupportedLocales lists the languages available for user-facing messages.
var SupportedLocales = []string{"fr", "en"}

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.port").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
//
// The upstream URL is deliberately not validated here: a missing or
// malformed URL is reported per request, see Warnings.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateRelay(&cfg.Relay)...)
	errs = append(errs, validateRateLimit(&cfg.RateLimit)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, FieldError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "read timeout must be positive"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "write timeout must be positive"})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.idle_timeout", Message: "idle timeout must be positive"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_header_bytes", Message: "max header bytes must be non-negative"})
	}

	return errs
}

func validateRelay(cfg *RelayConfig) []FieldError {
	var errs []FieldError

	if cfg.ChatTimeout <= 0 {
		errs = append(errs, FieldError{Field: "relay.chat_timeout", Message: "chat timeout must be positive"})
	}
	if cfg.HealthTimeout <= 0 {
		errs = append(errs, FieldError{Field: "relay.health_timeout", Message: "health timeout must be positive"})
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, FieldError{Field: "relay.max_body_bytes", Message: "max body bytes must be positive"})
	}
	if !isSupportedLocale(cfg.Locale) {
		errs = append(errs, FieldError{
			Field:   "relay.locale",
			Message: fmt.Sprintf("unsupported locale %q (supported: %s)", cfg.Locale, strings.Join(SupportedLocales, ", ")),
		})
	}

	return errs
}

func validateRateLimit(cfg *RateLimitConfig) []FieldError {
	var errs []FieldError

	if cfg.RequestsPerSecond < 0 {
		errs = append(errs, FieldError{Field: "rate_limit.requests_per_second", Message: "requests per second must be non-negative"})
	}
	if cfg.Enabled() && cfg.Burst < 1 {
		errs = append(errs, FieldError{Field: "rate_limit.burst", Message: "burst must be at least 1 when rate limiting is enabled"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	if cfg.Watchdog.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Watchdog.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.watchdog.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Watchdog.Schedule, err),
			})
		}
	}

	return errs
}

// Warnings returns non-fatal configuration problems that should be logged at
// startup. The relay still serves requests when warnings are present.
func (c *Config) Warnings() []string {
	var warnings []string

	if !c.Relay.Configured() {
		warnings = append(warnings, EnvTargetBackendURL+" is not set; chat requests will fail with a configuration error")
	} else if u, err := url.Parse(c.Relay.TargetBackendURL); err != nil {
		warnings = append(warnings, fmt.Sprintf("%s %q is not a valid URL: %v", EnvTargetBackendURL, c.Relay.TargetBackendURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		warnings = append(warnings, fmt.Sprintf("%s %q must use http or https", EnvTargetBackendURL, c.Relay.TargetBackendURL))
	}

	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Relay.ChatTimeout {
		warnings = append(warnings, fmt.Sprintf(
			"server write timeout %s does not exceed chat timeout %s; gateway timeout responses may be cut off",
			c.Server.WriteTimeout, c.Relay.ChatTimeout))
	}

	return warnings
}

func isSupportedLocale(locale string) bool {
	for _, l := range SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}
