package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvTargetBackendURL = "TARGET_BACKEND_URL"
	EnvPort             = "PORT"

	envPrefix = "CHATRELAY_"
)

// Load builds the relay configuration. It loads a .env file from the working
// directory when present, applies defaults, decodes the YAML file at path when
// path is non-empty, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := NewDefaultConfig()

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
		ApplyDefaults(cfg)
	}

	envErrs := applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		var verr ValidationError
		if errors.As(err, &verr) {
			verr.Errors = append(envErrs, verr.Errors...)
			return nil, verr
		}
		return nil, err
	}
	if len(envErrs) > 0 {
		return nil, ValidationError{Errors: envErrs}
	}

	return cfg, nil
}

// LoadFile reads a YAML configuration file without consulting the
// environment. It is used by tests and by tooling that inspects a file.
func LoadFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Values that cannot be parsed are reported as field errors
// and leave the previous value in place.
func applyEnvOverrides(cfg *Config) []FieldError {
	var errs []FieldError

	if val := os.Getenv(EnvTargetBackendURL); val != "" {
		cfg.Relay.TargetBackendURL = val
	}
	cfg.Relay.TargetBackendURL = normalizeBaseURL(cfg.Relay.TargetBackendURL)

	if val := os.Getenv(EnvPort); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = i
		} else {
			errs = append(errs, envError(EnvPort, val, "integer"))
		}
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{envPrefix + "CHAT_TIMEOUT", &cfg.Relay.ChatTimeout},
		{envPrefix + "HEALTH_TIMEOUT", &cfg.Relay.HealthTimeout},
		{envPrefix + "READ_TIMEOUT", &cfg.Server.ReadTimeout},
		{envPrefix + "WRITE_TIMEOUT", &cfg.Server.WriteTimeout},
		{envPrefix + "SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout},
	}
	for _, d := range durations {
		if val := os.Getenv(d.name); val != "" {
			if parsed, err := time.ParseDuration(val); err == nil {
				*d.dst = parsed
			} else {
				errs = append(errs, envError(d.name, val, "duration"))
			}
		}
	}

	if val := os.Getenv(envPrefix + "MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Relay.MaxBodyBytes = i
		} else {
			errs = append(errs, envError(envPrefix+"MAX_BODY_BYTES", val, "integer"))
		}
	}
	if val := os.Getenv(envPrefix + "LOCALE"); val != "" {
		cfg.Relay.Locale = strings.ToLower(val)
	}
	if val := os.Getenv(envPrefix + "HOST"); val != "" {
		cfg.Server.Host = val
	}

	// CORS overrides
	if val := os.Getenv(envPrefix + "CORS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.CORS.Enabled = b
		} else {
			errs = append(errs, envError(envPrefix+"CORS_ENABLED", val, "boolean"))
		}
	}
	if val := os.Getenv(envPrefix + "CORS_ALLOWED_ORIGINS"); val != "" {
		cfg.CORS.AllowedOrigins = splitList(val)
	}

	// Rate limit overrides
	if val := os.Getenv(envPrefix + "RATE_LIMIT_RPS"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.RateLimit.RequestsPerSecond = f
		} else {
			errs = append(errs, envError(envPrefix+"RATE_LIMIT_RPS", val, "number"))
		}
	}
	if val := os.Getenv(envPrefix + "RATE_LIMIT_BURST"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.RateLimit.Burst = i
		} else {
			errs = append(errs, envError(envPrefix+"RATE_LIMIT_BURST", val, "integer"))
		}
	}

	// Telemetry overrides
	if val := os.Getenv(envPrefix + "LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv(envPrefix + "LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv(envPrefix + "LOG_FILE"); val != "" {
		cfg.Telemetry.Logging.File.Path = val
	}
	if val := os.Getenv(envPrefix + "METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		} else {
			errs = append(errs, envError(envPrefix+"METRICS_ENABLED", val, "boolean"))
		}
	}
	if val := os.Getenv(envPrefix + "METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv(envPrefix + "WATCHDOG_SCHEDULE"); val != "" {
		cfg.Telemetry.Watchdog.Schedule = val
	}

	return errs
}

func envError(name, value, kind string) FieldError {
	return FieldError{
		Field:   "env." + name,
		Message: fmt.Sprintf("cannot parse %q as %s", value, kind),
	}
}

// normalizeBaseURL trims whitespace and trailing slashes so that paths can be
// appended with a single "/".
func normalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
