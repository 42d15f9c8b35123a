// Package telemetry groups the relay's observability packages.
//
//   - logging: slog logger with request ID injection and rotated file output
//   - metrics: Prometheus collector and exposition handler
//   - health: version endpoint and scheduled upstream watchdog
package telemetry
