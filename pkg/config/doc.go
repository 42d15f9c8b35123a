// Package config provides configuration management for the chat relay.
//
// The relay reads its settings once at startup and never changes them while
// serving. A *Config is built by Load and passed explicitly to the server,
// handlers and upstream client; there is no package-level configuration.
//
// # Configuration Loading
//
//	cfg, err := config.Load("")            // defaults + .env + environment
//	cfg, err := config.Load("relay.yaml")  // defaults + file + .env + environment
//
// # Environment Variables
//
// The two deployment variables keep their platform names:
//
//   - TARGET_BACKEND_URL sets relay.target_backend_url
//   - PORT sets server.port
//
// All other settings use the CHATRELAY_ prefix, for example
// CHATRELAY_CHAT_TIMEOUT, CHATRELAY_LOCALE or CHATRELAY_LOG_LEVEL.
// Environment variables always take precedence over file-based configuration.
// A .env file in the working directory is loaded first when present; it never
// overrides variables already set in the process environment.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file, when one is given
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Missing Upstream
//
// An empty target backend URL is not a validation error. The relay starts,
// reports "not_configured" on /health and answers every chat request with a
// configuration error. Warnings lists such non-fatal conditions so the caller
// can log them at startup.
package config
