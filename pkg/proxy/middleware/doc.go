// Package middleware provides the HTTP middleware wrapped around the relay's
// routes.
//
// # Chain
//
// The server applies middleware outermost first:
//
//	RequestIDMiddleware reads or generates X-Request-ID
//	LoggingMiddleware   one log line per request, level by status
//	RecoveryMiddleware  turns panics into the uniform 500 body
//	CORSMiddleware      answers preflights, adds CORS headers
//
// RequestID runs first so every log line carries the ID. Logging wraps
// Recovery so a recovered panic is logged with its 500.
//
// RateLimitMiddleware is applied to the chat route only, so /health keeps
// answering 200 under load.
//
// Every error written by this package uses the relay's JSON error shape
// {"aiMessage": ..., "error": ...} so clients parse a single format.
package middleware
