// Package logging builds the relay's structured logger on top of log/slog.
//
// # Overview
//
// New returns a Logger whose handler writes JSON or text records to stdout
// and, when a file path is configured, to a size-rotated log file. The
// handler adds the request ID stored in the context to every record logged
// through one of the *Context methods:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//	slog.SetDefault(logger.Slog())
//
//	ctx := logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "forwarding chat request") // carries request_id
//
// Message bodies exchanged with the upstream are never logged in full.
package logging
