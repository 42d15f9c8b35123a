// Package health provides the relay's version endpoint and the upstream
// watchdog.
//
// The watchdog probes the upstream health endpoint on a cron schedule and
// feeds each result to the metrics recorder, so chatrelay_upstream_up stays
// current even when nobody calls /health:
//
//	w := health.NewWatchdog(client, collector, "*/1 * * * *")
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
//
// An empty schedule disables the watchdog.
package health
