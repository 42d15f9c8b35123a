/*
Package cli provides command-line helpers for the chatrelay command.

Output Formatting:

Commands that print results support text and JSON output:

	format, err := cli.ParseOutputFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, report); err != nil {
		return err
	}

Errors and Exit Codes:

ConfigError marks configuration problems and CommandError wraps failures of
a subcommand. ExitCode maps either to the process exit status, so scripts can
tell a bad configuration (2) from a runtime failure (1).

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
