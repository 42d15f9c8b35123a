package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"estatechat/chatrelay/pkg/cli"
	"estatechat/chatrelay/pkg/config"
	"estatechat/chatrelay/pkg/server"
	"estatechat/chatrelay/pkg/telemetry/health"
	"estatechat/chatrelay/pkg/telemetry/logging"
	"estatechat/chatrelay/pkg/telemetry/metrics"
)

var serveFlags struct {
	port     int
	logLevel string
	dryRun   bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat relay server",
	Long: `Start the chat relay server with the specified configuration.

The server exposes POST /api/chat, GET /health and GET /version, and
optionally /metrics. A missing TARGET_BACKEND_URL is not fatal: chat requests
are answered with 503 until the relay is configured.

Examples:
  # Start with environment configuration
  TARGET_BACKEND_URL=http://backend:8000 chatrelay serve

  # Start with a config file
  chatrelay serve --config /etc/chatrelay/config.yaml

  # Override the port
  chatrelay serve --port 8080

  # Validate config without starting server
  chatrelay serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 0, "override listen port")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
	if serveFlags.port != 0 {
		cfg.Server.Port = serveFlags.port
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	} else if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return cli.WrapConfigError("invalid flag override", err)
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
	if err != nil {
		return cli.WrapConfigError("failed to initialize logging", err)
	}
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	for _, warning := range cfg.Warnings() {
		slog.Warn(warning)
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	return serve(ctx, cfg, cmd.OutOrStdout())
}

// serve runs the relay until ctx is canceled.
func serve(ctx context.Context, cfg *config.Config, out io.Writer) error {
	client := newUpstreamClient(cfg)
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	srv, err := server.NewServer(cfg, server.Options{
		Upstream: client,
		Metrics:  collector,
		Version:  versionInfo(),
	})
	if err != nil {
		return cli.NewCommandError("serve", err)
	}

	watchdog := health.NewWatchdog(client, collector, cfg.Telemetry.Watchdog.Schedule)
	if err := watchdog.Start(ctx); err != nil {
		return cli.WrapConfigError("failed to start watchdog", err)
	}
	defer watchdog.Stop()

	printBanner(out, cfg)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

func printBanner(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "Chatrelay v%s\n", Version)
	if cfgFile != "" {
		fmt.Fprintf(out, "Configuration file: %s\n", cfgFile)
	}
	if cfg.Relay.Configured() {
		fmt.Fprintf(out, "✓ Upstream: %s\n", cfg.Relay.TargetBackendURL)
	} else {
		fmt.Fprintf(out, "✗ Upstream not configured, chat requests will return 503\n")
	}
	fmt.Fprintf(out, "✓ Listening on %s\n", cfg.Server.Address())
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: %s\n", cfg.Telemetry.Metrics.Path)
	}
	if cfg.Telemetry.Watchdog.Schedule != "" {
		fmt.Fprintf(out, "✓ Upstream watchdog: %s\n", cfg.Telemetry.Watchdog.Schedule)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")
}
