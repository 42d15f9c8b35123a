package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"estatechat/chatrelay/pkg/cli"
	"estatechat/chatrelay/pkg/config"
	"estatechat/chatrelay/pkg/upstream"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "chatrelay",
	Short: "Chatrelay - HTTP relay for the estate chat backend",
	Long: `Chatrelay sits between the estate chat web client and the chat backend.

It forwards chat requests unmodified, passes backend answers through and turns
every failure into a uniform JSON reply the client can display.

Configuration comes from an optional YAML file, a .env file in the working
directory and the environment (TARGET_BACKEND_URL, PORT, CHATRELAY_*).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig loads the configuration named by --config, falling back to the
// environment alone when the flag is empty.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, cli.WrapConfigError("failed to load config", err)
	}
	return cfg, nil
}

func newUpstreamClient(cfg *config.Config) *upstream.Client {
	return upstream.NewClient(upstream.Config{
		BaseURL:       cfg.Relay.TargetBackendURL,
		ChatTimeout:   cfg.Relay.ChatTimeout,
		HealthTimeout: cfg.Relay.HealthTimeout,
	})
}
