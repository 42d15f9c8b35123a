package main

import (
	"bytes"
	"log/slog"
	"testing"
)

// clearEnv blanks the variables the relay reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"TARGET_BACKEND_URL", "PORT", "CHATRELAY_HOST", "CHATRELAY_LOCALE",
		"CHATRELAY_LOG_LEVEL", "CHATRELAY_LOG_FORMAT", "CHATRELAY_LOG_FILE",
		"CHATRELAY_METRICS_ENABLED", "CHATRELAY_WATCHDOG_SCHEDULE",
	} {
		t.Setenv(name, "")
	}
}

// executeCommand runs the root command with args and restores global flag
// state afterwards.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	previousLogger := slog.Default()
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		cfgFile = ""
		verbose = false
		serveFlags.port = 0
		serveFlags.logLevel = ""
		serveFlags.dryRun = false
		probeFlags.output = "text"
		probeFlags.url = ""
		versionOutput = "text"
		slog.SetDefault(previousLogger)
	})

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := map[string]bool{"serve": false, "probe": false, "version": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
