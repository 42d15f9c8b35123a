package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"estatechat/chatrelay/pkg/cli"
	"estatechat/chatrelay/pkg/upstream"
)

var probeFlags struct {
	output string
	url    string
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check the upstream chat backend once",
	Long: `Query the upstream health endpoint once and print the result.

The command exits with status 1 when the backend is unreachable, answers with
an unexpected response or is not configured, which makes it usable as a
container health check.

Examples:
  # Probe the configured backend
  chatrelay probe

  # Probe another backend as JSON
  chatrelay probe --url http://localhost:8000 --output json`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringVarP(&probeFlags.output, "output", "o", "text", "output format (text, json)")
	probeCmd.Flags().StringVar(&probeFlags.url, "url", "", "override the upstream base URL")
}

// ProbeReport is the printed result of a probe.
type ProbeReport struct {
	Target        string `json:"target"`
	BackendStatus string `json:"backend_status"`
	Healthy       bool   `json:"healthy"`
	StatusCode    int    `json:"status_code,omitempty"`
	LatencyMS     int64  `json:"latency_ms"`
	Error         string `json:"error,omitempty"`
}

// String renders the report for text output.
func (r ProbeReport) String() string {
	target := r.Target
	if target == "" {
		target = "(not configured)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Upstream:       %s\n", target)
	fmt.Fprintf(&b, "Backend status: %s\n", r.BackendStatus)
	fmt.Fprintf(&b, "Healthy:        %t\n", r.Healthy)
	fmt.Fprintf(&b, "Latency:        %dms", r.LatencyMS)
	if r.Error != "" {
		fmt.Fprintf(&b, "\nError:          %s", r.Error)
	}
	return b.String()
}

func runProbe(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(probeFlags.output)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if probeFlags.url != "" {
		cfg.Relay.TargetBackendURL = strings.TrimRight(strings.TrimSpace(probeFlags.url), "/")
	}

	client := newUpstreamClient(cfg)
	report := probe(cmd.Context(), client)

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if !report.Healthy {
		return cli.NewCommandError("probe", fmt.Errorf("upstream is %s", report.BackendStatus))
	}
	return nil
}

func probe(ctx context.Context, client *upstream.Client) ProbeReport {
	if ctx == nil {
		ctx = context.Background()
	}

	result := client.Probe(ctx)

	report := ProbeReport{
		Target:        client.BaseURL(),
		BackendStatus: result.BackendStatus,
		Healthy:       result.Healthy(),
		StatusCode:    result.StatusCode,
		LatencyMS:     result.Latency.Milliseconds(),
	}
	if result.Err != nil {
		report.Error = result.Err.Error()
	}
	return report
}
