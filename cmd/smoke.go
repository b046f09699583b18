package main

import (
	"fmt"
	"net"
	"time"

	"github.com/okian/bfhl/internal/smoke"
	"github.com/spf13/cobra"
)

func (c *cli) smokeCmd() *cobra.Command {
	var cfg smoke.Config

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Check a running server against the documented behaviour",
		Long: `Sends a fixed set of requests to a running server and verifies status
codes, envelopes and results. Exits non-zero when any check fails.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logsToStderr: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.BaseURL == "" {
				cfg.BaseURL = localURL(c.cfg.ListenAddr())
			}
			if !cmd.Flags().Changed("email") {
				cfg.Email = c.cfg.OfficialEmail
			}

			report, err := smoke.Run(cmd.Context(), cfg, c.log.Named("smoke"))
			out := cmd.OutOrStdout()
			for _, r := range report.Results {
				if r.Err != nil {
					fmt.Fprintf(out, "FAIL %-20s %v\n", r.Name, r.Err)
					continue
				}
				fmt.Fprintf(out, "ok   %-20s %s\n", r.Name, r.Duration.Round(time.Microsecond))
			}
			fmt.Fprintf(out, "%d passed, %d failed in %s\n", report.Passed, report.Failed, report.Duration.Round(time.Millisecond))
			return err
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", "", "base URL of the server (default: derived from the listen address)")
	cmd.Flags().StringVar(&cfg.Email, "email", "", "expected official_email (default: configured value)")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 4, "concurrent checks")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "per-request timeout")
	cmd.Flags().BoolVar(&cfg.AI, "ai", false, "also check the AI operation")
	return cmd
}

// localURL turns a listen address such as ":3000" into a loopback URL.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
