package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/bfhl/internal/domain/types"
	"github.com/spf13/cobra"
)

var errOperationFailed = errors.New("operation failed")

func (c *cli) evalCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "eval [body]",
		Short: "Run one request body through the dispatcher and print the envelope",
		Long: `Runs one POST /bfhl body locally, without starting the server, and prints
the response envelope. The body is read from stdin when omitted or "-".

The server's limits apply here too: fibonacci above max_fibonacci_terms
(BFHL_MAX_FIBONACCI_TERMS, default 1000) and prime arrays longer than
max_prime_elements (BFHL_MAX_PRIME_ELEMENTS, default 10000) are rejected,
and numeric work past compute_timeout_ms (BFHL_COMPUTE_TIMEOUT_MS, default
10000) fails with "Operation timed out". Set a limit to 0 to disable it.

Example:
  bfhl eval '{"fibonacci":7}'
  echo '{"lcm":[4,6]}' | bfhl eval`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{logsToStderr: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			var body io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				body = strings.NewReader(args[0])
			}

			svc, err := c.newService(cmd.Context())
			if err != nil {
				return err
			}

			data, derr := svc.Dispatch(cmd.Context(), body)
			env := types.Success(c.cfg.OfficialEmail, data)
			if derr != nil {
				env = types.Failure(c.cfg.OfficialEmail, derr.Error())
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(env); err != nil {
				return fmt.Errorf("encode envelope: %w", err)
			}
			if derr != nil {
				return fmt.Errorf("%w: %w", errOperationFailed, derr)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the printed envelope")
	return cmd
}
