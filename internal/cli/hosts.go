package cli

import (
	"context"
	"fmt"
	"time"

	"shopdesk/internal/discovery"

	"github.com/spf13/cobra"
)

func newHostsCmd(app *App) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "List hosts serving a data document on the LAN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			hosts, err := discovery.Browse(ctx, timeout)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := cmd.OutOrStdout()
			if len(hosts) == 0 {
				fmt.Fprintln(out, "No hosts found")
				return nil
			}
			for _, h := range hosts {
				fmt.Fprintf(out, "%-20s %s\n", h.Name, h.URL())
			}
			app.log().Debug("browse finished", "hosts", len(hosts))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", discoverTimeout, "How long to listen for answers")
	return cmd
}
