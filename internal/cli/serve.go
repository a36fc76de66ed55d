package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"shopdesk/internal/content"
	"shopdesk/internal/discovery"
	"shopdesk/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		name       string
		noAnnounce bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the data document over HTTP and announce it on the LAN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := content.ReadFile(app.Config.DataLocation)
			if err != nil {
				return writeErr(cmd, err)
			}

			srv := server.New(app.Config.Port, app.log())
			if err := srv.SetDocument(data); err != nil {
				return writeErr(cmd, fmt.Errorf("refusing to serve %s: %w", app.Config.DataLocation, err))
			}
			if err := srv.Start(); err != nil {
				return writeErr(cmd, err)
			}
			defer srv.Stop()

			if name == "" {
				name, _ = os.Hostname()
			}
			if !noAnnounce {
				ann, err := discovery.Announce(name, srv.Port(), server.DocumentPath)
				if err != nil {
					app.log().Warn("mDNS announce failed", slog.Any("err", err))
					fmt.Fprintln(cmd.ErrOrStderr(), "Warning: not announced on the LAN:", err)
				} else {
					defer ann.Stop()
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on :%d%s (ctrl+c to stop)\n",
				app.Config.DataLocation, srv.Port(), server.DocumentPath)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().IntVar(&app.Config.Port, "port", app.Config.Port, "HTTP port")
	cmd.Flags().StringVar(&name, "name", "", "Instance name to announce (default: hostname)")
	cmd.Flags().BoolVar(&noAnnounce, "no-announce", false, "Do not advertise over mDNS")
	return cmd
}
