package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"shopdesk/internal/appearance"
	"shopdesk/internal/config"
	"shopdesk/internal/content"
	"shopdesk/internal/discovery"
	"shopdesk/internal/logging"
	"shopdesk/internal/storage"
	"shopdesk/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Config config.Config

	logger    *slog.Logger
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{Config: config.Default()}

	cmd := &cobra.Command{
		Use:          "shopdesk",
		Short:        "Retail back-office in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI over data/data.json
  shopdesk

  # Read the document from another machine on the LAN
  shopdesk --discover

  # Scriptable commands
  shopdesk list clients --query ug
  shopdesk theme toggle
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, closer, err := logging.New(app.Config.LogFile, logging.ParseLevel(app.Config.LogLevel))
		if err != nil {
			return writeErr(cmd, err)
		}
		app.logger = logger
		app.logCloser = closer
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logCloser != nil {
			return app.logCloser.Close()
		}
		return nil
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.Config.DataLocation, "data", app.Config.DataLocation, "Data document path or URL (env "+config.EnvData+")")
	flags.StringVar(&app.Config.DBPath, "db", app.Config.DBPath, "Preference database path (env "+config.EnvDB+")")
	flags.StringVar(&app.Config.LogFile, "log-file", app.Config.LogFile, "Write logs to this file (env "+config.EnvLogFile+")")
	flags.StringVar(&app.Config.LogLevel, "log-level", app.Config.LogLevel, "Log level: debug, info, warn or error")
	flags.BoolVar(&app.Config.Discover, "discover", false, "Load the data document from the first host announced on the LAN")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newHostsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	src, err := resolveSource(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}

	prefs, closePrefs := openPrefs(app)
	defer closePrefs()

	return tui.Run(src, appearance.New(prefs), app.logger)
}

// openPrefs opens the preference database. When it cannot be opened the
// TUI still runs; the theme then starts dark and is kept in memory only.
func openPrefs(app *App) (appearance.Preferences, func()) {
	st, err := storage.Open(app.Config.DBPath)
	if err != nil {
		app.log().Warn("preference store unavailable, theme will not persist",
			slog.String("path", app.Config.DBPath),
			slog.Any("err", err))
		return storage.NewMemory(), func() {}
	}
	return st, func() {
		if err := st.Close(); err != nil {
			app.log().Warn("failed to close preference store", slog.Any("err", err))
		}
	}
}

const discoverTimeout = 3 * time.Second

var errNoHosts = errors.New("no shopdesk hosts found on the network")

func resolveSource(ctx context.Context, app *App) (content.Source, error) {
	if !app.Config.Discover {
		return content.Open(app.Config.DataLocation), nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	hosts, err := discovery.Browse(ctx, discoverTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to discover hosts: %w", err)
	}
	if len(hosts) == 0 {
		return nil, errNoHosts
	}
	app.log().Info("using discovered host", slog.String("host", hosts[0].Name), slog.String("url", hosts[0].URL()))
	return content.Open(hosts[0].URL()), nil
}

func (a *App) log() *slog.Logger {
	if a.logger == nil {
		a.logger = logging.Discard()
	}
	return a.logger
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
