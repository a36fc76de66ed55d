package cli

import (
	"fmt"

	"shopdesk/internal/appearance"
	"shopdesk/internal/storage"

	"github.com/spf13/cobra"
)

func newThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "theme [toggle]",
		Short:     "Show or flip the saved light/dark theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := storage.Open(app.Config.DBPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			theme := appearance.New(st)
			current := theme.Read()
			if len(args) == 1 {
				if current, err = theme.Toggle(); err != nil {
					return writeErr(cmd, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), current)
			return nil
		},
	}
	return cmd
}
