package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"shopdesk/internal/models"
	"shopdesk/internal/recordview"
	"shopdesk/internal/reports"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const fetchTimeout = 10 * time.Second

func newListCmd(app *App) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Print a collection as a table",
		Long:  "Print a collection as a table. Collections: " + strings.Join(collectionNames(), ", ") + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, ok := recordview.Lookup(strings.ToLower(strings.TrimSpace(args[0])))
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown collection %q (want one of %s)", args[0], strings.Join(collectionNames(), ", ")))
			}

			src, err := resolveSource(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			doc, err := src.Fetch(ctx)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("failed to load %s: %w", src.Location(), err))
			}

			view := recordview.New(schema, app.log())
			view.Seed(doc.Collection(schema.Collection))
			view.SetQuery(query)
			writeTable(cmd.OutOrStdout(), schema, view.Filtered(), len(view.Records()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show records whose searchable fields contain this text")
	return cmd
}

func collectionNames() []string {
	names := make([]string, 0, len(recordview.Schemas))
	for _, s := range recordview.Schemas {
		names = append(names, s.Collection)
	}
	return names
}

func writeTable(w io.Writer, schema recordview.Schema, rows []models.Record, total int) {
	header := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	for _, c := range schema.Columns {
		b.WriteString(header.Width(c.Width).Render(c.Title))
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	if len(rows) == 0 {
		fmt.Fprintf(w, "No %s found\n", strings.ToLower(schema.Title))
	}
	for _, r := range rows {
		b.Reset()
		for _, c := range schema.Columns {
			text := r.Text(c.Field)
			if c.Money && text != "" {
				text = reports.Money(reports.Field(r, c.Field))
			}
			b.WriteString(lipgloss.NewStyle().Width(c.Width).MaxWidth(c.Width).Render(fit(text, c.Width-1)))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	footer := fmt.Sprintf("%d of %d", len(rows), total)
	if schema.TotalField != "" {
		sum := reports.Sum(rows, schema.TotalField)
		if schema.TotalTimes != "" {
			sum = reports.SumProduct(rows, schema.TotalField, schema.TotalTimes)
		}
		footer += " • " + schema.TotalLabel + ": " + reports.Money(sum)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, footer)
}

func fit(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
