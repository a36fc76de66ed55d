package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"shopdesk/internal/content"
	"shopdesk/internal/models"
	"shopdesk/internal/recordview"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// screen is one tab of the app.
type screen interface {
	Title() string
	// Load fetches the screen's data. It runs when the screen is first
	// shown and on reload; local edits are discarded.
	Load() tea.Cmd
	Loaded() bool
	Update(msg tea.Msg) tea.Cmd
	View() string
	IsInputActive() bool
}

const fetchTimeout = 10 * time.Second

func loadCollectionCmd(src content.Source, collection string, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return collectionLoadedMsg{
			Collection: collection,
			Records:    recordview.LoadCollection(ctx, src, collection, logger),
		}
	}
}

func loadDocumentCmd(src content.Source, target string, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		doc, err := src.Fetch(ctx)
		if err != nil {
			logger.Warn("failed to load data document",
				slog.String("screen", target),
				slog.String("source", src.Location()),
				slog.Any("err", err))
			doc = models.Document{}
		}
		return documentLoadedMsg{Target: target, Doc: doc}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// truncate cuts s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func cell(st lipgloss.Style, s string, width int) string {
	return st.Width(width).Render(truncate(s, width-1))
}

func renderStatusLine(pal *palette, msg string, isError bool) string {
	if msg == "" {
		return ""
	}
	if isError {
		return pal.errorText.Render("⚠ " + msg)
	}
	return pal.successText.Render("✓ " + msg)
}

// bar is one row of a horizontal text bar chart.
type bar struct {
	Label string
	Value float64
	Text  string
}

func renderBars(pal *palette, bars []bar, width int) string {
	if len(bars) == 0 {
		return pal.mutedText.Render("No data")
	}
	labelWidth := 0
	maxValue := 0.0
	for _, b := range bars {
		if n := len([]rune(b.Label)); n > labelWidth {
			labelWidth = n
		}
		if b.Value > maxValue {
			maxValue = b.Value
		}
	}
	if labelWidth > 16 {
		labelWidth = 16
	}
	if width < 10 {
		width = 10
	}

	var sb strings.Builder
	for i, b := range bars {
		n := 0
		if maxValue > 0 && b.Value > 0 {
			n = int(b.Value / maxValue * float64(width))
			if n == 0 {
				n = 1
			}
		}
		sb.WriteString(cell(pal.mutedText, b.Label, labelWidth+2))
		sb.WriteString(pal.bar.Render(strings.Repeat("█", n)))
		sb.WriteString(" ")
		sb.WriteString(pal.normal.Render(b.Text))
		if i < len(bars)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
