package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"shopdesk/internal/content"
	"shopdesk/internal/logging"
	"shopdesk/internal/reports"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const overviewTarget = "overview"

type OverviewScreen struct {
	src    content.Source
	pal    *palette
	logger *slog.Logger

	loaded   bool
	overview reports.Overview
	width    int
}

func NewOverviewScreen(src content.Source, pal *palette, logger *slog.Logger) *OverviewScreen {
	if logger == nil {
		logger = logging.Discard()
	}
	return &OverviewScreen{src: src, pal: pal, logger: logger}
}

func (s *OverviewScreen) Title() string       { return "Overview" }
func (s *OverviewScreen) Loaded() bool        { return s.loaded }
func (s *OverviewScreen) IsInputActive() bool { return false }

func (s *OverviewScreen) Load() tea.Cmd {
	return loadDocumentCmd(s.src, overviewTarget, s.logger)
}

func (s *OverviewScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case documentLoadedMsg:
		if msg.Target == overviewTarget {
			s.overview = reports.BuildOverview(msg.Doc)
			s.loaded = true
		}
	}
	return nil
}

func (s *OverviewScreen) View() string {
	var b strings.Builder
	b.WriteString(s.pal.title.Render("Overview"))
	b.WriteString("\n")
	if !s.loaded {
		b.WriteString(s.pal.mutedText.Render("Loading..."))
		return b.String()
	}

	o := s.overview
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		s.card("Total Sales", reports.Money(o.TotalSales)),
		s.card("Total Clients", humanize.Comma(int64(o.Clients))),
		s.card("Total Products", humanize.Comma(int64(o.Products))),
		s.card("Stock", humanize.Comma(o.Stock.IntPart())),
		s.card("Inventory Value", reports.Money(o.InventoryValue)),
	))
	b.WriteString("\n\n")

	barWidth := 30
	if s.width > 80 {
		barWidth = s.width/2 - 24
	}

	sales := make([]bar, 0, len(o.Sales))
	for _, p := range o.Sales {
		sales = append(sales, bar{Label: p.Name, Value: p.Value.InexactFloat64(), Text: reports.Money(p.Value)})
	}
	categories := make([]bar, 0, len(o.Categories))
	for _, p := range o.Categories {
		categories = append(categories, bar{Label: p.Name, Value: p.Value.InexactFloat64(), Text: p.Value.String()})
	}
	status := make([]bar, 0, len(o.OrderStatus))
	for _, p := range o.OrderStatus {
		pct := reports.Percent(o.OrderStatus, p)
		status = append(status, bar{Label: p.Name, Value: p.Value.InexactFloat64(), Text: fmt.Sprintf("%s%%", pct.StringFixed(1))})
	}
	perf := make([]bar, 0, len(o.ProductPerformance))
	for _, p := range o.ProductPerformance {
		perf = append(perf, bar{Label: p.Name, Value: p.Value.InexactFloat64(), Text: reports.Money(p.Value)})
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		s.section("Sales Overview", renderBars(s.pal, sales, barWidth)),
		s.section("Order Distribution", renderBars(s.pal, status, barWidth)),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		s.section("Category Distribution", renderBars(s.pal, categories, barWidth)),
		s.section("Product Performance", renderBars(s.pal, perf, barWidth)),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	return b.String()
}

func (s *OverviewScreen) card(name, value string) string {
	return s.pal.card.Render(s.pal.mutedText.Render(name) + "\n" + s.pal.cardValue.Render(value))
}

func (s *OverviewScreen) section(title, body string) string {
	return s.pal.subtitle.Render(title) + "\n" + body + "\n"
}
