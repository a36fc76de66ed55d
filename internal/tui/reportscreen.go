package tui

import (
	"log/slog"
	"strings"

	"shopdesk/internal/content"
	"shopdesk/internal/logging"
	"shopdesk/internal/reports"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const reportsTarget = "reports"

type ReportsScreen struct {
	src    content.Source
	pal    *palette
	logger *slog.Logger

	loaded  bool
	summary reports.Summary
}

func NewReportsScreen(src content.Source, pal *palette, logger *slog.Logger) *ReportsScreen {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ReportsScreen{src: src, pal: pal, logger: logger}
}

func (s *ReportsScreen) Title() string       { return "Reports" }
func (s *ReportsScreen) Loaded() bool        { return s.loaded }
func (s *ReportsScreen) IsInputActive() bool { return false }

func (s *ReportsScreen) Load() tea.Cmd {
	return loadDocumentCmd(s.src, reportsTarget, s.logger)
}

func (s *ReportsScreen) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(documentLoadedMsg); ok && msg.Target == reportsTarget {
		s.summary = reports.Build(msg.Doc)
		s.loaded = true
	}
	return nil
}

func (s *ReportsScreen) View() string {
	var b strings.Builder
	b.WriteString(s.pal.title.Render("Reports"))
	b.WriteString("\n")
	if !s.loaded {
		b.WriteString(s.pal.mutedText.Render("Loading..."))
		return b.String()
	}

	sum := s.summary
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		s.card("Today's Sales", reports.Money(sum.TodaySales)),
		s.card("Monthly Revenue", reports.Money(sum.MonthlyRevenue)),
		s.card("Monthly Profit", reports.Money(sum.MonthlyProfit)),
		s.card("Expected Revenue", reports.Money(sum.ExpectedRevenue)),
		s.card("Cash Flow", s.signed(sum.CashFlow)),
	))
	b.WriteString("\n\n")

	daily := [][]string{}
	for _, d := range sum.RecentDays {
		daily = append(daily, []string{
			d.Date,
			reports.Money(reports.Number(d.TotalSales)),
			reports.Money(reports.Number(d.TotalExpenses)),
			reports.Money(reports.Number(d.TotalProfit)),
		})
	}
	monthly := [][]string{}
	for _, m := range sum.Months {
		monthly = append(monthly, []string{
			m.Month,
			reports.Money(reports.Number(m.Revenue)),
			reports.Money(reports.Number(m.Expenses)),
			reports.Money(reports.Number(m.Profit)),
		})
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		s.table("Daily Report", []string{"Date", "Sales", "Expenses", "Profit"}, daily),
		"  ",
		s.table("Monthly Report", []string{"Month", "Revenue", "Expenses", "Profit"}, monthly),
	))
	b.WriteString("\n")

	b.WriteString(s.block("Cash Flow Summary", [][2]string{
		{"Today's Profit", s.signed(sum.TodayProfit)},
		{"Today's Expenses", reports.Money(sum.TodayExpenses)},
		{"Monthly Profit", s.signed(sum.MonthlyProfit)},
		{"Net Cash Flow", s.signed(sum.CashFlow)},
	}))
	b.WriteString("\n")

	inv, cust, sup := sum.Inventory, sum.Customers, sum.Suppliers
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		s.block("Inventory", [][2]string{
			{"Total items", s.pal.normal.Render(reports.Count(inv.TotalItems))},
			{"Total value", s.pal.normal.Render(reports.Money(reports.Number(inv.TotalValue)))},
			{"Low stock", s.pal.normal.Render(reports.Count(inv.LowStockItems))},
			{"Out of stock", s.pal.normal.Render(reports.Count(inv.OutOfStockItems))},
			{"Turnover", s.pal.normal.Render(reports.Number(inv.TurnoverRate).String())},
		}),
		s.block("Customers", [][2]string{
			{"Total", s.pal.normal.Render(reports.Count(cust.TotalCustomers))},
			{"Active", s.pal.normal.Render(reports.Count(cust.ActiveCustomers))},
			{"Repeat", s.pal.normal.Render(reports.Count(cust.RepeatCustomers))},
			{"Avg order", s.pal.normal.Render(reports.Money(reports.Number(cust.AverageOrderValue)))},
			{"Received", s.pal.normal.Render(reports.Money(reports.Number(cust.TotalReceivedAmount)))},
		}),
		s.block("Suppliers", [][2]string{
			{"Total", s.pal.normal.Render(reports.Count(sup.TotalSuppliers))},
			{"Paid", s.pal.normal.Render(reports.Count(sup.PaidSuppliers))},
			{"Pending", s.pal.normal.Render(reports.Count(sup.PendingPayments))},
			{"Owed", s.pal.normal.Render(reports.Money(reports.Number(sup.TotalOwed)))},
			{"Avg terms", s.pal.normal.Render(reports.Count(sup.AveragePaymentTerms) + " days")},
		}),
	))
	return b.String()
}

func (s *ReportsScreen) card(name, value string) string {
	return s.pal.card.Render(s.pal.mutedText.Render(name) + "\n" + value)
}

func (s *ReportsScreen) signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return s.pal.errorText.Bold(true).Render(reports.Money(d))
	}
	return s.pal.successText.Bold(true).Render(reports.Money(d))
}

func (s *ReportsScreen) table(title string, headers []string, rows [][]string) string {
	const width = 12
	var b strings.Builder
	b.WriteString(s.pal.subtitle.Render(title))
	b.WriteString("\n")
	for _, h := range headers {
		b.WriteString(cell(s.pal.header, h, width))
	}
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(s.pal.mutedText.Render("No data"))
		b.WriteString("\n")
	}
	for _, row := range rows {
		for _, v := range row {
			b.WriteString(cell(s.pal.normal, v, width))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *ReportsScreen) block(title string, rows [][2]string) string {
	label := lipgloss.NewStyle().Width(18).Foreground(s.pal.muted)
	var b strings.Builder
	b.WriteString(s.pal.subtitle.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(label.Render(r[0]))
		b.WriteString(r[1])
	}
	return s.pal.card.Render(b.String())
}
