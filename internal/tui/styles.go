package tui

import (
	"os"
	"strings"

	"shopdesk/internal/appearance"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// palette holds every style a screen renders with. All screens share one
// *palette; toggling the theme rewrites it in place.
type palette struct {
	theme appearance.Theme

	primary lipgloss.Color
	muted   lipgloss.Color
	text    lipgloss.Color
	surface lipgloss.Color
	success lipgloss.Color
	warning lipgloss.Color
	danger  lipgloss.Color

	title        lipgloss.Style
	subtitle     lipgloss.Style
	selected     lipgloss.Style
	normal       lipgloss.Style
	mutedText    lipgloss.Style
	successText  lipgloss.Style
	errorText    lipgloss.Style
	box          lipgloss.Style
	input        lipgloss.Style
	focusedInput lipgloss.Style
	tab          lipgloss.Style
	activeTab    lipgloss.Style
	help         lipgloss.Style
	header       lipgloss.Style
	card         lipgloss.Style
	cardValue    lipgloss.Style
	bar          lipgloss.Style
	prompt       lipgloss.Style
	logo         lipgloss.Style
}

// Catppuccin Mocha for dark, Latte for light.
var (
	darkColors  = [7]string{"#89b4fa", "#6c7086", "#cdd6f4", "#1e1e2e", "#a6e3a1", "#f9e2af", "#f38ba8"}
	lightColors = [7]string{"#1e66f5", "#8c8fa1", "#4c4f69", "#eff1f5", "#40a02b", "#df8e1d", "#d20f39"}
)

func newPalette(theme appearance.Theme) palette {
	c := darkColors
	if !theme.IsDark() {
		c = lightColors
	}
	p := palette{
		theme:   theme,
		primary: lipgloss.Color(c[0]),
		muted:   lipgloss.Color(c[1]),
		text:    lipgloss.Color(c[2]),
		surface: lipgloss.Color(c[3]),
		success: lipgloss.Color(c[4]),
		warning: lipgloss.Color(c[5]),
		danger:  lipgloss.Color(c[6]),
	}

	p.title = lipgloss.NewStyle().Bold(true).Foreground(p.primary).MarginBottom(1)
	p.subtitle = lipgloss.NewStyle().Foreground(p.muted).MarginBottom(1)
	p.selected = lipgloss.NewStyle().Foreground(p.surface).Background(p.primary)
	p.normal = lipgloss.NewStyle().Foreground(p.text)
	p.mutedText = lipgloss.NewStyle().Foreground(p.muted)
	p.successText = lipgloss.NewStyle().Foreground(p.success)
	p.errorText = lipgloss.NewStyle().Foreground(p.danger)
	p.box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.primary).
		Padding(1, 2)
	p.input = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.muted).
		Padding(0, 1)
	p.focusedInput = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.primary).
		Padding(0, 1)
	p.tab = lipgloss.NewStyle().Padding(0, 1).Foreground(p.muted)
	p.activeTab = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.surface).
		Background(p.primary).
		Bold(true)
	p.help = lipgloss.NewStyle().Foreground(p.muted).MarginTop(1)
	p.header = lipgloss.NewStyle().Bold(true).Foreground(p.text).Underline(true)
	p.card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.muted).
		Padding(0, 2).
		MarginRight(1)
	p.cardValue = lipgloss.NewStyle().Bold(true).Foreground(p.text)
	p.bar = lipgloss.NewStyle().Foreground(p.primary)
	p.prompt = lipgloss.NewStyle().Foreground(p.primary)
	p.logo = lipgloss.NewStyle().Bold(true).Foreground(p.primary)
	return p
}

// status renders a status badge: green for settled, yellow for waiting, red
// for trouble.
func (p *palette) status(s string) lipgloss.Style {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in stock", "paid", "active", "completed", "delivered":
		return lipgloss.NewStyle().Foreground(p.success).Bold(true)
	case "low stock", "pending", "partial", "processing":
		return lipgloss.NewStyle().Foreground(p.warning).Bold(true)
	case "out of stock", "overdue", "unpaid", "cancelled":
		return lipgloss.NewStyle().Foreground(p.danger).Bold(true)
	}
	return p.normal
}

// applyColorProfilePreference honors NO_COLOR for the interactive TUI and
// otherwise keeps termenv's detection.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}

const logo = "shopdesk"
