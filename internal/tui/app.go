package tui

import (
	"log/slog"
	"strings"
	"time"

	"shopdesk/internal/appearance"
	"shopdesk/internal/content"
	"shopdesk/internal/logging"
	"shopdesk/internal/recordview"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type appKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Jump   key.Binding
	Theme  key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func (k appKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.Next, k.Theme, k.Reload, k.Quit}
}

func (k appKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Jump, k.Next, k.Prev}, {k.Theme, k.Reload, k.Quit}}
}

var appKeys = appKeyMap{
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev screen")),
	Jump:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"), key.WithHelp("1-0", "switch screen")),
	Theme:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
	Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// App is the root bubbletea model: a row of tabs over the active screen.
type App struct {
	theme       *appearance.Store
	pal         *palette
	unsubscribe func()
	logger      *slog.Logger

	screens   []screen
	activeTab int
	help      help.Model
	width     int
	height    int

	statusMsg     string
	statusIsError bool
}

// NewApp builds every screen over src. Theme changes made through theme are
// picked up by all screens immediately.
func NewApp(src content.Source, theme *appearance.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	if theme == nil {
		theme = appearance.New(nil)
	}

	pal := newPalette(theme.Read())
	a := &App{
		theme:  theme,
		pal:    &pal,
		logger: logger,
		help:   help.New(),
	}
	a.unsubscribe = theme.Subscribe(func(t appearance.Theme) {
		*a.pal = newPalette(t)
	})

	a.screens = append(a.screens, NewOverviewScreen(src, a.pal, logger))
	for _, schema := range recordview.Schemas {
		a.screens = append(a.screens, NewRecordScreen(schema, src, a.pal, logger))
	}
	a.screens = append(a.screens, NewReportsScreen(src, a.pal, logger))
	return a
}

// Close detaches the app from the theme store.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func (a *App) Init() tea.Cmd {
	return a.screens[a.activeTab].Load()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		var cmds []tea.Cmd
		for _, s := range a.screens {
			cmds = append(cmds, s.Update(msg))
		}
		return a, tea.Batch(cmds...)

	case collectionLoadedMsg, documentLoadedMsg:
		var cmds []tea.Cmd
		for _, s := range a.screens {
			cmds = append(cmds, s.Update(msg))
		}
		return a, tea.Batch(cmds...)

	case ClearStatusMsg:
		a.statusMsg = ""
		var cmds []tea.Cmd
		for _, s := range a.screens {
			cmds = append(cmds, s.Update(msg))
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch {
		case key.Matches(msg, appKeys.Theme):
			return a, a.toggleTheme()
		case key.Matches(msg, appKeys.Reload):
			return a, a.active().Load()
		}

		if !a.active().IsInputActive() {
			switch {
			case key.Matches(msg, appKeys.Quit):
				return a, tea.Quit
			case key.Matches(msg, appKeys.Next):
				return a, a.switchTo((a.activeTab + 1) % len(a.screens))
			case key.Matches(msg, appKeys.Prev):
				return a, a.switchTo((a.activeTab + len(a.screens) - 1) % len(a.screens))
			case key.Matches(msg, appKeys.Jump):
				return a, a.switchTo(tabIndex(msg.String()))
			}
		}
	}

	return a, a.active().Update(msg)
}

func (a *App) active() screen {
	return a.screens[a.activeTab]
}

// tabIndex maps "1".."9" to 0..8 and "0" to the tenth screen.
func tabIndex(k string) int {
	if k == "0" {
		return 9
	}
	return int(k[0] - '1')
}

func (a *App) switchTo(i int) tea.Cmd {
	if i < 0 || i >= len(a.screens) {
		return nil
	}
	a.activeTab = i
	if !a.active().Loaded() {
		return a.active().Load()
	}
	return nil
}

func (a *App) toggleTheme() tea.Cmd {
	t, err := a.theme.Toggle()
	if err != nil {
		a.logger.Warn("failed to persist theme", slog.String("theme", string(t)), slog.Any("err", err))
		a.statusMsg = "Theme not saved: " + err.Error()
		a.statusIsError = true
	} else {
		a.statusMsg = "Switched to " + string(t) + " theme"
		a.statusIsError = false
	}
	return clearStatusAfter(3 * time.Second)
}

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.pal.logo.Render(logo))
	b.WriteString("  ")
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(a.active().View())
	b.WriteString("\n")

	if line := renderStatusLine(a.pal, a.statusMsg, a.statusIsError); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}
	b.WriteString("\n")
	b.WriteString(a.help.ShortHelpView(appKeys.ShortHelp()))
	return b.String()
}

func (a *App) renderTabs() string {
	tabs := make([]string, 0, len(a.screens))
	for i, s := range a.screens {
		if i == a.activeTab {
			tabs = append(tabs, a.pal.activeTab.Render(s.Title()))
		} else {
			tabs = append(tabs, a.pal.tab.Render(s.Title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// Theme reports the palette currently used for rendering.
func (a *App) Theme() appearance.Theme {
	return a.pal.theme
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(src content.Source, theme *appearance.Store, logger *slog.Logger) error {
	applyColorProfilePreference()
	app := NewApp(src, theme, logger)
	defer app.Close()

	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
