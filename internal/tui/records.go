package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shopdesk/internal/content"
	"shopdesk/internal/logging"
	"shopdesk/internal/models"
	"shopdesk/internal/recordview"
	"shopdesk/internal/reports"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type recordMode int

const (
	modeList recordMode = iota
	modeView
	modeEdit
)

type recordKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Edit   key.Binding
	Search key.Binding
	Back   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Save   key.Binding
}

var recordKeys = recordKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
}

// RecordScreen is a searchable table over one collection with an optional
// edit form.
type RecordScreen struct {
	view   *recordview.View
	src    content.Source
	pal    *palette
	logger *slog.Logger

	loaded      bool
	cursor      int
	searchInput textinput.Model
	mode        recordMode
	editFields  []textinput.Model
	editFocus   int

	statusMsg     string
	statusIsError bool
	width         int
}

func NewRecordScreen(schema recordview.Schema, src content.Source, pal *palette, logger *slog.Logger) *RecordScreen {
	if logger == nil {
		logger = logging.Discard()
	}
	search := textinput.New()
	search.Placeholder = "Search " + strings.ToLower(schema.Title) + "..."
	search.Width = 40

	return &RecordScreen{
		view:        recordview.New(schema, logger),
		src:         src,
		pal:         pal,
		logger:      logger,
		searchInput: search,
		mode:        modeList,
	}
}

func (s *RecordScreen) Title() string {
	return s.view.Schema().Title
}

func (s *RecordScreen) Load() tea.Cmd {
	return loadCollectionCmd(s.src, s.view.Schema().Collection, s.logger)
}

func (s *RecordScreen) Loaded() bool {
	return s.loaded
}

// ViewModel exposes the underlying view model.
func (s *RecordScreen) ViewModel() *recordview.View {
	return s.view
}

func (s *RecordScreen) IsInputActive() bool {
	return s.mode == modeEdit || s.searchInput.Focused()
}

func (s *RecordScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		return nil

	case collectionLoadedMsg:
		if msg.Collection != s.view.Schema().Collection {
			return nil
		}
		s.view.Seed(msg.Records)
		s.loaded = true
		s.mode = modeList
		s.clampCursor()
		return nil

	case StatusMsg:
		s.statusMsg = msg.Message
		s.statusIsError = msg.IsError
		return clearStatusAfter(3 * time.Second)

	case ClearStatusMsg:
		s.statusMsg = ""
		return nil

	case tea.KeyMsg:
		switch s.mode {
		case modeView:
			return s.updateView(msg)
		case modeEdit:
			return s.updateEdit(msg)
		}
		return s.updateList(msg)
	}

	var cmd tea.Cmd
	switch {
	case s.mode == modeEdit:
		s.editFields[s.editFocus], cmd = s.editFields[s.editFocus].Update(msg)
	case s.searchInput.Focused():
		s.searchInput, cmd = s.searchInput.Update(msg)
	}
	return cmd
}

func (s *RecordScreen) updateList(msg tea.KeyMsg) tea.Cmd {
	if s.searchInput.Focused() {
		switch {
		case key.Matches(msg, recordKeys.Back):
			s.searchInput.Blur()
			s.searchInput.SetValue("")
			s.applyQuery()
			return nil
		case key.Matches(msg, recordKeys.Open):
			s.searchInput.Blur()
			return nil
		}
		var cmd tea.Cmd
		s.searchInput, cmd = s.searchInput.Update(msg)
		s.applyQuery()
		return cmd
	}

	switch {
	case key.Matches(msg, recordKeys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, recordKeys.Down):
		if s.cursor < len(s.view.Filtered())-1 {
			s.cursor++
		}
	case key.Matches(msg, recordKeys.Open):
		if s.selected() != nil {
			s.mode = modeView
		}
	case key.Matches(msg, recordKeys.Edit):
		return s.beginEdit()
	case key.Matches(msg, recordKeys.Search):
		return s.searchInput.Focus()
	case key.Matches(msg, recordKeys.Back):
		if s.searchInput.Value() != "" {
			s.searchInput.SetValue("")
			s.applyQuery()
		}
	}
	return nil
}

func (s *RecordScreen) updateView(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, recordKeys.Back):
		s.mode = modeList
	case key.Matches(msg, recordKeys.Edit):
		return s.beginEdit()
	}
	return nil
}

func (s *RecordScreen) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, recordKeys.Back):
		s.view.CancelEdit()
		s.mode = modeList
		return nil
	case key.Matches(msg, recordKeys.Next):
		s.moveFocus(1)
		return nil
	case key.Matches(msg, recordKeys.Prev):
		s.moveFocus(-1)
		return nil
	case key.Matches(msg, recordKeys.Save):
		return s.commit()
	}

	before := s.editFields[s.editFocus].Value()
	var cmd tea.Cmd
	s.editFields[s.editFocus], cmd = s.editFields[s.editFocus].Update(msg)
	value := s.editFields[s.editFocus].Value()
	if value == before {
		return cmd
	}
	field := s.view.Schema().Editable[s.editFocus]
	if err := s.view.UpdateDraft(field.Name, value); err != nil {
		s.logger.Warn("draft update rejected", slog.String("field", field.Name), slog.Any("err", err))
	}
	return cmd
}

func (s *RecordScreen) beginEdit() tea.Cmd {
	rec := s.selected()
	if rec == nil {
		return nil
	}
	if err := s.view.BeginEdit(rec); err != nil {
		return func() tea.Msg {
			return StatusMsg{Message: s.Title() + " are read-only", IsError: true}
		}
	}

	draft := s.view.Editing()
	editable := s.view.Schema().Editable
	s.editFields = make([]textinput.Model, len(editable))
	for i, f := range editable {
		in := textinput.New()
		in.Placeholder = f.Label
		in.SetValue(draft.Fields.Text(f.Name))
		in.Width = 40
		s.editFields[i] = in
	}
	s.editFocus = 0
	s.mode = modeEdit
	return s.editFields[0].Focus()
}

func (s *RecordScreen) moveFocus(delta int) {
	n := len(s.editFields)
	s.editFields[s.editFocus].Blur()
	s.editFocus = (s.editFocus + delta + n) % n
	s.editFields[s.editFocus].Focus()
}

func (s *RecordScreen) commit() tea.Cmd {
	if err := s.view.CommitEdit(); err != nil {
		s.mode = modeList
		return func() tea.Msg {
			return StatusMsg{Message: err.Error(), IsError: true}
		}
	}
	s.mode = modeList
	s.clampCursor()
	return func() tea.Msg {
		return StatusMsg{Message: "Saved"}
	}
}

func (s *RecordScreen) applyQuery() {
	s.view.SetQuery(s.searchInput.Value())
	s.clampCursor()
}

func (s *RecordScreen) clampCursor() {
	n := len(s.view.Filtered())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *RecordScreen) selected() models.Record {
	filtered := s.view.Filtered()
	if s.cursor < 0 || s.cursor >= len(filtered) {
		return nil
	}
	return filtered[s.cursor]
}

func (s *RecordScreen) View() string {
	var b strings.Builder

	switch s.mode {
	case modeView:
		b.WriteString(s.viewRecord())
	case modeEdit:
		b.WriteString(s.viewEdit())
	default:
		b.WriteString(s.viewList())
	}

	if line := renderStatusLine(s.pal, s.statusMsg, s.statusIsError); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

func (s *RecordScreen) viewList() string {
	schema := s.view.Schema()
	var b strings.Builder

	b.WriteString(s.pal.title.Render(schema.Title))
	b.WriteString("\n")
	if s.searchInput.Focused() {
		b.WriteString(s.pal.focusedInput.Render(s.searchInput.View()))
	} else {
		b.WriteString(s.pal.input.Render(s.searchInput.View()))
	}
	b.WriteString("\n\n")

	var header strings.Builder
	header.WriteString("  ")
	for _, c := range schema.Columns {
		header.WriteString(cell(s.pal.header, c.Title, c.Width))
	}
	b.WriteString(header.String())
	b.WriteString("\n")

	if !s.loaded {
		b.WriteString(s.pal.mutedText.Render("  Loading..."))
		b.WriteString("\n")
	}

	filtered := s.view.Filtered()
	if s.loaded && len(filtered) == 0 {
		b.WriteString(s.pal.mutedText.Render("  No " + strings.ToLower(schema.Title) + " found"))
		b.WriteString("\n")
	}
	for i, rec := range filtered {
		b.WriteString(s.renderRow(rec, i == s.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.renderFooter(filtered))

	help := "↑/↓ navigate • enter view • / search • esc clear"
	if schema.CanEdit() {
		help = "↑/↓ navigate • enter view • e edit • / search • esc clear"
	}
	b.WriteString(s.pal.help.Render(help))
	return b.String()
}

func (s *RecordScreen) renderRow(rec models.Record, selected bool) string {
	var row strings.Builder
	cursor := "  "
	if selected {
		cursor = "▸ "
	}
	row.WriteString(cursor)
	for _, c := range s.view.Schema().Columns {
		text := rec.Text(c.Field)
		st := s.pal.normal
		switch {
		case c.Money && text != "":
			text = reports.Money(reports.Field(rec, c.Field))
		case c.Status:
			st = s.pal.status(text)
		}
		if selected {
			st = s.pal.selected
		}
		row.WriteString(cell(st, text, c.Width))
	}
	return row.String()
}

func (s *RecordScreen) renderFooter(filtered []models.Record) string {
	schema := s.view.Schema()
	line := fmt.Sprintf("%d of %d", len(filtered), len(s.view.Records()))
	if schema.TotalField != "" {
		total := reports.Sum(filtered, schema.TotalField)
		if schema.TotalTimes != "" {
			total = reports.SumProduct(filtered, schema.TotalField, schema.TotalTimes)
		}
		line += " • " + schema.TotalLabel + ": " + reports.Money(total)
	}
	return s.pal.mutedText.Render(line)
}

func (s *RecordScreen) viewRecord() string {
	rec := s.selected()
	if rec == nil {
		return ""
	}
	schema := s.view.Schema()
	var b strings.Builder

	title := rec.Text(schema.Columns[0].Field)
	if title == "" {
		title = rec.ID()
	}
	b.WriteString(s.pal.title.Render(title))
	b.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Width(14).Foreground(s.pal.muted)
	for _, c := range schema.Columns {
		text := rec.Text(c.Field)
		if c.Money && text != "" {
			text = reports.Money(reports.Field(rec, c.Field))
		}
		b.WriteString(labelStyle.Render(c.Title + ":"))
		if c.Status {
			b.WriteString(s.pal.status(text).Render(text))
		} else {
			b.WriteString(s.pal.normal.Render(text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if schema.CanEdit() {
		b.WriteString(s.pal.help.Render("e edit • esc back"))
	} else {
		b.WriteString(s.pal.help.Render("esc back"))
	}
	return s.pal.box.Render(b.String())
}

func (s *RecordScreen) viewEdit() string {
	var b strings.Builder

	b.WriteString(s.pal.title.Render("Edit record " + s.view.Editing().ID))
	b.WriteString("\n")

	for i, f := range s.view.Schema().Editable {
		b.WriteString(f.Label + ":")
		b.WriteString("\n")
		if i == s.editFocus {
			b.WriteString(s.pal.focusedInput.Render(s.editFields[i].View()))
		} else {
			b.WriteString(s.pal.input.Render(s.editFields[i].View()))
		}
		b.WriteString("\n")
	}

	b.WriteString(s.pal.help.Render("tab next field • ctrl+s save • esc cancel"))
	return s.pal.box.Render(b.String())
}
