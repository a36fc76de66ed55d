package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shopdesk/internal/appearance"
	"shopdesk/internal/models"
	"shopdesk/internal/recordview"
	"shopdesk/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

type stubSource struct {
	doc models.Document
	err error
}

func (s stubSource) Fetch(context.Context) (models.Document, error) {
	return s.doc, s.err
}

func (s stubSource) Location() string { return "stub" }

const testDoc = `{
	"clients": [
		{"id": 1, "name": "Alice", "email": "a@x.io", "phone": "555", "country": "US"},
		{"id": 2, "name": "Bob", "email": "b@y.io", "phone": "556", "country": "UK"}
	],
	"products": [
		{"id": "P1", "name": "Soap", "category": "Home", "price": 2, "stock": 10, "status": "In Stock"}
	],
	"invoices": [
		{"id": "I1", "invoiceNumber": "INV-1", "customer": "Alice", "amount": 100, "status": "Paid"}
	],
	"businessMetrics": {
		"dailyMetrics": [
			{"date": "2024-03-05", "totalSales": 71000, "totalExpenses": 85000, "totalProfit": -14000}
		],
		"monthlyMetrics": [
			{"month": "Feb", "revenue": 2140000, "expenses": 690000, "profit": 1450000}
		]
	}
}`

func mustDoc(t *testing.T) models.Document {
	t.Helper()
	doc, err := models.ParseDocument([]byte(testDoc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedScreen returns a record screen with its collection already delivered.
func loadedScreen(t *testing.T, schema recordview.Schema) *RecordScreen {
	t.Helper()
	pal := newPalette(appearance.Dark)
	s := NewRecordScreen(schema, stubSource{doc: mustDoc(t)}, &pal, nil)
	msg := s.Load()()
	s.Update(msg)
	if !s.Loaded() {
		t.Fatalf("screen not loaded after %T", msg)
	}
	return s
}

func TestRecordScreenSearch(t *testing.T) {
	t.Parallel()

	s := loadedScreen(t, recordview.ClientsSchema)
	s.Update(runes("/"))
	if !s.IsInputActive() {
		t.Fatalf("search should take input after /")
	}
	s.Update(runes("ALI"))

	got := s.ViewModel().Filtered()
	if len(got) != 1 || got[0].Text("name") != "Alice" {
		t.Fatalf("filtered = %v", got)
	}
	if !strings.Contains(s.View(), "1 of 2") {
		t.Fatalf("footer missing count:\n%s", s.View())
	}

	s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if s.IsInputActive() || s.ViewModel().Query() != "" {
		t.Fatalf("esc should clear and blur the search")
	}
	if len(s.ViewModel().Filtered()) != 2 {
		t.Fatalf("expected all records after clearing")
	}
}

func TestRecordScreenEmptyState(t *testing.T) {
	t.Parallel()

	s := loadedScreen(t, recordview.ClientsSchema)
	s.Update(runes("/"))
	s.Update(runes("zzz"))
	if !strings.Contains(s.View(), "No clients found") {
		t.Fatalf("expected empty state:\n%s", s.View())
	}
}

func TestRecordScreenEditAndSave(t *testing.T) {
	t.Parallel()

	s := loadedScreen(t, recordview.ClientsSchema)
	s.Update(runes("j"))
	s.Update(runes("e"))
	if s.ViewModel().Editing() == nil {
		t.Fatalf("expected an edit in progress")
	}

	s.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	s.Update(runes("Robert"))
	if got := s.ViewModel().Editing().Fields.Text("name"); got != "Robert" {
		t.Fatalf("draft name = %q", got)
	}
	if got := s.ViewModel().Records()[1].Text("name"); got != "Bob" {
		t.Fatalf("records changed before save: %q", got)
	}

	cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if s.ViewModel().Editing() != nil {
		t.Fatalf("edit should be cleared after save")
	}
	if got := s.ViewModel().Records()[1].Text("name"); got != "Robert" {
		t.Fatalf("saved name = %q", got)
	}
	if got := s.ViewModel().Records()[1].Text("email"); got != "b@y.io" {
		t.Fatalf("untouched field changed: %q", got)
	}
	if msg, ok := cmd().(StatusMsg); !ok || msg.IsError {
		t.Fatalf("expected success status, got %#v", msg)
	}
}

func TestRecordScreenIntegerField(t *testing.T) {
	t.Parallel()

	s := loadedScreen(t, recordview.ProductsSchema)
	s.Update(runes("e"))
	s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	s.Update(runes("12kg"))
	s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if got := s.ViewModel().Records()[0]["price"]; got != int64(12) {
		t.Fatalf("price = %#v, want 12", got)
	}
}

func TestRecordScreenCursorKeysKeepValue(t *testing.T) {
	t.Parallel()

	doc, err := models.ParseDocument([]byte(`{"products": [
		{"id": "P1", "name": "Soap", "category": "Home", "price": 2500.75, "stock": 10}
	]}`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	pal := newPalette(appearance.Dark)
	s := NewRecordScreen(recordview.ProductsSchema, stubSource{doc: doc}, &pal, nil)
	s.Update(s.Load()())

	s.Update(runes("e"))
	s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if got := s.ViewModel().Records()[0].Text("price"); got != "2500.75" {
		t.Fatalf("price after save = %q, want 2500.75", got)
	}
}

func TestRecordScreenCancelEdit(t *testing.T) {
	t.Parallel()

	s := loadedScreen(t, recordview.ClientsSchema)
	s.Update(runes("e"))
	s.Update(runes("zzz"))
	s.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if s.ViewModel().Editing() != nil || s.IsInputActive() {
		t.Fatalf("esc should cancel the edit")
	}
	if got := s.ViewModel().Records()[0].Text("name"); got != "Alice" {
		t.Fatalf("cancel mutated records: %q", got)
	}
}

func TestRecordScreenReadOnly(t *testing.T) {
	t.Parallel()

	s := loadedScreen(t, recordview.InvoicesSchema)
	cmd := s.Update(runes("e"))
	if cmd == nil {
		t.Fatalf("expected a status command")
	}
	if msg, ok := cmd().(StatusMsg); !ok || !msg.IsError {
		t.Fatalf("expected an error status, got %#v", msg)
	}
	if s.ViewModel().Editing() != nil {
		t.Fatalf("read-only collection entered edit mode")
	}
}

func TestRecordScreenFetchFailure(t *testing.T) {
	t.Parallel()

	pal := newPalette(appearance.Dark)
	s := NewRecordScreen(recordview.ClientsSchema, stubSource{err: errors.New("offline")}, &pal, nil)
	s.Update(s.Load()())
	if !s.Loaded() || len(s.ViewModel().Records()) != 0 {
		t.Fatalf("expected an empty loaded screen")
	}
}

func TestReloadDiscardsEdits(t *testing.T) {
	t.Parallel()

	s := loadedScreen(t, recordview.ClientsSchema)
	s.Update(runes("e"))
	s.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	s.Update(runes("Zed"))
	s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	s.Update(s.Load()())
	if got := s.ViewModel().Records()[0].Text("name"); got != "Alice" {
		t.Fatalf("reload kept local edit: %q", got)
	}
}

func TestAppThemeToggle(t *testing.T) {
	t.Parallel()

	prefs := storage.NewMemory()
	theme := appearance.New(prefs)
	app := NewApp(stubSource{doc: mustDoc(t)}, theme, nil)
	defer app.Close()

	if app.Theme() != appearance.Dark {
		t.Fatalf("initial theme = %s", app.Theme())
	}

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if app.Theme() != appearance.Light {
		t.Fatalf("theme after toggle = %s", app.Theme())
	}
	for _, s := range app.screens {
		if rs, ok := s.(*RecordScreen); ok && rs.pal.theme != appearance.Light {
			t.Fatalf("%s did not pick up the new theme", rs.Title())
		}
	}
	if v, ok, _ := prefs.Get(appearance.PreferenceKey); !ok || v != "light" {
		t.Fatalf("persisted theme = %q %v", v, ok)
	}
}

func TestAppTabNavigation(t *testing.T) {
	t.Parallel()

	app := NewApp(stubSource{doc: mustDoc(t)}, appearance.New(nil), nil)
	defer app.Close()

	if len(app.screens) != 10 {
		t.Fatalf("expected 10 screens, got %d", len(app.screens))
	}

	_, cmd := app.Update(runes("3"))
	if app.active().Title() != "Clients" {
		t.Fatalf("key 3 opened %q", app.active().Title())
	}
	if cmd == nil {
		t.Fatalf("first visit should load the screen")
	}
	app.Update(cmd())
	if !app.active().Loaded() {
		t.Fatalf("clients not loaded")
	}

	app.Update(runes("0"))
	if app.active().Title() != "Reports" {
		t.Fatalf("key 0 opened %q", app.active().Title())
	}
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if app.active().Title() != "Overview" {
		t.Fatalf("tab should wrap to Overview, got %q", app.active().Title())
	}
}

func TestAppKeysIgnoredWhileTyping(t *testing.T) {
	t.Parallel()

	app := NewApp(stubSource{doc: mustDoc(t)}, appearance.New(nil), nil)
	defer app.Close()

	app.Update(runes("3"))
	app.Update(runes("/"))
	app.Update(runes("2"))
	if app.active().Title() != "Clients" {
		t.Fatalf("digit switched screens while searching")
	}
	if q := app.active().(*RecordScreen).ViewModel().Query(); q != "2" {
		t.Fatalf("query = %q", q)
	}
}

func TestOverviewAndReportsRender(t *testing.T) {
	t.Parallel()

	pal := newPalette(appearance.Light)
	src := stubSource{doc: mustDoc(t)}

	o := NewOverviewScreen(src, &pal, nil)
	o.Update(o.Load()())
	if !o.Loaded() || !strings.Contains(o.View(), "Total Clients") {
		t.Fatalf("overview not rendered:\n%s", o.View())
	}

	r := NewReportsScreen(src, &pal, nil)
	r.Update(r.Load()())
	view := r.View()
	if !r.Loaded() || !strings.Contains(view, "Expected Revenue") {
		t.Fatalf("reports not rendered:\n%s", view)
	}
	for _, want := range []string{
		"Cash Flow Summary",
		"Today's Profit", "-$14,000",
		"Today's Expenses", "$85,000",
		"Monthly Profit", "$1,450,000",
		"Net Cash Flow", "$760,000",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("reports missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"héllo", 3, "hé…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
