package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, ok, err := s.Get("theme"); err != nil || ok {
		t.Fatalf("expected unset theme, got ok=%v err=%v", ok, err)
	}
	if err := s.Set("theme", "light"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	v, ok, err := s.Get("theme")
	if err != nil || !ok || v != "light" {
		t.Fatalf("expected persisted light, got %q ok=%v err=%v", v, ok, err)
	}
	if ver, err := s.SchemaVersion(); err != nil || ver != schemaVersion {
		t.Fatalf("schema version: got %q err=%v", ver, err)
	}
}

func TestStoreClosed(t *testing.T) {
	t.Parallel()

	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.Close()

	if _, _, err := s.Get("theme"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Get after close: want ErrClosed, got %v", err)
	}
	if err := s.Set("theme", "dark"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Set after close: want ErrClosed, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestMemory(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	if _, ok, _ := m.Get("theme"); ok {
		t.Fatalf("expected empty memory store")
	}
	_ = m.Set("theme", "dark")
	if v, ok, _ := m.Get("theme"); !ok || v != "dark" {
		t.Fatalf("got %q ok=%v", v, ok)
	}
}
