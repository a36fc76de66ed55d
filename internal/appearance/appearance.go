// Package appearance holds the process-wide light/dark theme flag.
//
// A Store is created once at startup and handed to every screen; there is no
// package-level instance.
package appearance

import (
	"fmt"
	"sync"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// PreferenceKey is the key the theme is persisted under.
const PreferenceKey = "theme"

func (t Theme) IsDark() bool {
	return t != Light
}

func (t Theme) Opposite() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Parse maps a persisted value to a theme. Only "light" is light.
func Parse(s string) Theme {
	if s == string(Light) {
		return Light
	}
	return Dark
}

// Preferences is the local key/value store the theme is persisted in.
type Preferences interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Store struct {
	prefs Preferences

	mu          sync.Mutex
	theme       Theme
	initialized bool
	nextID      int
	observers   []observer
}

type observer struct {
	id int
	fn func(Theme)
}

// New returns a store backed by prefs. A nil prefs means no persistent
// storage is available; the theme then starts dark and is not persisted.
func New(prefs Preferences) *Store {
	return &Store{prefs: prefs}
}

func (s *Store) initLocked() {
	if s.initialized {
		return
	}
	s.initialized = true
	s.theme = Dark
	if s.prefs == nil {
		return
	}
	v, ok, err := s.prefs.Get(PreferenceKey)
	if err != nil || !ok {
		return
	}
	s.theme = Parse(v)
}

// Read returns the current theme, loading it on first use.
func (s *Store) Read() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initLocked()
	return s.theme
}

// Toggle flips the theme, persists it and notifies observers in the order
// they subscribed. The flag flips even if persisting fails; the error is
// still returned.
func (s *Store) Toggle() (Theme, error) {
	s.mu.Lock()
	s.initLocked()
	s.theme = s.theme.Opposite()
	next := s.theme
	observers := make([]observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	var err error
	if s.prefs != nil {
		if perr := s.prefs.Set(PreferenceKey, string(next)); perr != nil {
			err = fmt.Errorf("failed to persist theme: %w", perr)
		}
	}

	for _, o := range observers {
		o.fn(next)
	}
	return next, err
}

// Subscribe registers fn to run after every toggle. The returned func
// removes it.
func (s *Store) Subscribe(fn func(Theme)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}
