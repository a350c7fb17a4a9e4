// Package theme holds the light/dark preference shared by every view.
package theme

import (
	"fmt"
	"sync"
)

// Key is the name the preference is persisted under.
const Key = "theme"

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"

	Default = Light
)

// Parse accepts "light" or "dark".
func Parse(s string) (Mode, error) {
	switch Mode(s) {
	case Light, Dark:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid theme %q: must be light or dark", s)
	}
}

func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

func (m Mode) String() string { return string(m) }

// Store persists the preference between visits.
type Store interface {
	Load() (string, bool)
	Save(value string) error
}

// Context is read once at construction and changed only through Toggle.
// Subscribers are told about every change.
type Context struct {
	mu     sync.RWMutex
	mode   Mode
	store  Store
	nextID int
	subs   map[int]func(Mode)
}

// New reads the persisted preference, falling back to fallback when it is
// absent or unreadable. An invalid fallback means Default.
func New(store Store, fallback Mode) *Context {
	if _, err := Parse(string(fallback)); err != nil {
		fallback = Default
	}
	mode := fallback
	if raw, ok := store.Load(); ok {
		if m, err := Parse(raw); err == nil {
			mode = m
		}
	}
	return &Context{mode: mode, store: store, subs: make(map[int]func(Mode))}
}

func (c *Context) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Toggle flips the mode and persists it. The in-memory value changes even
// if saving fails; the error is returned for logging.
func (c *Context) Toggle() (Mode, error) {
	c.mu.Lock()
	c.mode = c.mode.Toggle()
	mode := c.mode
	subs := make([]func(Mode), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	err := c.store.Save(string(mode))
	for _, fn := range subs {
		fn(mode)
	}
	return mode, err
}

// Subscribe registers fn for changes and returns a function that removes it.
func (c *Context) Subscribe(fn func(Mode)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// MemoryStore keeps the preference in memory.
type MemoryStore struct {
	mu    sync.Mutex
	value string
	set   bool
}

func (s *MemoryStore) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

func (s *MemoryStore) Save(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value, s.set = v, true
	return nil
}
