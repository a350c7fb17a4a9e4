// Package page owns the view state of one visitor's page. Handlers mutate it
// only through Store methods; views read immutable snapshots.
package page

import (
	"context"
	"sync"

	"github.com/ikulkarni/portfolio/internal/casebrowser"
	"github.com/ikulkarni/portfolio/internal/navigation"
	"github.com/ikulkarni/portfolio/internal/render"
	"github.com/ikulkarni/portfolio/internal/snippet"
	"github.com/ikulkarni/portfolio/internal/theme"
)

// Snapshot is a copy of the page state handed to views and subscribers.
type Snapshot struct {
	ActiveSection string
	Cases         casebrowser.State
	Code          snippet.Modal
	Theme         theme.Mode
}

// Store is the single owner of a page's state.
type Store struct {
	mu      sync.Mutex
	nav     *navigation.Highlighter
	browser *casebrowser.Browser
	viewer  *snippet.Viewer
	theme   theme.Mode

	nextID int
	subs   map[int]func(Snapshot)
}

func New(loader snippet.Loader) *Store {
	return &Store{
		nav:     navigation.New(),
		browser: casebrowser.New(render.CaseAnchor),
		viewer:  snippet.NewViewer(loader),
		theme:   theme.Default,
		subs:    make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		ActiveSection: s.nav.Active(),
		Cases:         s.browser.State(),
		Code:          s.viewer.Modal(),
		Theme:         s.theme,
	}
}

// Subscribe registers fn to receive a snapshot after every mutation.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// mutate runs fn under the lock and then notifies subscribers outside it.
func (s *Store) mutate(fn func()) Snapshot {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
	return snap
}

// ExpandCase opens the detail view of case id, clicked at grid index.
func (s *Store) ExpandCase(id, index int) Snapshot {
	return s.mutate(func() {
		s.browser.Expand(id, index)
		s.nav.Set("cases")
	})
}

// CollapseCase returns to the grid. ok is false if no case was open.
func (s *Store) CollapseCase() (req casebrowser.ScrollRequest, ok bool) {
	s.mutate(func() {
		req, ok = s.browser.Collapse()
	})
	return req, ok
}

// OpenCode loads a listing into the code viewer. The store lock is not held
// during the load, so other interactions on the page stay responsive.
func (s *Store) OpenCode(ctx context.Context, path, title string) snippet.Modal {
	m := s.viewer.Open(ctx, path, title)
	s.mutate(func() {})
	return m
}

func (s *Store) CloseCode() Snapshot {
	return s.mutate(s.viewer.Close)
}

// SetActiveSection records a nav click. Unknown ids are ignored.
func (s *Store) SetActiveSection(id string) Snapshot {
	return s.mutate(func() { s.nav.Set(id) })
}

// SetTheme mirrors the visitor's theme context. It is meant to be passed to
// theme.Context.Subscribe.
func (s *Store) SetTheme(m theme.Mode) {
	s.mutate(func() { s.theme = m })
}
