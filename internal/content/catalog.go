package content

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrNotFound is returned when a case id is not in the catalog.
var ErrNotFound = errors.New("business case not found")

// Catalog is an immutable snapshot of loaded content.
type Catalog struct {
	Cases   []BusinessCase
	Profile Profile

	index map[int]int
}

func NewCatalog(cases []BusinessCase, profile Profile) *Catalog {
	idx := make(map[int]int, len(cases))
	for i, bc := range cases {
		if _, ok := idx[bc.ID]; !ok {
			idx[bc.ID] = i
		}
	}
	return &Catalog{Cases: cases, Profile: profile, index: idx}
}

func (c *Catalog) Len() int { return len(c.Cases) }

// Case returns the case with the given id.
func (c *Catalog) Case(id int) (BusinessCase, error) {
	i, ok := c.index[id]
	if !ok {
		return BusinessCase{}, ErrNotFound
	}
	return c.Cases[i], nil
}

// IndexOf returns the display position of id, or -1.
func (c *Catalog) IndexOf(id int) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}

// Library hands out the current catalog and, when backed by a directory,
// reloads it when the files change.
type Library struct {
	mu      sync.RWMutex
	current *Catalog
	dir     string
}

// Open loads content from dir, or from the embedded data when dir is empty.
func Open(dir string) (*Library, error) {
	src := Embedded()
	if dir != "" {
		src = os.DirFS(dir)
	}
	cat, err := Load(src)
	if err != nil {
		return nil, err
	}
	return &Library{current: cat, dir: dir}, nil
}

// NewStaticLibrary wraps an already built catalog. Watch is a no-op.
func NewStaticLibrary(c *Catalog) *Library {
	return &Library{current: c}
}

func (l *Library) Catalog() *Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Reload re-reads the content directory. On failure the previous catalog
// stays in place.
func (l *Library) Reload() error {
	if l.dir == "" {
		return nil
	}
	cat, err := Load(os.DirFS(l.dir))
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.current = cat
	l.mu.Unlock()
	return nil
}

// Watch reloads content on writes to the content directory until ctx is
// done. It returns immediately for embedded content.
func (l *Library) Watch(ctx context.Context) error {
	if l.dir == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(l.dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if name != CasesFile && name != ProfileFile {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := l.Reload(); err != nil {
				log.Printf("Content reload failed, keeping previous version: %v", err)
				continue
			}
			log.Printf("Content reloaded after change to %s", name)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("Content watcher error: %v", err)
		}
	}
}
