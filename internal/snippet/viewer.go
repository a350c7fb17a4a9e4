package snippet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// ErrorPrefix starts every message shown in place of a listing that failed
// to load.
const ErrorPrefix = "Error loading code"

// Modal is what the code viewer overlay shows.
type Modal struct {
	Open  bool
	Title string
	Path  string
	Code  string
	// Err is set when Code holds an error message instead of a listing.
	Err error
}

// Failed reports whether the modal shows an error message.
func (m Modal) Failed() bool { return m.Err != nil }

// ErrorText is the human-readable replacement for a listing that could not
// be loaded.
func ErrorText(err error) string {
	return ErrorPrefix + ": " + err.Error()
}

// Viewer owns the modal state for one visitor. Opening a listing always opens
// the modal; a failed load puts an error message where the code would be.
// A newer Open cancels the load of an older one, and a superseded load never
// replaces the newer selection.
type Viewer struct {
	loader Loader

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	modal  Modal
}

func NewViewer(loader Loader) *Viewer {
	return &Viewer{loader: loader}
}

// Open loads the listing at p and returns the resulting modal. The load is
// never retried.
func (v *Viewer) Open(ctx context.Context, p, title string) Modal {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.seq++
	seq := v.seq
	v.cancel = cancel
	v.mu.Unlock()

	m := Modal{Open: true, Title: title, Path: p}
	code, err := v.loader.Load(ctx, p)
	if err != nil {
		m.Err = err
		m.Code = ErrorText(err)
	} else {
		m.Code = code
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return Modal{Title: title, Path: p, Err: ErrSuperseded}
	}
	v.cancel = nil
	v.modal = m
	return m
}

// Close hides the modal and abandons any load in flight.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	v.modal = Modal{}
}

func (v *Viewer) Modal() Modal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.modal
}

// ErrSuperseded is returned in place of a load that finished after a newer
// Open or a Close, even if the load itself succeeded.
var ErrSuperseded = fmt.Errorf("load superseded: %w", context.Canceled)

// Superseded reports whether err came from a load that a newer Open or a
// Close replaced.
func Superseded(err error) bool {
	return errors.Is(err, context.Canceled)
}

// CopyAckDuration is how long the "Copied!" acknowledgement stays up.
const CopyAckDuration = 2 * time.Second

// CopyAck tracks the transient acknowledgement after a copy.
type CopyAck struct {
	until time.Time
}

func (a *CopyAck) Mark(now time.Time) { a.until = now.Add(CopyAckDuration) }

func (a *CopyAck) Active(now time.Time) bool { return now.Before(a.until) }

// Label is the copy button text at time now.
func (a *CopyAck) Label(now time.Time) string {
	if a.Active(now) {
		return "Copied!"
	}
	return "Copy Code"
}

var writeClipboard = clipboard.WriteAll

// Copy puts text on the system clipboard and marks the acknowledgement. The
// caller only logs a returned error; the acknowledgement is left untouched.
func Copy(ack *CopyAck, text string, now time.Time) error {
	if err := writeClipboard(text); err != nil {
		return err
	}
	ack.Mark(now)
	return nil
}
