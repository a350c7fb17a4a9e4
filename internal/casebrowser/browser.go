// Package casebrowser switches the business case list between the summary
// grid and the detail view of a single case.
package casebrowser

import (
	"fmt"
	"time"
)

// ScrollDelay gives the grid time to lay out before the previously opened
// card is scrolled into view.
const ScrollDelay = 100 * time.Millisecond

// State is a snapshot of the browser.
type State struct {
	Expanded bool
	CaseID   int
	// Index is the grid position of the card that was last opened.
	Index int
}

func (s State) String() string {
	if !s.Expanded {
		return "Collapsed"
	}
	return fmt.Sprintf("Expanded(%d)", s.CaseID)
}

// ScrollRequest asks the client to bring a grid card back into view.
type ScrollRequest struct {
	Index  int           `json:"index"`
	Target string        `json:"target"`
	Delay  time.Duration `json:"-"`
	// DelayMS mirrors Delay for the client script.
	DelayMS int64 `json:"delay"`
}

// Browser is the Collapsed / Expanded(id) state machine. At most one case
// is expanded; expanding another replaces it without history.
type Browser struct {
	state   State
	clicked int
	anchor  func(int) string
}

// New returns a collapsed browser. anchor maps a grid index to the element
// id the client scrolls to.
func New(anchor func(int) string) *Browser {
	return &Browser{anchor: anchor, clicked: -1}
}

func (b *Browser) State() State { return b.state }

// Expanded returns the open case id.
func (b *Browser) Expanded() (int, bool) {
	return b.state.CaseID, b.state.Expanded
}

// Expand opens case id, remembering the index of the card that was clicked.
func (b *Browser) Expand(id, index int) {
	b.clicked = index
	b.state = State{Expanded: true, CaseID: id, Index: index}
}

// Collapse returns to the grid. The returned request targets the card that
// was last expanded; ok is false if nothing was expanded.
func (b *Browser) Collapse() (req ScrollRequest, ok bool) {
	if !b.state.Expanded {
		return ScrollRequest{}, false
	}
	b.state = State{Index: b.clicked}
	req = ScrollRequest{
		Index:   b.clicked,
		Delay:   ScrollDelay,
		DelayMS: ScrollDelay.Milliseconds(),
	}
	if b.anchor != nil && b.clicked >= 0 {
		req.Target = b.anchor(b.clicked)
	}
	return req, true
}
