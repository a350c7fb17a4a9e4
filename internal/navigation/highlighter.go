// Package navigation tracks which page section the nav bar highlights.
package navigation

// Offset is added to the scroll position before testing section bounds, so
// a section counts as active slightly before its top reaches the viewport.
const Offset = 100

// Sections lists the nav entries in document order.
var Sections = []string{"home", "about", "experience", "cases", "achievements", "skills", "contact"}

// Bound is the vertical extent of one section element.
type Bound struct {
	ID     string
	Top    int
	Height int
}

func (b Bound) contains(y int) bool {
	return b.Top <= y && y < b.Top+b.Height
}

// Highlighter holds the active section. The zero value is not usable; call
// New.
type Highlighter struct {
	active string
}

func New() *Highlighter {
	return &Highlighter{active: Sections[0]}
}

func (h *Highlighter) Active() string { return h.active }

// Observe handles one scroll event. Every bound containing scrollY+Offset
// overwrites the candidate, so the last match in document order wins. With
// no match the previous value is kept. It returns the active section.
//
// activeSection in internal/server/static/site.js applies the same rule in
// the browser, reading Offset from the page's data-nav-offset attribute.
func (h *Highlighter) Observe(scrollY int, bounds []Bound) string {
	pos := scrollY + Offset
	for _, b := range bounds {
		if b.contains(pos) {
			h.active = b.ID
		}
	}
	return h.active
}

// Set forces the active section, e.g. after a nav click. Unknown ids are
// ignored.
func (h *Highlighter) Set(id string) bool {
	for _, s := range Sections {
		if s == id {
			h.active = id
			return true
		}
	}
	return false
}
