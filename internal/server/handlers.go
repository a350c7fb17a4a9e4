package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/ikulkarni/portfolio/internal/casebrowser"
	"github.com/ikulkarni/portfolio/internal/contact"
	"github.com/ikulkarni/portfolio/internal/content"
	"github.com/ikulkarni/portfolio/internal/metrics"
	"github.com/ikulkarni/portfolio/internal/navigation"
	"github.com/ikulkarni/portfolio/internal/page"
	"github.com/ikulkarni/portfolio/internal/session"
	"github.com/ikulkarni/portfolio/internal/snippet"
)

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// pageData is everything the page templates read. Fragments get the same
// data as the full page.
func (s *Server) pageData(snap page.Snapshot) gin.H {
	cat := s.library.Catalog()
	data := gin.H{
		"profile":     cat.Profile,
		"cases":       cat.Cases,
		"nav":         navigation.Sections,
		"active":      snap.ActiveSection,
		"theme":       snap.Theme,
		"modal":       snap.Code,
		"navOffset":   navigation.Offset,
		"scrollDelay": casebrowser.ScrollDelay.Milliseconds(),
	}
	if snap.Cases.Expanded {
		if bc, err := cat.Case(snap.Cases.CaseID); err == nil {
			data["expanded"] = bc
			data["expandedIndex"] = snap.Cases.Index
		}
	}
	return data
}

func (s *Server) track(c *gin.Context, event, subject string) {
	if s.metrics != nil {
		s.metrics.Track(c, event, subject)
	}
}

func (s *Server) renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.html", gin.H{"error": msg, "status": status})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.pageData(session.From(c).Snapshot()))
}

// lookupCase resolves the :id parameter and the grid index of the card.
func (s *Server) lookupCase(c *gin.Context) (content.BusinessCase, int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, "Invalid business case id")
		return content.BusinessCase{}, 0, false
	}
	cat := s.library.Catalog()
	bc, err := cat.Case(id)
	if errors.Is(err, content.ErrNotFound) {
		s.renderError(c, http.StatusNotFound, "Business case not found")
		return content.BusinessCase{}, 0, false
	}

	index := cat.IndexOf(id)
	if raw := c.Query("index"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n < cat.Len() {
			index = n
		}
	}
	return bc, index, true
}

// handleCasePage renders the full page with one case expanded, for links
// and clients without HTMX.
func (s *Server) handleCasePage(c *gin.Context) {
	bc, index, ok := s.lookupCase(c)
	if !ok {
		return
	}
	snap := session.From(c).ExpandCase(bc.ID, index)
	s.track(c, metrics.CaseExpand, strconv.Itoa(bc.ID))
	c.HTML(http.StatusOK, "index.html", s.pageData(snap))
}

func (s *Server) handleExpand(c *gin.Context) {
	bc, index, ok := s.lookupCase(c)
	if !ok {
		return
	}
	snap := session.From(c).ExpandCase(bc.ID, index)
	s.track(c, metrics.CaseExpand, strconv.Itoa(bc.ID))
	c.HTML(http.StatusOK, "cases.html", s.pageData(snap))
}

// scrollTrigger is sent in HX-Trigger-After-Settle so the client scrolls the
// previously opened card into view once the grid is back in the DOM.
type scrollTrigger struct {
	ScrollToCase casebrowser.ScrollRequest `json:"scrollToCase"`
}

func (s *Server) handleCollapse(c *gin.Context) {
	store := session.From(c)
	req, ok := store.CollapseCase()

	if !isHTMX(c) {
		target := "/#cases"
		if ok && req.Target != "" {
			target = "/#" + req.Target
		}
		c.Redirect(http.StatusSeeOther, target)
		return
	}

	if ok && req.Target != "" {
		payload, err := json.Marshal(scrollTrigger{ScrollToCase: req})
		if err != nil {
			log.Printf("Error encoding scroll trigger: %v", err)
		} else {
			c.Header("HX-Trigger-After-Settle", string(payload))
		}
	}
	c.HTML(http.StatusOK, "cases.html", s.pageData(store.Snapshot()))
}

// handleCode opens the code viewer. Load failures still render the modal,
// with the error message in place of the listing.
func (s *Server) handleCode(c *gin.Context) {
	path := c.Query("path")
	title := c.DefaultQuery("title", path)

	m := session.From(c).OpenCode(c.Request.Context(), path, title)
	if m.Failed() {
		if snippet.Superseded(m.Err) {
			c.Status(http.StatusNoContent)
			return
		}
		log.Printf("Error loading code %q: %v", path, m.Err)
	} else {
		s.track(c, metrics.CodeView, path)
	}
	c.HTML(http.StatusOK, "code-modal.html", gin.H{"modal": m})
}

func (s *Server) handleCodeClose(c *gin.Context) {
	session.From(c).CloseCode()
	c.HTML(http.StatusOK, "code-modal.html", gin.H{"modal": snippet.Modal{}})
}

func (s *Server) handleNav(c *gin.Context) {
	snap := session.From(c).SetActiveSection(c.Param("section"))
	c.HTML(http.StatusOK, "nav.html", s.pageData(snap))
}

func (s *Server) handleThemeToggle(c *gin.Context) {
	mode, err := themeFrom(c).Toggle()
	if err != nil {
		log.Printf("Error persisting theme %s: %v", mode, err)
	}
	if isHTMX(c) {
		c.Header("HX-Refresh", "true")
		c.String(http.StatusOK, "")
		return
	}
	back := c.GetHeader("Referer")
	if back == "" {
		back = "/"
	}
	c.Redirect(http.StatusSeeOther, back)
}

func (s *Server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form.html", gin.H{
		"title":   "Contact Me",
		"contact": s.library.Catalog().Profile.Contact,
	})
}

func (s *Server) handleContact(c *gin.Context) {
	msg := contact.Message{
		Name:    c.PostForm("fullName"),
		Email:   c.PostForm("email"),
		Message: c.PostForm("message"),
	}

	if err := s.mailer.Send(msg); err != nil {
		log.Printf("Error sending contact email: %v", err)
		text := "Sorry, there was an error sending your message. Please try again later."
		if errors.Is(err, contact.ErrInvalidInput) {
			text = "Please provide your name, a valid email address and a message."
		}
		c.HTML(http.StatusOK, "contact-result.html", gin.H{"error": text})
		return
	}

	c.HTML(http.StatusOK, "contact-result.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
