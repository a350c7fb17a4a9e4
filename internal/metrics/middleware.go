package metrics

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
)

// skipPrefixes are never tracked.
var skipPrefixes = []string{"/static/", "/images/", "/all_codes/", "/files/", "/admin/", "/favicon", "/privacy", "/healthz"}

// Tracked reports whether a request path counts as a page view.
func Tracked(path string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// Middleware records a page view for full-page GETs. Visitors sending
// DNT: 1 are not tracked. HTMX fragment requests are interactions, recorded
// by their handlers through Track.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" && Tracked(c.Request.URL.Path) && c.GetHeader("HX-Request") == "" && c.GetHeader("DNT") != "1" {
			go s.record(c.ClientIP(), c.GetHeader("User-Agent"), c.Request.URL.Path, PageView, "")
		}
		c.Next()
	}
}

// Track records an interaction event in the background, honouring DNT.
func (s *Store) Track(c *gin.Context, event, subject string) {
	if c.GetHeader("DNT") == "1" {
		return
	}
	go s.record(c.ClientIP(), c.GetHeader("User-Agent"), c.Request.URL.Path, event, subject)
}

func (s *Store) record(ip, ua, path, event, subject string) {
	if err := s.Record(ip, ua, path, event, subject); err != nil {
		log.Printf("Error recording visit: %v", err)
	}
}
