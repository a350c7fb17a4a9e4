// Package session maps visitor cookies to their page stores.
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ikulkarni/portfolio/internal/page"
)

const (
	CookieName = "portfolio_session"
	contextKey = "page_store"
)

// Registry keeps the most recently used page stores. Evicted or expired
// visitors simply start over with a fresh page.
type Registry struct {
	cache    *expirable.LRU[string, *page.Store]
	newStore func() *page.Store
	ttl      time.Duration
}

func NewRegistry(capacity int, ttl time.Duration, newStore func() *page.Store) *Registry {
	return &Registry{
		cache:    expirable.NewLRU[string, *page.Store](capacity, nil, ttl),
		newStore: newStore,
		ttl:      ttl,
	}
}

// Get returns the store for id, creating one (and a new id) when id is
// unknown or malformed.
func (r *Registry) Get(id string) (string, *page.Store) {
	if _, err := uuid.Parse(id); err == nil {
		if s, ok := r.cache.Get(id); ok {
			return id, s
		}
	} else {
		id = uuid.NewString()
	}
	s := r.newStore()
	r.cache.Add(id, s)
	return id, s
}

func (r *Registry) Len() int { return r.cache.Len() }

// Middleware attaches the visitor's store to the request and refreshes the
// session cookie.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(CookieName)
		id, store := r.Get(raw)
		if id != raw {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, id, int(r.ttl.Seconds()), "/", "", false, true)
		}
		c.Set(contextKey, store)
		c.Next()
	}
}

// From returns the store attached by Middleware.
func From(c *gin.Context) *page.Store {
	return c.MustGet(contextKey).(*page.Store)
}
