package theme

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const cookieMaxAge = 3600 * 24 * 365

// CookieStore persists the preference in the "theme" cookie of one request.
type CookieStore struct {
	c *gin.Context
}

func NewCookieStore(c *gin.Context) *CookieStore {
	return &CookieStore{c: c}
}

func (s *CookieStore) Load() (string, bool) {
	v, err := s.c.Cookie(Key)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *CookieStore) Save(v string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(Key, v, cookieMaxAge, "/", "", false, false)
	return nil
}
