package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/ikulkarni/portfolio/internal/config"
)

const adminCookie = "admin_token"

// adminAuth holds the per-process admin token handed out on login.
type adminAuth struct {
	token string
	creds config.Admin
}

func newAdminAuth(creds config.Admin) *adminAuth {
	return &adminAuth{token: generateToken(), creds: creds}
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal("Failed to generate admin token:", err)
	}
	return hex.EncodeToString(b)
}

func (a *adminAuth) check(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password))
	return u&p == 1
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) clientHash(c *gin.Context) string {
	if s.metrics == nil {
		return "-"
	}
	return s.metrics.HashIP(c.ClientIP())
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	if s.cfg.UsingDefaultAdmin() && gin.Mode() == gin.DebugMode {
		log.Println("WARNING: Using default admin credentials. Set PORTFOLIO_ADMIN__USERNAME and PORTFOLIO_ADMIN__PASSWORD.")
	}

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if s.admin.check(c.PostForm("username"), c.PostForm("password")) {
			c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", s.clientHash(c))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		log.Printf("Failed admin login attempt from %s", s.clientHash(c))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.admin.middleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		if s.metrics == nil {
			c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"disabled": true})
			return
		}
		stats, err := s.metrics.Stats()
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			s.renderError(c, http.StatusInternalServerError, "Failed to load statistics")
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": s.sessions.Len(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		s.writeStats(c, false)
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		log.Printf("Admin stats exported by %s", s.clientHash(c))
		s.writeStats(c, true)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.metrics == nil {
			c.JSON(http.StatusOK, gin.H{"deleted": 0})
			return
		}
		n, err := s.metrics.Cleanup()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	})
}

func (s *Server) writeStats(c *gin.Context, attachment bool) {
	if s.metrics == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "visitor tracking is disabled"})
		return
	}
	stats, err := s.metrics.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	body, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if attachment {
		c.Header("Content-Disposition", "attachment; filename=portfolio-stats.json")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
