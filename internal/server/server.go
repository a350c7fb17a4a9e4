// Package server wires the portfolio pages, HTMX fragments and admin routes
// into a gin engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ikulkarni/portfolio/internal/config"
	"github.com/ikulkarni/portfolio/internal/contact"
	"github.com/ikulkarni/portfolio/internal/content"
	"github.com/ikulkarni/portfolio/internal/metrics"
	"github.com/ikulkarni/portfolio/internal/page"
	"github.com/ikulkarni/portfolio/internal/session"
	"github.com/ikulkarni/portfolio/internal/snippet"
	"github.com/ikulkarni/portfolio/internal/theme"
)

// Server serves the site.
type Server struct {
	cfg      *config.Config
	library  *content.Library
	sessions *session.Registry
	metrics  *metrics.Store // nil when tracking is off
	mailer   *contact.Mailer
	admin    *adminAuth
	engine   *gin.Engine
}

// NewLoader picks how the code viewer reads listings.
func NewLoader(cfg *config.Config) snippet.Loader {
	if cfg.AssetBaseURL != "" {
		return snippet.NewHTTPLoader(cfg.AssetBaseURL)
	}
	return &snippet.DirLoader{FS: os.DirFS(cfg.PublicDir)}
}

// New builds the server. store may be nil to disable visitor tracking.
func New(cfg *config.Config, lib *content.Library, store *metrics.Store) (*Server, error) {
	loader := NewLoader(cfg)
	s := &Server{
		cfg:     cfg,
		library: lib,
		sessions: session.NewRegistry(cfg.SessionCapacity, cfg.SessionTTL, func() *page.Store {
			return page.New(loader)
		}),
		metrics: store,
		mailer:  contact.NewMailer(mailConfig(cfg.SMTP, lib.Catalog().Profile)),
		admin:   newAdminAuth(cfg.Admin),
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if err := loadTemplates(r); err != nil {
		return nil, err
	}
	if err := s.routes(r); err != nil {
		return nil, err
	}
	s.engine = r
	return s, nil
}

// mailConfig delivers to the profile's contact address unless smtp.to is set.
func mailConfig(c contact.Config, p content.Profile) contact.Config {
	if c.To == "" {
		c.To = p.Contact.Email
	}
	return c
}

func (s *Server) Router() http.Handler { return s.engine }

func (s *Server) routes(r *gin.Engine) error {
	if err := mountStatic(r); err != nil {
		return err
	}
	if s.cfg.PublicDir != "" {
		r.Static("/all_codes", filepath.Join(s.cfg.PublicDir, "all_codes"))
		r.Static("/images", filepath.Join(s.cfg.PublicDir, "images"))
		r.Static("/files", filepath.Join(s.cfg.PublicDir, "files"))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cases": s.library.Catalog().Len()})
	})
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"trackVisitors": s.metrics != nil,
		})
	})

	site := r.Group("/")
	site.Use(s.sessions.Middleware(), s.themeMiddleware())
	if s.metrics != nil {
		site.Use(s.metrics.Middleware())
	}

	site.GET("/", s.handleIndex)
	site.GET("/cases/:id", s.handleCasePage)
	site.POST("/cases/:id/expand", s.handleExpand)
	site.POST("/cases/collapse", s.handleCollapse)
	site.GET("/code", s.handleCode)
	site.POST("/code/close", s.handleCodeClose)
	site.POST("/nav/:section", s.handleNav)
	site.POST("/theme/toggle", s.handleThemeToggle)
	site.GET("/contact-form", s.handleContactForm)
	site.POST("/contact", s.handleContact)

	s.setupAdminRoutes(r)
	return nil
}

// themeMiddleware reads the visitor's theme cookie into a theme context and
// mirrors it into the page store for the duration of the request.
func (s *Server) themeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := theme.New(theme.NewCookieStore(c), theme.Mode(s.cfg.DefaultTheme))
		store := session.From(c)
		store.SetTheme(tc.Mode())
		unsubscribe := tc.Subscribe(store.SetTheme)
		defer unsubscribe()

		c.Set(themeKey, tc)
		c.Next()
	}
}

const themeKey = "theme_context"

func themeFrom(c *gin.Context) *theme.Context {
	return c.MustGet(themeKey).(*theme.Context)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.library.Watch(ctx); err != nil {
			log.Printf("Content watcher stopped: %v", err)
		}
	}()
	if s.metrics != nil {
		go s.cleanupLoop(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Portfolio listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// cleanupLoop prunes old visit records at startup and then daily.
func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		n, err := s.metrics.Cleanup()
		if err != nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
		} else if n > 0 {
			log.Printf("Privacy cleanup: removed %d visit records older than 12 months", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
