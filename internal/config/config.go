// Package config loads server settings from defaults, an optional YAML file
// and PORTFOLIO_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ikulkarni/portfolio/internal/contact"
	"github.com/ikulkarni/portfolio/internal/theme"
)

// EnvPrefix is stripped from environment overrides: PORTFOLIO_SMTP__HOST
// sets smtp.host.
const EnvPrefix = "PORTFOLIO_"

type Admin struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

type Config struct {
	Port    int    `koanf:"port"`
	GinMode string `koanf:"gin_mode"`

	// ContentDir overrides the embedded content and enables hot reload.
	ContentDir string `koanf:"content_dir"`
	PublicDir  string `koanf:"public_dir"`
	// AssetBaseURL, when set, makes the code viewer fetch listings over HTTP
	// instead of reading PublicDir.
	AssetBaseURL string `koanf:"asset_base_url"`

	DBPath        string `koanf:"db_path"`
	TrackVisitors bool   `koanf:"track_visitors"`

	SessionTTL      time.Duration `koanf:"session_ttl"`
	SessionCapacity int           `koanf:"session_capacity"`

	DefaultTheme string `koanf:"default_theme"`

	Admin Admin          `koanf:"admin"`
	SMTP  contact.Config `koanf:"smtp"`
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Port:            8080,
		GinMode:         gin.DebugMode,
		PublicDir:       "./public",
		DBPath:          "./data/portfolio.db",
		TrackVisitors:   true,
		SessionTTL:      2 * time.Hour,
		SessionCapacity: 10000,
		DefaultTheme:    string(theme.Default),
		Admin:           Admin{Username: "admin", Password: "admin123"},
		SMTP:            contact.Config{Host: "smtp.gmail.com", Port: "587"},
	}
}

// Load applies the YAML file at path (if it exists) and then environment
// overrides on top of the defaults. The legacy PORT variable is honoured
// for hosting platforms that set it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if p := os.Getenv("PORT"); p != "" && !k.Exists("port") {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", p, err)
		}
		cfg.Port = n
	}

	return cfg, nil
}

var validGinModes = map[string]bool{
	gin.DebugMode:   true,
	gin.ReleaseMode: true,
	gin.TestMode:    true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if !validGinModes[c.GinMode] {
		return fmt.Errorf("invalid gin_mode %q: must be one of debug, release, test", c.GinMode)
	}
	if _, err := theme.Parse(c.DefaultTheme); err != nil {
		return fmt.Errorf("default_theme: %w", err)
	}
	if c.PublicDir == "" && c.AssetBaseURL == "" {
		return fmt.Errorf("public_dir or asset_base_url is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.SessionCapacity <= 0 {
		return fmt.Errorf("session_capacity must be positive")
	}
	if c.TrackVisitors && c.DBPath == "" {
		return fmt.Errorf("db_path is required when track_visitors is on")
	}
	return nil
}

// UsingDefaultAdmin reports whether the admin credentials were left at
// their development defaults.
func (c *Config) UsingDefaultAdmin() bool {
	d := Default().Admin
	return c.Admin.Username == d.Username || c.Admin.Password == d.Password
}
