// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// MaxPostsPerPage is the largest page size the WordPress REST API accepts.
const MaxPostsPerPage = 100

// NavItem is a single entry of the main navigation.
type NavItem struct {
	Title string
	URL   string
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	WordPressURL string `env:"SHADPRESS_WORDPRESS_URL,required"`

	ServerHost string `env:"SHADPRESS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SHADPRESS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"SHADPRESS_ENV" envDefault:"development"`
	LogLevel   string `env:"SHADPRESS_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"SHADPRESS_LOG_FORMAT" envDefault:"text"`

	// Site identity
	SiteName        string `env:"SHADPRESS_SITE_NAME" envDefault:"ShadPress"`
	SiteDescription string `env:"SHADPRESS_SITE_DESCRIPTION" envDefault:"A blog built using Headless WordPress."`
	SiteURL         string `env:"SHADPRESS_SITE_URL" envDefault:"http://localhost:8080"`
	DefaultOGImage  string `env:"SHADPRESS_DEFAULT_OG_IMAGE" envDefault:"/static/dist/open-graph.png"`
	FooterText      string `env:"SHADPRESS_FOOTER_TEXT" envDefault:"&copy; 2024 Lite &middot; Built with Go and WordPress"`
	Nav             string `env:"SHADPRESS_NAV" envDefault:"Blog=/blog"`

	// Content API
	PostsPerPage int           `env:"SHADPRESS_POSTS_PER_PAGE" envDefault:"10"`
	APITimeout   time.Duration `env:"SHADPRESS_API_TIMEOUT" envDefault:"10s"`
	SanitizeHTML bool          `env:"SHADPRESS_SANITIZE_HTML" envDefault:"true"`

	// Server behaviour
	RequestTimeout time.Duration `env:"SHADPRESS_REQUEST_TIMEOUT" envDefault:"30s"`
	RateLimit      float64       `env:"SHADPRESS_RATE_LIMIT" envDefault:"20"`
	RateBurst      int           `env:"SHADPRESS_RATE_BURST" envDefault:"40"`
	DisallowAll    bool          `env:"SHADPRESS_DISALLOW_ALL" envDefault:"false"` // robots.txt for staging

	navItems []NavItem
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// NavItems returns the main navigation parsed from Nav.
func (c Config) NavItems() []NavItem {
	return c.navItems
}

// LoginURL returns the WordPress admin login URL.
func (c Config) LoginURL() string {
	return c.WordPressURL + "/wp-login.php"
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	wpURL, err := normalizeBaseURL(cfg.WordPressURL)
	if err != nil {
		return nil, fmt.Errorf("SHADPRESS_WORDPRESS_URL: %w", err)
	}
	cfg.WordPressURL = wpURL

	siteURL, err := normalizeBaseURL(cfg.SiteURL)
	if err != nil {
		return nil, fmt.Errorf("SHADPRESS_SITE_URL: %w", err)
	}
	cfg.SiteURL = siteURL

	if cfg.PostsPerPage < 1 || cfg.PostsPerPage > MaxPostsPerPage {
		return nil, fmt.Errorf("SHADPRESS_POSTS_PER_PAGE must be between 1 and %d, got %d",
			MaxPostsPerPage, cfg.PostsPerPage)
	}
	if cfg.APITimeout <= 0 {
		return nil, errors.New("SHADPRESS_API_TIMEOUT must be positive")
	}

	items, err := ParseNav(cfg.Nav)
	if err != nil {
		return nil, fmt.Errorf("SHADPRESS_NAV: %w", err)
	}
	cfg.navItems = items

	return cfg, nil
}

// normalizeBaseURL checks that raw is an absolute http(s) URL and trims the trailing slash.
func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("URL %q must start with http:// or https://", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL %q has no host", raw)
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

// ParseNav parses a comma-separated list of Title=URL pairs.
func ParseNav(s string) ([]NavItem, error) {
	var items []NavItem
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		title, link, ok := strings.Cut(part, "=")
		title = strings.TrimSpace(title)
		link = strings.TrimSpace(link)
		if !ok || title == "" || link == "" {
			return nil, fmt.Errorf("nav item %q must have the form Title=URL", part)
		}
		items = append(items, NavItem{Title: title, URL: link})
	}
	return items, nil
}
