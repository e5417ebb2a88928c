// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/shadpress-go/internal/config"
	"github.com/olegiv/shadpress-go/internal/content"
	"github.com/olegiv/shadpress-go/internal/handler"
	"github.com/olegiv/shadpress-go/internal/logging"
	"github.com/olegiv/shadpress-go/internal/middleware"
	"github.com/olegiv/shadpress-go/internal/render"
	"github.com/olegiv/shadpress-go/internal/restyle"
	"github.com/olegiv/shadpress-go/internal/seo"
	"github.com/olegiv/shadpress-go/internal/version"
	"github.com/olegiv/shadpress-go/internal/wordpress"
	"github.com/olegiv/shadpress-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Cache lifetime of fingerprint-free static assets (1 year).
const staticMaxAge = 31536000

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "ShadPress - a blog front end for headless WordPress\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHADPRESS_WORDPRESS_URL   WordPress site URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHADPRESS_SITE_URL        Public URL of this site (default: http://localhost:8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHADPRESS_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHADPRESS_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHADPRESS_LOG_LEVEL       debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHADPRESS_LOG_FORMAT      text|json (default: text)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SHADPRESS_POSTS_PER_PAGE  Posts per listing page, 1-100 (default: 10)\n")
	}

	flag.Parse()

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	slog.SetDefault(logger)

	wp := wordpress.New(cfg.WordPressURL, logger,
		wordpress.WithTimeout(cfg.APITimeout),
		wordpress.WithUserAgent(info.UserAgent()),
	)

	sanitizer := content.NewSanitizer(cfg.SanitizeHTML)
	if !sanitizer.Enabled() {
		slog.Warn("HTML sanitization disabled; post bodies are rendered as WordPress returns them")
	}

	footer, err := sanitizer.Markdown(cfg.FooterText)
	if err != nil {
		return fmt.Errorf("rendering footer: %w", err)
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		Site: &render.Site{
			Name:        cfg.SiteName,
			Description: cfg.SiteDescription,
			URL:         cfg.SiteURL,
			LoginURL:    cfg.LoginURL(),
			Nav:         cfg.NavItems(),
			Footer:      template.HTML(footer),
		},
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	frontendHandler := handler.NewFrontendHandler(handler.FrontendConfig{
		Content:   wp,
		Renderer:  renderer,
		Sanitizer: sanitizer,
		Restyler:  restyle.New(nil),
		Site: seo.SiteConfig{
			SiteName:        cfg.SiteName,
			SiteURL:         cfg.SiteURL,
			SiteDescription: cfg.SiteDescription,
			DefaultOGImage:  cfg.DefaultOGImage,
		},
		PostsPerPage: cfg.PostsPerPage,
		DisallowAll:  cfg.DisallowAll,
		Logger:       logger,
	})
	healthHandler := handler.NewHealthHandler(wp, info, logger)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestPath)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment(), cfg.WordPressURL)))
	r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Middleware())

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Handle("/metrics", middleware.NoStore(promhttp.Handler()))

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(staticMaxAge)(http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/dist/*", staticHandler)

	frontendHandler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(),
			"env", cfg.Env,
			"wordpress", cfg.WordPressURL,
			"version", info.Version,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
