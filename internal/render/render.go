// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the HTML templates and writes rendered pages.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/olegiv/shadpress-go/internal/config"
	"github.com/olegiv/shadpress-go/internal/seo"
)

const (
	baseLayout  = "layouts/base.html"
	partialsDir = "partials"
	pagesDir    = "pages"
)

// Site is the site-wide data every page gets.
type Site struct {
	Name        string
	Description string
	URL         string
	LoginURL    string
	Nav         []config.NavItem
	Footer      template.HTML
}

// Renderer handles template rendering with parsed templates cached per page.
type Renderer struct {
	templates map[string]*template.Template
	site      *Site
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Site        *Site
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	if cfg.TemplatesFS == nil {
		return nil, fmt.Errorf("templates filesystem is required")
	}
	site := cfg.Site
	if site == nil {
		site = &Site{}
	}

	r := &Renderer{
		templates: make(map[string]*template.Template),
		site:      site,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page with the base layout and all partials.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := getTemplateFiles(templatesFS, partialsDir)
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	pages, err := getTemplateFiles(templatesFS, pagesDir)
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no templates found in %s", pagesDir)
	}

	for _, tmplPath := range pages {
		name := strings.TrimSuffix(path.Base(tmplPath), ".html")

		// Parse in order: base layout, partials, page template
		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return nil
}

// getTemplateFiles returns all .html files in a directory. A missing
// directory yields no files.
func getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// templateFuncs returns custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format(time.RFC3339)
		},
		"isActive": func(current, href string) bool {
			if href == "/" {
				return current == "/"
			}
			return current == href || strings.HasPrefix(current, strings.TrimSuffix(href, "/")+"/")
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Site        *Site
	Meta        *seo.Meta
	Data        any
	CurrentPath string
	CurrentYear int
}

// Render renders the named page with the given status code. The page is
// executed into a buffer first so a template error never yields a half
// written response.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if data.Site == nil {
		data.Site = r.site
	}
	if data.Meta == nil {
		data.Meta = &seo.Meta{Title: r.site.Name, Description: r.site.Description}
	}
	if data.CurrentPath == "" && req != nil {
		data.CurrentPath = req.URL.Path
	}
	data.CurrentYear = time.Now().Year()

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
