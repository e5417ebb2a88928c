// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/shadpress-go/internal/config"
	"github.com/olegiv/shadpress-go/internal/seo"
	"github.com/olegiv/shadpress-go/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<title>{{.Meta.Title}}</title>` +
				`{{template "nav" .}}<main>{{template "content" .}}</main>` +
				`<footer>{{.Site.Footer}} {{.CurrentYear}}</footer>{{end}}`)},
		"partials/nav.html": {Data: []byte(
			`{{define "nav"}}{{$cur := .CurrentPath}}{{range .Site.Nav}}` +
				`<a href="{{.URL}}"{{if isActive $cur .URL}} class="active"{{end}}>{{.Title}}</a>{{end}}{{end}}`)},
		"pages/hello.html": {Data: []byte(`{{define "content"}}Hello {{.Data}}{{end}}`)},
		"pages/broken.html": {Data: []byte(`{{define "content"}}{{.Data.Missing}}{{end}}`)},
		"pages/notes.txt":   {Data: []byte(`ignored`)},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Config{
		TemplatesFS: testFS(),
		Site: &Site{
			Name:   "ShadPress",
			Nav:    []config.NavItem{{Title: "Blog", URL: "/blog"}, {Title: "Home", URL: "/"}},
			Footer: template.HTML("<em>footer</em>"),
		},
	})
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	r := newTestRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	require.NoError(t, r.Render(httptest.NewRecorder(), req, http.StatusOK, "hello", TemplateData{}))

	// Only .html files under pages/ become templates.
	err := r.Render(httptest.NewRecorder(), req, http.StatusOK, "notes", TemplateData{})
	assert.ErrorContains(t, err, "template notes not found")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err, "nil filesystem")

	_, err = New(Config{TemplatesFS: fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
	}})
	assert.ErrorContains(t, err, "no templates found")

	_, err = New(Config{TemplatesFS: fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
		"pages/bad.html":    {Data: []byte(`{{define "content"}}{{.Unclosed}`)},
	}})
	assert.ErrorContains(t, err, "parsing template bad")
}

func TestNew_NilSiteDefaults(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "hello", TemplateData{}))
	assert.Contains(t, w.Body.String(), "<main>Hello </main>")
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/blog/some-post", nil)
	err := r.Render(w, req, http.StatusTeapot, "hello", TemplateData{
		Meta: &seo.Meta{Title: "Greeting"},
		Data: "<world>",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "<title>Greeting</title>")
	assert.Contains(t, body, "<main>Hello &lt;world&gt;</main>")
	assert.Contains(t, body, `<a href="/blog" class="active">Blog</a>`)
	assert.Contains(t, body, `<a href="/">Home</a>`)
	assert.Contains(t, body, "<em>footer</em>")
	assert.Contains(t, body, time.Now().Format("2006"))
}

func TestRender_DefaultMeta(t *testing.T) {
	r := newTestRenderer(t)

	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "hello", TemplateData{}))

	assert.Contains(t, w.Body.String(), "<title>ShadPress</title>")
	assert.Contains(t, w.Body.String(), `<a href="/" class="active">Home</a>`)
}

func TestRender_MissingTemplate(t *testing.T) {
	r := newTestRenderer(t)

	w := httptest.NewRecorder()
	err := r.Render(w, nil, http.StatusOK, "nope", TemplateData{})

	assert.ErrorContains(t, err, "template nope not found")
	assert.Zero(t, w.Body.Len())
}

func TestRender_ExecutionErrorWritesNothing(t *testing.T) {
	r := newTestRenderer(t)

	w := httptest.NewRecorder()
	err := r.Render(w, nil, http.StatusOK, "broken", TemplateData{Data: 42})

	assert.Error(t, err)
	assert.Zero(t, w.Body.Len())
	assert.Empty(t, w.Header().Get("Content-Type"))
}

func TestTemplateFuncs_FormatDate(t *testing.T) {
	formatDate := templateFuncs()["formatDate"].(func(time.Time) string)
	isoDate := templateFuncs()["isoDate"].(func(time.Time) string)

	ts := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "May 1, 2024", formatDate(ts))
	assert.Equal(t, "2024-05-01T10:00:00Z", isoDate(ts))
	assert.Empty(t, formatDate(time.Time{}))
	assert.Empty(t, isoDate(time.Time{}))

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	assert.Equal(t, "2024-05-01T08:00:00Z", isoDate(time.Date(2024, time.May, 1, 10, 0, 0, 0, plus2)))
}

func TestTemplateFuncs_IsActive(t *testing.T) {
	isActive := templateFuncs()["isActive"].(func(string, string) bool)

	tests := []struct {
		current, href string
		want          bool
	}{
		{"/", "/", true},
		{"/blog", "/", false},
		{"/blog", "/blog", true},
		{"/blog/hello", "/blog", true},
		{"/blogroll", "/blog", false},
		{"/author/jane", "/blog", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isActive(tt.current, tt.href), "%s vs %s", tt.current, tt.href)
	}
}

func TestNew_EmbeddedTemplates(t *testing.T) {
	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)

	r, err := New(Config{TemplatesFS: templatesFS})
	require.NoError(t, err)

	page := struct{ Title, Message string }{"Not found", "Nothing here"}
	for _, name := range []string{"404", "error"} {
		w := httptest.NewRecorder()
		err := r.Render(w, httptest.NewRequest(http.MethodGet, "/missing", nil), http.StatusNotFound, name, TemplateData{Data: page})
		require.NoError(t, err, name)
		assert.Equal(t, http.StatusNotFound, w.Code, name)
		assert.Contains(t, w.Body.String(), "Nothing here", name)
	}
}
