// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithHeaders(cfg SecurityHeadersConfig, path string) http.Header {
	h := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Header()
}

func TestSecurityHeaders_BlogPage(t *testing.T) {
	got := serveWithHeaders(DefaultSecurityHeadersConfig(false, "http://wp.internal"), "/blog/hello-world")

	want := map[string]string{
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"X-Frame-Options":           "SAMEORIGIN",
		"X-Content-Type-Options":    "nosniff",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got.Get(header) != value {
			t.Errorf("%s = %q, want %q", header, got.Get(header), value)
		}
	}

	csp := got.Get("Content-Security-Policy")
	for _, directive := range []string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline'",
		"img-src 'self' data: https: http://wp.internal",
		"object-src 'none'",
		"frame-ancestors 'self'",
	} {
		if !strings.Contains(csp, directive) {
			t.Errorf("CSP missing %q: %s", directive, csp)
		}
	}
	if !strings.HasPrefix(csp, "default-src") {
		t.Errorf("CSP should start with default-src: %s", csp)
	}

	if pp := got.Get("Permissions-Policy"); !strings.Contains(pp, "browsing-topics=()") || !strings.Contains(pp, "camera=()") {
		t.Errorf("Permissions-Policy = %q", pp)
	}
}

func TestSecurityHeaders_DevelopmentSkipsHSTS(t *testing.T) {
	got := serveWithHeaders(DefaultSecurityHeadersConfig(true), "/")

	if hsts := got.Get("Strict-Transport-Security"); hsts != "" {
		t.Errorf("expected no HSTS in development, got %q", hsts)
	}
	if got.Get("Content-Security-Policy") == "" {
		t.Error("CSP should still be set in development")
	}
}

func TestSecurityHeaders_ExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/metrics", "/health/"}

	tests := []struct {
		path        string
		wantHeaders bool
	}{
		{"/", true},
		{"/blog/hello-world", true},
		{"/metrics", false},
		{"/health/ready", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			csp := serveWithHeaders(cfg, tt.path).Get("Content-Security-Policy")
			if tt.wantHeaders != (csp != "") {
				t.Errorf("path %s: CSP = %q, want headers %v", tt.path, csp, tt.wantHeaders)
			}
		})
	}
}

func TestSecurityHeaders_HSTSOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  SecurityHeadersConfig
		want string
	}{
		{"max-age only", SecurityHeadersConfig{HSTSMaxAge: 600}, "max-age=600"},
		{"preload", SecurityHeadersConfig{HSTSMaxAge: 63072000, HSTSIncludeSubDomains: true, HSTSPreload: true}, "max-age=63072000; includeSubDomains; preload"},
		{"disabled", SecurityHeadersConfig{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serveWithHeaders(tt.cfg, "/").Get("Strict-Transport-Security"); got != tt.want {
				t.Errorf("HSTS = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildCSP_KnownOrder(t *testing.T) {
	csp := buildCSP(map[string]string{
		"img-src":     "'self' data:",
		"default-src": "'self'",
		"script-src":  "'self'",
	})
	want := "default-src 'self'; script-src 'self'; img-src 'self' data:"
	if csp != want {
		t.Errorf("buildCSP = %q, want %q", csp, want)
	}
}

func TestDefaultSecurityHeadersConfigImages(t *testing.T) {
	prod := DefaultSecurityHeadersConfig(false, "http://wp.local:8000", "https://cms.example.com")
	if !strings.Contains(prod.ContentSecurityPolicy, "img-src 'self' data: https: http://wp.local:8000;") {
		t.Errorf("img-src should allow https and the plain-http media origin, got: %s", prod.ContentSecurityPolicy)
	}
	if strings.Contains(prod.ContentSecurityPolicy, "https://cms.example.com") {
		t.Error("https origins are already covered by https:")
	}

	dev := DefaultSecurityHeadersConfig(true)
	if !strings.Contains(dev.ContentSecurityPolicy, "http:") {
		t.Errorf("development img-src should allow http:, got: %s", dev.ContentSecurityPolicy)
	}
	if !strings.Contains(dev.ContentSecurityPolicy, "frame-src 'none'") {
		t.Error("frames should be blocked")
	}
}

func TestBuildPermissionsPolicyStable(t *testing.T) {
	policies := map[string]string{"usb": "()", "camera": "()", "geolocation": "()"}

	first := buildPermissionsPolicy(policies)
	for i := 0; i < 10; i++ {
		if got := buildPermissionsPolicy(policies); got != first {
			t.Fatalf("buildPermissionsPolicy not stable: %q vs %q", got, first)
		}
	}
	if first != "camera=(), geolocation=(), usb=()" {
		t.Errorf("buildPermissionsPolicy = %q", first)
	}
}

func TestBuildCSPExtraDirectivesSorted(t *testing.T) {
	csp := buildCSP(map[string]string{
		"default-src":  "'self'",
		"worker-src":   "'none'",
		"manifest-src": "'self'",
	})
	want := "default-src 'self'; manifest-src 'self'; worker-src 'none'"
	if csp != want {
		t.Errorf("buildCSP = %q, want %q", csp, want)
	}
}
