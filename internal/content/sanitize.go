// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content cleans HTML and Markdown coming from the content API or
// configuration before it is rendered as trusted template HTML.
package content

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Sanitizer holds the policies used for remote HTML.
type Sanitizer struct {
	enabled bool
	body    *bluemonday.Policy
	inline  *bluemonday.Policy
	strict  *bluemonday.Policy
	md      goldmark.Markdown
}

// NewSanitizer creates a Sanitizer. When enabled is false, Body and Inline
// pass HTML through unchanged; Text and Markdown always sanitize.
func NewSanitizer(enabled bool) *Sanitizer {
	return &Sanitizer{
		enabled: enabled,
		body:    bodyPolicy(),
		inline:  inlinePolicy(),
		strict:  bluemonday.StrictPolicy(),
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		),
	}
}

// bodyPolicy is the UGC policy plus the attributes WordPress blocks rely on.
func bodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^(lazy|eager)$`)).OnElements("img")
	p.AllowAttrs("decoding").Matching(regexp.MustCompile(`^(async|sync|auto)$`)).OnElements("img")
	p.AllowElements("figure", "figcaption")
	return p
}

func inlinePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "code", "mark", "small", "sub", "sup", "s", "del", "ins", "br", "span")
	return p
}

// Enabled reports whether Body and Inline sanitize.
func (s *Sanitizer) Enabled() bool {
	return s.enabled
}

// Body cleans a post body fragment.
func (s *Sanitizer) Body(fragment string) string {
	if !s.enabled {
		return fragment
	}
	return s.body.Sanitize(fragment)
}

// Inline cleans a title-like fragment, keeping inline formatting only.
func (s *Sanitizer) Inline(fragment string) string {
	if !s.enabled {
		return fragment
	}
	return s.inline.Sanitize(fragment)
}

// Text strips all markup and returns plain text with collapsed whitespace.
func (s *Sanitizer) Text(fragment string) string {
	return Text(s.strict, fragment)
}

// Text strips all markup from fragment using policy p.
func Text(p *bluemonday.Policy, fragment string) string {
	stripped := html.UnescapeString(p.Sanitize(fragment))
	return strings.Join(strings.Fields(stripped), " ")
}

// Markdown renders md to HTML and sanitizes the result.
func (s *Sanitizer) Markdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return s.body.Sanitize(buf.String()), nil
}
