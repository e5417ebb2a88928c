// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"net/url"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the blog.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapPost is a post to list in the sitemap.
type SitemapPost struct {
	Slug     string
	Modified time.Time
}

// SitemapBuilder accumulates sitemap entries.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the site root and the blog index.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls,
		SitemapURL{Loc: b.siteURL + "/", ChangeFreq: ChangeFreqDaily, Priority: "1.0"},
		SitemapURL{Loc: b.siteURL + "/blog", ChangeFreq: ChangeFreqDaily, Priority: "0.9"},
	)
}

// AddPost adds a /blog/{slug} entry.
func (b *SitemapBuilder) AddPost(post SitemapPost) {
	if post.Slug == "" {
		return
	}
	entry := SitemapURL{
		Loc:        b.siteURL + "/blog/" + url.PathEscape(post.Slug),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	}
	// WordPress already percent-encodes non-ASCII slugs.
	if strings.Contains(post.Slug, "%") {
		entry.Loc = b.siteURL + "/blog/" + post.Slug
	}
	if !post.Modified.IsZero() {
		entry.LastMod = post.Modified.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, entry)
}

// AddPosts adds multiple posts.
func (b *SitemapBuilder) AddPosts(posts []SitemapPost) {
	for _, p := range posts {
		b.AddPost(p)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds a sitemap for the homepage, the blog index and posts.
func GenerateSitemap(siteURL string, posts []SitemapPost) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddHomepage()
	builder.AddPosts(posts)
	return builder.Build()
}
