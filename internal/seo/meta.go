// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds page meta tags, JSON-LD structured data, sitemaps and
// robots.txt for the blog.
package seo

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength is the rune limit applied to meta descriptions.
const MaxDescriptionLength = 160

// Meta holds all SEO meta tag data for a page.
type Meta struct {
	Title         string // <title>
	Description   string
	Canonical     string // absolute URL
	OGTitle       string
	OGDescription string
	OGImage       string // absolute URL
	OGType        string // website or article
	OGSiteName    string
	OGURL         string
	Robots        string
	TwitterCard   string

	// Article only.
	PublishedTime string
	ModifiedTime  string
	AuthorName    string

	// Schema is the JSON-LD document for the page, if any.
	Schema template.JS
}

// PageData describes a rendered page. Title and Description are plain text.
type PageData struct {
	Title       string
	Description string
	Path        string // site-relative, e.g. /blog/hello-world
	Image       string // featured image, absolute or site-relative
	Article     bool
	PublishedAt time.Time
	ModifiedAt  time.Time
	AuthorName  string
	NoIndex     bool
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
}

// BuildMeta creates a Meta from page and site data with fallbacks.
// A nil page yields the site defaults.
func BuildMeta(page *PageData, site *SiteConfig) *Meta {
	meta := &Meta{
		OGType:      "website",
		TwitterCard: "summary_large_image",
		OGSiteName:  site.SiteName,
		Title:       site.SiteName,
		Description: site.SiteDescription,
		Canonical:   strings.TrimSuffix(site.SiteURL, "/"),
		Robots:      "index,follow",
	}
	if site.DefaultOGImage != "" {
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
	}

	if page != nil {
		if page.Title != "" {
			meta.Title = page.Title
		}
		if desc := collapseSpace(page.Description); desc != "" {
			meta.Description = truncateText(desc, MaxDescriptionLength)
		}
		if page.Path != "" {
			meta.Canonical = makeAbsoluteURL(page.Path, site.SiteURL)
		}
		if page.Image != "" {
			meta.OGImage = makeAbsoluteURL(page.Image, site.SiteURL)
		}
		if page.NoIndex {
			meta.Robots = "noindex,follow"
		}
		if page.Article {
			meta.OGType = "article"
			meta.AuthorName = page.AuthorName
			meta.PublishedTime = formatTime(page.PublishedAt)
			meta.ModifiedTime = formatTime(page.ModifiedAt)
			meta.Schema = BuildArticleSchema(page, site)
		}
	}

	meta.OGTitle = meta.Title
	meta.OGDescription = meta.Description
	meta.OGURL = meta.Canonical

	if page == nil || !page.Article {
		meta.Schema = BuildWebSiteSchema(site)
	}

	return meta
}

// ArticleSchema represents JSON-LD Article structured data.
type ArticleSchema struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	Author           *PersonSchema `json:"author,omitempty"`
	Publisher        *OrgSchema    `json:"publisher,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
}

// PersonSchema represents JSON-LD Person structured data.
type PersonSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	Logo *ImageSchema `json:"logo,omitempty"`
}

// ImageSchema represents JSON-LD ImageObject structured data.
type ImageSchema struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// WebSiteSchema represents JSON-LD WebSite structured data.
type WebSiteSchema struct {
	Context      string        `json:"@context"`
	Type         string        `json:"@type"`
	Name         string        `json:"name"`
	URL          string        `json:"url"`
	Description  string        `json:"description,omitempty"`
	SearchAction *SearchAction `json:"potentialAction,omitempty"`
}

// SearchAction points search engines at the blog search box.
type SearchAction struct {
	Type       string `json:"@type"`
	Target     string `json:"target"`
	QueryInput string `json:"query-input"`
}

// BuildArticleSchema creates JSON-LD Article data for a post page.
func BuildArticleSchema(page *PageData, site *SiteConfig) template.JS {
	if page == nil {
		return ""
	}

	article := ArticleSchema{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         page.Title,
		Description:      truncateText(collapseSpace(page.Description), MaxDescriptionLength),
		Image:            makeAbsoluteURL(page.Image, site.SiteURL),
		DatePublished:    formatTime(page.PublishedAt),
		DateModified:     formatTime(page.ModifiedAt),
		MainEntityOfPage: makeAbsoluteURL(page.Path, site.SiteURL),
		Publisher: &OrgSchema{
			Type: "Organization",
			Name: site.SiteName,
		},
	}
	if page.AuthorName != "" {
		article.Author = &PersonSchema{Type: "Person", Name: page.AuthorName}
	}
	if site.DefaultOGImage != "" {
		article.Publisher.Logo = &ImageSchema{
			Type: "ImageObject",
			URL:  makeAbsoluteURL(site.DefaultOGImage, site.SiteURL),
		}
	}

	return marshalJSONLD(article)
}

// BuildWebSiteSchema creates JSON-LD WebSite data with a search action.
func BuildWebSiteSchema(site *SiteConfig) template.JS {
	base := strings.TrimSuffix(site.SiteURL, "/")
	return marshalJSONLD(WebSiteSchema{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        site.SiteName,
		URL:         base,
		Description: site.SiteDescription,
		SearchAction: &SearchAction{
			Type:       "SearchAction",
			Target:     base + "/blog?search={search_term_string}",
			QueryInput: "required name=search_term_string",
		},
	})
}

// marshalJSONLD marshals structured data for a <script type="application/ld+json">.
// encoding/json escapes <, > and & so the output cannot close the script element.
func marshalJSONLD(v any) template.JS {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(data)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// truncateText truncates text to maxLen runes, preferring a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	truncated := string([]rune(text)[:maxLen])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL prefixes site-relative URLs with the site URL.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
