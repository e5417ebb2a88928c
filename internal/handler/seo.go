// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/shadpress-go/internal/metrics"
	"github.com/olegiv/shadpress-go/internal/seo"
	"github.com/olegiv/shadpress-go/internal/wordpress"
)

// Sitemap listing limits: pages of MaxPerPage posts, at most sitemapMaxPages of them.
const sitemapMaxPages = 10

// Sitemap handles GET /sitemap.xml.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var posts []seo.SitemapPost
	for page := 1; page <= sitemapMaxPages; page++ {
		result, err := h.content.ListPosts(ctx, wordpress.ListParams{
			Page:    page,
			PerPage: wordpress.MaxPerPage,
		})
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to list posts for sitemap", "page", page, "error", err)
			http.Error(w, "Sitemap unavailable", http.StatusBadGateway)
			metrics.IncPageRender("sitemap", http.StatusBadGateway)
			return
		}

		for i := range result.Posts {
			p := &result.Posts[i]
			posts = append(posts, seo.SitemapPost{
				Slug:     p.Slug,
				Modified: p.LastModified().Time,
			})
		}

		if page >= result.TotalPages || result.IsEmpty() {
			break
		}
	}

	data, err := seo.GenerateSitemap(h.site.SiteURL, posts)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		metrics.IncPageRender("sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(data)
	metrics.IncPageRender("sitemap", http.StatusOK)
}

// Robots handles GET /robots.txt.
func (h *FrontendHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateRobots(h.site.SiteURL, h.disallowAll)))
	metrics.IncPageRender("robots", http.StatusOK)
}
