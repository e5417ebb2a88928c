// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"html"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/shadpress-go/internal/content"
	"github.com/olegiv/shadpress-go/internal/model"
)

// PostCard is a post summary on a listing page.
type PostCard struct {
	Title   template.HTML
	Excerpt template.HTML // empty when the post has no excerpt
	Date    time.Time
	URL     string
	Image   *ImageView
}

// ImageView is an image ready for an <img> tag.
type ImageView struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

// AuthorView is the author block of a post or archive.
type AuthorView struct {
	Name        string
	Slug        string
	URL         string
	AvatarURL   string
	Description string
}

// CategoryLink links to the listing filtered by one category.
type CategoryLink struct {
	ID     int64
	Name   string
	URL    string
	Active bool
}

// ListFilters feeds the search box and category bar.
type ListFilters struct {
	Action     string
	Search     string
	CategoryID int64
	Categories []CategoryLink
	AllURL     string
}

// ListingPage is the data for pages/blog.html.
type ListingPage struct {
	Heading    string
	Author     *AuthorView
	Posts      []PostCard
	Total      int
	Filters    ListFilters
	Pagination Pagination
}

// PostView is the data for pages/post.html.
type PostView struct {
	Title      template.HTML
	Body       template.HTML
	Date       time.Time
	Author     *AuthorView
	Image      *ImageView
	Categories []CategoryLink
}

// MessagePage is the data for the 404 and error pages.
type MessagePage struct {
	Title   string
	Message string
}

// PostURL returns the site path of a post.
func PostURL(slug string) string {
	return "/blog/" + slug
}

// AuthorURL returns the site path of an author archive.
func AuthorURL(slug string) string {
	return "/author/" + slug
}

func postCard(s *content.Sanitizer, p *model.Post, media *model.Media) PostCard {
	card := PostCard{
		Title: template.HTML(s.Inline(p.Title.Rendered)),
		Date:  p.Date.Time,
		URL:   PostURL(p.Slug),
	}
	if s.Text(p.Excerpt.Rendered) != "" {
		card.Excerpt = template.HTML(s.Inline(p.Excerpt.Rendered))
	}
	if media != nil {
		card.Image = imageView(media, model.SizeThumbnail, s.Text(p.Title.Rendered))
	}
	return card
}

func imageView(m *model.Media, size, fallbackAlt string) *ImageView {
	variant := m.Size(size)
	if variant.SourceURL == "" {
		return nil
	}
	alt := strings.TrimSpace(m.AltText)
	if alt == "" {
		alt = fallbackAlt
	}
	return &ImageView{
		URL:    variant.SourceURL,
		Alt:    alt,
		Width:  variant.Width,
		Height: variant.Height,
	}
}

func authorView(a *model.Author) *AuthorView {
	if a == nil {
		return nil
	}
	return &AuthorView{
		Name:        a.Name,
		Slug:        a.Slug,
		URL:         AuthorURL(a.Slug),
		AvatarURL:   a.Avatar(model.AvatarMedium),
		Description: a.Description,
	}
}

// categoryLinks links each category to baseURL filtered by it, keeping the
// current search term. WordPress returns names HTML-escaped.
func categoryLinks(categories []model.Category, baseURL, search string, active int64) []CategoryLink {
	links := make([]CategoryLink, 0, len(categories))
	for _, c := range categories {
		q := url.Values{}
		q.Set("categories", strconv.FormatInt(c.ID, 10))
		if search != "" {
			q.Set("search", search)
		}
		links = append(links, CategoryLink{
			ID:     c.ID,
			Name:   html.UnescapeString(c.Name),
			URL:    baseURL + "?" + q.Encode(),
			Active: c.ID == active,
		})
	}
	return links
}
