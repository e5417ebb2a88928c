// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the records decoded from the WordPress REST API.
package model

// Rendered wraps an HTML fragment as WordPress returns it: {"rendered": "..."}.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// String returns the rendered HTML.
func (r Rendered) String() string {
	return r.Rendered
}

// Post represents a published WordPress post.
type Post struct {
	ID            int64    `json:"id"`
	Slug          string   `json:"slug"`
	Link          string   `json:"link"`
	Title         Rendered `json:"title"`
	Excerpt       Rendered `json:"excerpt"`
	Content       Rendered `json:"content"`
	Date          Time     `json:"date"`
	Modified      Time     `json:"modified"`
	Author        int64    `json:"author"`
	FeaturedMedia int64    `json:"featured_media"` // 0 means no featured image
	Categories    []int64  `json:"categories"`
}

// HasFeaturedMedia returns true if the post references a featured image.
func (p *Post) HasFeaturedMedia() bool {
	return p.FeaturedMedia != 0
}

// HasAuthor returns true if the post references an author.
func (p *Post) HasAuthor() bool {
	return p.Author != 0
}

// LastModified returns the modification time, falling back to the publication date.
func (p *Post) LastModified() Time {
	if p.Modified.IsZero() {
		return p.Date
	}
	return p.Modified
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts      []Post
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// IsEmpty returns true if the page holds no posts.
func (p *PostPage) IsEmpty() bool {
	return len(p.Posts) == 0
}
