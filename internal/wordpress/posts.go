// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wordpress

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/olegiv/shadpress-go/internal/model"
)

// Listing limits enforced by WordPress.
const (
	DefaultPerPage  = 10
	MaxPerPage      = 100
	MaxSearchLength = 200
)

// ListParams selects one page of posts. Zero Category and Author mean no filter.
type ListParams struct {
	Page     int    `validate:"gte=1"`
	PerPage  int    `validate:"gte=1,lte=100"`
	Search   string `validate:"max=200"`
	Category int64  `validate:"gte=0"`
	Author   int64  `validate:"gte=0"`
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("per_page", strconv.Itoa(p.PerPage))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Category > 0 {
		q.Set("categories", strconv.FormatInt(p.Category, 10))
	}
	if p.Author > 0 {
		q.Set("author", strconv.FormatInt(p.Author, 10))
	}
	return q
}

// GetPostBySlug returns the published post with the given slug.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	if slug == "" {
		return nil, ErrNotFound
	}

	q := url.Values{}
	q.Set("slug", slug)

	var posts []model.Post
	if _, err := c.getJSON(ctx, "posts", c.apiURL("/posts", q), &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return &posts[0], nil
}

// ListPosts returns one page of posts matching p.
// A page past the end yields an empty page instead of an error.
func (c *Client) ListPosts(ctx context.Context, p ListParams) (*model.PostPage, error) {
	if err := c.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	var posts []model.Post
	header, err := c.getJSON(ctx, "posts", c.apiURL("/posts", p.query()), &posts)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Code != codeInvalidPageNumber {
			return nil, err
		}
		posts = nil
		header = apiErr.header
	}

	page := &model.PostPage{
		Posts:   posts,
		Page:    p.Page,
		PerPage: p.PerPage,
	}
	page.Total, page.TotalPages = totals(header, len(posts), p)
	return page, nil
}

// totals reads X-WP-Total and X-WP-TotalPages, deriving what is missing.
func totals(h http.Header, got int, p ListParams) (total, totalPages int) {
	total = headerInt(h, "X-WP-Total")
	totalPages = headerInt(h, "X-WP-TotalPages")

	if total < 0 {
		total = got
		if got > 0 {
			total += (p.Page - 1) * p.PerPage
		}
	}
	if totalPages < 0 {
		totalPages = CalculateTotalPages(total, p.PerPage)
	}
	return total, totalPages
}

// CalculateTotalPages returns ceil(total/perPage).
func CalculateTotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
