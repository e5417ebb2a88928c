// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wordpress

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/olegiv/shadpress-go/internal/model"
)

// GetAuthorByID returns the user with the given id.
func (c *Client) GetAuthorByID(ctx context.Context, id int64) (*model.Author, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	var a model.Author
	if _, err := c.getJSON(ctx, "users", c.apiURL("/users/"+strconv.FormatInt(id, 10), nil), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAuthorBySlug returns the user with the given slug.
func (c *Client) GetAuthorBySlug(ctx context.Context, slug string) (*model.Author, error) {
	if slug == "" {
		return nil, ErrNotFound
	}

	q := url.Values{}
	q.Set("slug", slug)

	var authors []model.Author
	if _, err := c.getJSON(ctx, "users", c.apiURL("/users", q), &authors); err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, ErrNotFound
	}
	return &authors[0], nil
}

// GetMediaByID returns the attachment with the given id.
func (c *Client) GetMediaByID(ctx context.Context, id int64) (*model.Media, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	var m model.Media
	if _, err := c.getJSON(ctx, "media", c.apiURL("/media/"+strconv.FormatInt(id, 10), nil), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetCategoryByID returns the category with the given id.
func (c *Client) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	var cat model.Category
	if _, err := c.getJSON(ctx, "categories", c.apiURL("/categories/"+strconv.FormatInt(id, 10), nil), &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetCategoriesByIDs returns the categories with the given ids in one request.
// Non-positive ids are ignored.
func (c *Client) GetCategoriesByIDs(ctx context.Context, ids []int64) ([]model.Category, error) {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
	}
	if len(parts) == 0 {
		return []model.Category{}, nil
	}
	if len(parts) > MaxPerPage {
		parts = parts[:MaxPerPage]
	}

	q := url.Values{}
	q.Set("include", strings.Join(parts, ","))
	q.Set("per_page", strconv.Itoa(len(parts)))

	var cats []model.Category
	if _, err := c.getJSON(ctx, "categories", c.apiURL("/categories", q), &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// ListCategories returns up to 100 non-empty categories, most used first.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(MaxPerPage))
	q.Set("orderby", "count")
	q.Set("order", "desc")
	q.Set("hide_empty", "true")

	var cats []model.Category
	if _, err := c.getJSON(ctx, "categories", c.apiURL("/categories", q), &cats); err != nil {
		return nil, err
	}
	return cats, nil
}
