// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/url"
	"strconv"
)

// paginationWindow is the number of page links shown around the current page.
const paginationWindow = 5

// Pagination holds pagination data for templates.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	PrevURL     string
	NextURL     string
	Links       []PaginationLink
}

// PaginationLink is a single page link; Ellipsis entries have no URL.
type PaginationLink struct {
	Number   int
	URL      string
	Current  bool
	Ellipsis bool
}

// BuildPagination creates pagination links for a listing. baseURL is the
// path without a query string; query holds the filters to preserve, any
// "page" value in it is replaced.
func BuildPagination(currentPage, totalPages int, baseURL string, query url.Values) Pagination {
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}

	p := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
	}

	params := make(url.Values)
	for k, v := range query {
		if k != "page" && len(v) > 0 && v[0] != "" {
			params[k] = v
		}
	}

	pageURL := func(page int) string {
		if page > 1 {
			params.Set("page", strconv.Itoa(page))
		} else {
			params.Del("page")
		}
		defer params.Del("page")
		if qs := params.Encode(); qs != "" {
			return baseURL + "?" + qs
		}
		return baseURL
	}

	if currentPage > 1 {
		p.PrevURL = pageURL(min(currentPage-1, totalPages))
	}
	if currentPage < totalPages {
		p.NextURL = pageURL(currentPage + 1)
	}

	start := currentPage - paginationWindow/2
	end := currentPage + paginationWindow/2
	if start < 1 {
		start = 1
		end = paginationWindow
	}
	if end > totalPages {
		end = totalPages
		start = max(end-paginationWindow+1, 1)
	}

	if start > 1 {
		p.Links = append(p.Links, PaginationLink{Number: 1, URL: pageURL(1)})
		if start > 2 {
			p.Links = append(p.Links, PaginationLink{Ellipsis: true})
		}
	}

	for i := start; i <= end; i++ {
		p.Links = append(p.Links, PaginationLink{
			Number:  i,
			URL:     pageURL(i),
			Current: i == currentPage,
		})
	}

	if end < totalPages {
		if end < totalPages-1 {
			p.Links = append(p.Links, PaginationLink{Ellipsis: true})
		}
		p.Links = append(p.Links, PaginationLink{Number: totalPages, URL: pageURL(totalPages)})
	}

	return p
}
