// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the application.
package handler

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/shadpress-go/internal/content"
	"github.com/olegiv/shadpress-go/internal/metrics"
	"github.com/olegiv/shadpress-go/internal/model"
	"github.com/olegiv/shadpress-go/internal/render"
	"github.com/olegiv/shadpress-go/internal/restyle"
	"github.com/olegiv/shadpress-go/internal/seo"
	"github.com/olegiv/shadpress-go/internal/util"
	"github.com/olegiv/shadpress-go/internal/wordpress"
)

// Route paths.
const (
	RouteRoot       = "/"
	RouteBlog       = "/blog"
	RoutePostSlug   = "/blog/{slug}"
	RouteAuthorSlug = "/author/{slug}"
	RouteSitemap    = "/sitemap.xml"
	RouteRobots     = "/robots.txt"
)

// Page names used for templates and metrics.
const (
	pageBlog     = "blog"
	pageAuthor   = "author"
	pagePost     = "post"
	pageNotFound = "404"
	pageError    = "error"
)

// mediaLookupLimit bounds concurrent featured-media requests per listing.
const mediaLookupLimit = 4

// ContentSource is the read side of the content API the pages need.
// *wordpress.Client implements it.
type ContentSource interface {
	GetPostBySlug(ctx context.Context, slug string) (*model.Post, error)
	ListPosts(ctx context.Context, params wordpress.ListParams) (*model.PostPage, error)
	GetAuthorByID(ctx context.Context, id int64) (*model.Author, error)
	GetAuthorBySlug(ctx context.Context, slug string) (*model.Author, error)
	GetMediaByID(ctx context.Context, id int64) (*model.Media, error)
	GetCategoriesByIDs(ctx context.Context, ids []int64) ([]model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// FrontendConfig wires a FrontendHandler.
type FrontendConfig struct {
	Content      ContentSource
	Renderer     *render.Renderer
	Sanitizer    *content.Sanitizer
	Restyler     *restyle.Restyler
	Site         seo.SiteConfig
	PostsPerPage int
	DisallowAll  bool
	Logger       *slog.Logger
}

// FrontendHandler handles public blog routes.
type FrontendHandler struct {
	content      ContentSource
	renderer     *render.Renderer
	sanitizer    *content.Sanitizer
	restyler     *restyle.Restyler
	site         seo.SiteConfig
	postsPerPage int
	disallowAll  bool
	logger       *slog.Logger
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(cfg FrontendConfig) *FrontendHandler {
	h := &FrontendHandler{
		content:      cfg.Content,
		renderer:     cfg.Renderer,
		sanitizer:    cfg.Sanitizer,
		restyler:     cfg.Restyler,
		site:         cfg.Site,
		postsPerPage: cfg.PostsPerPage,
		disallowAll:  cfg.DisallowAll,
		logger:       cfg.Logger,
	}
	if h.sanitizer == nil {
		h.sanitizer = content.NewSanitizer(true)
	}
	if h.restyler == nil {
		h.restyler = restyle.New(nil)
	}
	if h.postsPerPage < 1 || h.postsPerPage > wordpress.MaxPerPage {
		h.postsPerPage = wordpress.DefaultPerPage
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// RegisterRoutes mounts the public pages on r.
func (h *FrontendHandler) RegisterRoutes(r chi.Router) {
	r.Get(RouteRoot, h.Home)
	r.Get(RouteBlog, h.Blog)
	r.Get(RoutePostSlug, h.Post)
	r.Get(RouteAuthorSlug, h.Author)
	r.Get(RouteSitemap, h.Sitemap)
	r.Get(RouteRobots, h.Robots)
	r.NotFound(h.NotFound)
}

// Home redirects the site root to the blog.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteBlog, http.StatusFound)
}

// Blog handles GET /blog.
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	h.renderListing(w, r, listing{
		page:    pageBlog,
		heading: "All Posts",
		baseURL: RouteBlog,
	})
}

// Author handles GET /author/{slug}: the blog listing filtered by one author.
func (h *FrontendHandler) Author(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug, ok := util.NormalizeSlug(chi.URLParam(r, "slug"))
	if !ok {
		h.renderNotFound(w, r, "Author not found")
		return
	}

	author, err := h.content.GetAuthorBySlug(ctx, slug)
	if err != nil {
		if wordpress.IsNotFound(err) {
			h.renderNotFound(w, r, "Author not found")
			return
		}
		h.renderUpstreamError(w, r, pageAuthor, err, "slug", slug)
		return
	}

	h.renderListing(w, r, listing{
		page:    pageAuthor,
		heading: "Posts by " + author.Name,
		baseURL: AuthorURL(author.Slug),
		author:  author,
	})
}

// listing describes one post listing route.
type listing struct {
	page    string
	heading string
	baseURL string
	author  *model.Author
}

// renderListing fetches one page of posts plus the category bar and renders
// the cards. Only the post list itself is required.
func (h *FrontendHandler) renderListing(w http.ResponseWriter, r *http.Request, l listing) {
	ctx := r.Context()
	query := r.URL.Query()

	params := wordpress.ListParams{
		Page:     parsePage(query.Get("page")),
		PerPage:  h.postsPerPage,
		Search:   util.NormalizeSearch(query.Get("search")),
		Category: parseID(query.Get("categories")),
	}
	if l.author != nil {
		params.Author = l.author.ID
	}

	var (
		page       *model.PostPage
		categories []model.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = h.content.ListPosts(gctx, params)
		return err
	})
	g.Go(func() error {
		var err error
		if categories, err = h.content.ListCategories(gctx); err != nil {
			h.logger.WarnContext(ctx, "category bar unavailable", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, wordpress.ErrInvalidParams) {
			h.renderNotFound(w, r, "")
			return
		}
		h.renderUpstreamError(w, r, l.page, err, "page", params.Page)
		return
	}

	media := h.lookupCardMedia(ctx, page.Posts)

	cards := make([]PostCard, 0, len(page.Posts))
	for i := range page.Posts {
		cards = append(cards, postCard(h.sanitizer, &page.Posts[i], media[page.Posts[i].FeaturedMedia]))
	}

	filters := url.Values{}
	if params.Search != "" {
		filters.Set("search", params.Search)
	}
	allURL := l.baseURL
	if len(filters) > 0 {
		allURL += "?" + filters.Encode()
	}
	if params.Category > 0 {
		filters.Set("categories", strconv.FormatInt(params.Category, 10))
	}

	data := ListingPage{
		Heading: l.heading,
		Author:  authorView(l.author),
		Posts:   cards,
		Total:   page.Total,
		Filters: ListFilters{
			Action:     l.baseURL,
			Search:     params.Search,
			CategoryID: params.Category,
			Categories: categoryLinks(categories, l.baseURL, params.Search, params.Category),
			AllURL:     allURL,
		},
		Pagination: BuildPagination(params.Page, page.TotalPages, l.baseURL, filters),
	}

	pageMeta := &seo.PageData{
		Title:   l.heading,
		Path:    l.baseURL,
		NoIndex: params.Search != "" || (page.TotalPages > 0 && params.Page > page.TotalPages),
	}
	if l.author != nil {
		pageMeta.Description = l.author.Description
	}
	if params.Page > 1 {
		pageMeta.Path = l.baseURL + "?page=" + strconv.Itoa(params.Page)
	}

	h.render(w, r, http.StatusOK, l.page, "blog", seo.BuildMeta(pageMeta, &h.site), data)
}

// lookupCardMedia resolves featured media for the cards concurrently.
// Failures are logged and leave the card without an image.
func (h *FrontendHandler) lookupCardMedia(ctx context.Context, posts []model.Post) map[int64]*model.Media {
	ids := make(map[int64]struct{})
	for i := range posts {
		if posts[i].HasFeaturedMedia() {
			ids[posts[i].FeaturedMedia] = struct{}{}
		}
	}

	results := make([]*model.Media, 0, len(ids))
	slots := make(map[int64]int, len(ids))
	for id := range ids {
		slots[id] = len(results)
		results = append(results, nil)
	}

	var g errgroup.Group
	g.SetLimit(mediaLookupLimit)
	for id, slot := range slots {
		g.Go(func() error {
			m, err := h.content.GetMediaByID(ctx, id)
			if err != nil {
				h.logger.WarnContext(ctx, "featured media unavailable", "media_id", id, "error", err)
				return nil
			}
			results[slot] = m
			return nil
		})
	}
	_ = g.Wait()

	media := make(map[int64]*model.Media, len(slots))
	for id, slot := range slots {
		if results[slot] != nil {
			media[id] = results[slot]
		}
	}
	return media
}

// Post handles GET /blog/{slug}.
func (h *FrontendHandler) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug, ok := util.NormalizeSlug(chi.URLParam(r, "slug"))
	if !ok {
		h.renderNotFound(w, r, "Post not found")
		return
	}

	post, err := h.content.GetPostBySlug(ctx, slug)
	if err != nil {
		if wordpress.IsNotFound(err) {
			h.renderNotFound(w, r, "Post not found")
			return
		}
		h.renderUpstreamError(w, r, pagePost, err, "slug", slug)
		return
	}

	var (
		media      *model.Media
		author     *model.Author
		categories []model.Category
	)

	// Related records are optional; each lookup logs and gives up on error.
	var g errgroup.Group
	if post.HasFeaturedMedia() {
		g.Go(func() error {
			m, err := h.content.GetMediaByID(ctx, post.FeaturedMedia)
			if err != nil {
				h.logger.WarnContext(ctx, "featured media unavailable", "media_id", post.FeaturedMedia, "error", err)
				return nil
			}
			media = m
			return nil
		})
	}
	if post.HasAuthor() {
		g.Go(func() error {
			a, err := h.content.GetAuthorByID(ctx, post.Author)
			if err != nil {
				h.logger.WarnContext(ctx, "author unavailable", "author_id", post.Author, "error", err)
				return nil
			}
			author = a
			return nil
		})
	}
	if len(post.Categories) > 0 {
		g.Go(func() error {
			c, err := h.content.GetCategoriesByIDs(ctx, post.Categories)
			if err != nil {
				h.logger.WarnContext(ctx, "categories unavailable", "post_id", post.ID, "error", err)
				return nil
			}
			categories = c
			return nil
		})
	}
	_ = g.Wait()

	titleText := h.sanitizer.Text(post.Title.Rendered)

	view := PostView{
		Title:      template.HTML(h.sanitizer.Inline(post.Title.Rendered)),
		Body:       h.renderBody(ctx, post),
		Date:       post.Date.Time,
		Author:     authorView(author),
		Categories: categoryLinks(categories, RouteBlog, "", 0),
	}
	if media != nil {
		view.Image = imageView(media, model.SizeFull, titleText)
	}

	pageMeta := &seo.PageData{
		Title:       titleText,
		Description: h.sanitizer.Text(post.Excerpt.Rendered),
		Path:        PostURL(post.Slug),
		Article:     true,
		PublishedAt: post.Date.Time,
		ModifiedAt:  post.LastModified().Time,
	}
	if view.Image != nil {
		pageMeta.Image = view.Image.URL
	}
	if author != nil {
		pageMeta.AuthorName = author.Name
	}

	h.render(w, r, http.StatusOK, pagePost, "post", seo.BuildMeta(pageMeta, &h.site), view)
}

// renderBody sanitizes then restyles the post body. A restyle failure falls
// back to the sanitized body.
func (h *FrontendHandler) renderBody(ctx context.Context, post *model.Post) template.HTML {
	clean := h.sanitizer.Body(post.Content.Rendered)
	styled, err := h.restyler.Restyle(clean)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to restyle post body", "post_id", post.ID, "error", err)
		return template.HTML(clean)
	}
	return template.HTML(styled)
}

// NotFound renders the 404 page for unmatched routes.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r, "")
}

// parsePage extracts a page number; anything invalid means page 1.
func parsePage(s string) int {
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parseID extracts a positive identifier; anything else means no filter.
func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// render renders a page template and records the outcome.
func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, status int, page, templateName string, meta *seo.Meta, data any) {
	err := h.renderer.Render(w, r, status, templateName, render.TemplateData{
		Meta: meta,
		Data: data,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render template", "template", templateName, "error", err)
		http.Error(w, "Template rendering error", http.StatusInternalServerError)
		metrics.IncPageRender(page, http.StatusInternalServerError)
		return
	}
	metrics.IncPageRender(page, status)
}

// renderNotFound renders the 404 page with an optional heading.
func (h *FrontendHandler) renderNotFound(w http.ResponseWriter, r *http.Request, title string) {
	data := MessagePage{
		Title:   "Page not found",
		Message: "The page you are looking for does not exist.",
	}
	if title != "" {
		data.Title = title
	}
	meta := seo.BuildMeta(&seo.PageData{Title: data.Title, NoIndex: true}, &h.site)
	meta.Canonical, meta.OGURL = "", ""
	h.render(w, r, http.StatusNotFound, pageNotFound, "404", meta, data)
}

// renderUpstreamError logs a content API failure and renders a 502 page.
func (h *FrontendHandler) renderUpstreamError(w http.ResponseWriter, r *http.Request, page string, err error, args ...any) {
	if errors.Is(err, context.Canceled) {
		h.logger.DebugContext(r.Context(), "request canceled", append(args, "page", page)...)
		metrics.IncPageRender(page, 499)
		return
	}

	h.logger.ErrorContext(r.Context(), "content API request failed", append(args, "page", page, "error", err)...)
	data := MessagePage{
		Title:   "Content unavailable",
		Message: "The blog could not load its content. Please try again in a moment.",
	}
	meta := seo.BuildMeta(&seo.PageData{Title: data.Title, NoIndex: true}, &h.site)
	meta.Canonical, meta.OGURL = "", ""
	h.render(w, r, http.StatusBadGateway, page, pageError, meta, data)
}
