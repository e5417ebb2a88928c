// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package wordpress is a read-only client for the WordPress REST API (wp/v2).
package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/shadpress-go/internal/metrics"
)

const (
	apiPrefix       = "/wp-json/wp/v2"
	maxResponseSize = 10 << 20 // 10 MiB

	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "shadpress"
)

// Client talks to a single WordPress site.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
	validate   *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the site at baseURL (without the /wp-json suffix).
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:    trimSlash(baseURL),
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
		logger:     logger,
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the site URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the REST API index answers.
func (c *Client) Ping(ctx context.Context) error {
	var index struct {
		Name string `json:"name"`
	}
	_, err := c.getJSON(ctx, "index", c.baseURL+"/wp-json/", &index)
	return err
}

// apiURL builds an absolute wp/v2 URL.
func (c *Client) apiURL(path string, query url.Values) string {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// getJSON issues a GET request and decodes the JSON body into dst.
// Non-2xx responses are returned as *APIError.
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, dst any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wordpress %s: new request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveContentAPI(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("wordpress %s: http call: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	duration := time.Since(start)
	metrics.ObserveContentAPI(endpoint, resp.StatusCode, duration)

	c.logger.Debug("content api request",
		"endpoint", endpoint,
		"url", rawURL,
		"status", resp.StatusCode,
		"duration", duration,
	)

	if err != nil {
		return nil, fmt.Errorf("wordpress %s: read body: %w", endpoint, err)
	}
	if len(body) > maxResponseSize {
		return nil, fmt.Errorf("wordpress %s: %w", endpoint, ErrResponseTooLarge)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(endpoint, resp, body)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return nil, fmt.Errorf("wordpress %s: decode: %w", endpoint, err)
	}
	return resp.Header, nil
}

// newAPIError builds an APIError from a WordPress error body when there is one.
func newAPIError(endpoint string, resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		header:     resp.Header,
	}
	var wpErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wpErr) == nil {
		apiErr.Code = wpErr.Code
		apiErr.Message = wpErr.Message
	}
	return apiErr
}

// headerInt reads an integer header, returning -1 when it is missing or malformed.
func headerInt(h http.Header, key string) int {
	v := h.Get(key)
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
