// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wordpress

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by the client.
var (
	ErrNotFound         = errors.New("wordpress: not found")
	ErrInvalidParams    = errors.New("wordpress: invalid parameters")
	ErrResponseTooLarge = errors.New("wordpress: response too large")
)

// WordPress error codes the client reacts to.
const (
	codeInvalidPageNumber = "rest_post_invalid_page_number"
)

// APIError is a non-2xx response from the content API.
type APIError struct {
	StatusCode int
	Code       string // WordPress error code, e.g. rest_post_invalid_id
	Message    string
	Endpoint   string

	header http.Header
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("wordpress %s: status %d: %s: %s", e.Endpoint, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("wordpress %s: status %d", e.Endpoint, e.StatusCode)
}

// Is reports a 404 response as ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsNotFound returns true if err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
