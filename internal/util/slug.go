// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides slug and search term helpers with Unicode
// normalization support.
package util

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Limits on user-supplied path and query values.
const (
	MaxSlugLength   = 200
	MaxSearchLength = 200
)

// IsValidSlug checks if s looks like a WordPress post slug: lowercase
// letters, digits, hyphens, underscores and lowercase-hex percent-encoded
// octets, without leading, trailing or doubled hyphens.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > MaxSlugLength {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		case c == '%':
			if i+2 >= len(s) || !isLowerHex(s[i+1]) || !isLowerHex(s[i+2]) {
				return false
			}
			i += 2
		default:
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	return !strings.Contains(s, "--")
}

func isLowerHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

// NormalizeSlug turns a slug taken from a request path into the form
// WordPress stores: NFC, ASCII letters lowercased, non-ASCII bytes
// percent-encoded in lowercase. It reports false when the result is not a valid slug.
func NormalizeSlug(raw string) (string, bool) {
	decoded, err := url.PathUnescape(raw)
	if err != nil || !utf8.ValidString(decoded) {
		return "", false
	}
	decoded = norm.NFC.String(decoded)

	var b strings.Builder
	for i := 0; i < len(decoded); i++ {
		c := decoded[i]
		if c >= utf8.RuneSelf {
			_, _ = fmt.Fprintf(&b, "%%%02x", c)
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}

	slug := b.String()
	return slug, IsValidSlug(slug)
}

// NormalizeSearch prepares a search term for the content API: NFC,
// whitespace collapsed, at most MaxSearchLength runes.
func NormalizeSearch(s string) string {
	s = strings.Join(strings.Fields(norm.NFC.String(s)), " ")
	if utf8.RuneCountInString(s) <= MaxSearchLength {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:MaxSearchLength]))
}
