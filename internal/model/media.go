// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Size variants registered by a default WordPress install.
const (
	SizeThumbnail   = "thumbnail"
	SizeMedium      = "medium"
	SizeMediumLarge = "medium_large"
	SizeLarge       = "large"
	SizeFull        = "full"
)

// MediaSize is a single generated image variant.
type MediaSize struct {
	SourceURL string `json:"source_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MimeType  string `json:"mime_type"`
}

// MediaDetails holds the dimensions and variants of an attachment.
type MediaDetails struct {
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
	Sizes  map[string]MediaSize `json:"sizes"`
}

// Media represents a WordPress attachment.
type Media struct {
	ID           int64        `json:"id"`
	Slug         string       `json:"slug"`
	SourceURL    string       `json:"source_url"`
	AltText      string       `json:"alt_text"`
	MimeType     string       `json:"mime_type"`
	MediaDetails MediaDetails `json:"media_details"`
}

// SizeURL returns the URL of the named variant, or SourceURL if it was not generated.
func (m *Media) SizeURL(name string) string {
	if s, ok := m.MediaDetails.Sizes[name]; ok && s.SourceURL != "" {
		return s.SourceURL
	}
	return m.SourceURL
}

// Size returns the named variant, or the original dimensions when it is missing.
func (m *Media) Size(name string) MediaSize {
	if s, ok := m.MediaDetails.Sizes[name]; ok && s.SourceURL != "" {
		return s
	}
	return MediaSize{
		SourceURL: m.SourceURL,
		Width:     m.MediaDetails.Width,
		Height:    m.MediaDetails.Height,
		MimeType:  m.MimeType,
	}
}
