// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "sort"

// Avatar sizes WordPress generates for every user.
const (
	AvatarSmall  = 24
	AvatarMedium = 48
	AvatarLarge  = 96
)

// Author represents a WordPress user as exposed by /wp/v2/users.
type Author struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Link        string         `json:"link"`
	AvatarURLs  map[int]string `json:"avatar_urls"`
}

// Avatar returns the avatar URL for the given pixel size.
// If that size is missing it returns the closest larger one,
// then the largest available. Returns "" when the author has no avatars.
func (a *Author) Avatar(size int) string {
	if url, ok := a.AvatarURLs[size]; ok && url != "" {
		return url
	}

	sizes := make([]int, 0, len(a.AvatarURLs))
	for s, url := range a.AvatarURLs {
		if url != "" {
			sizes = append(sizes, s)
		}
	}
	if len(sizes) == 0 {
		return ""
	}
	sort.Ints(sizes)

	for _, s := range sizes {
		if s > size {
			return a.AvatarURLs[s]
		}
	}
	return a.AvatarURLs[sizes[len(sizes)-1]]
}
