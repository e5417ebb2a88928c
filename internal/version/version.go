// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// String formats the info for the -version flag.
func (i Info) String() string {
	return fmt.Sprintf("shadpress %s (commit: %s, built: %s)", or(i.Version, "dev"), or(i.GitCommit, "unknown"), or(i.BuildTime, "unknown"))
}

// UserAgent returns the User-Agent sent to the content API.
func (i Info) UserAgent() string {
	return "shadpress/" + or(i.Version, "dev")
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
