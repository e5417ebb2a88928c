// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"
)

const samplePostJSON = `{
	"id": 42,
	"date": "2024-03-05T14:30:00",
	"modified": "2024-03-06T09:00:00",
	"slug": "hello-world",
	"link": "https://cms.example.com/hello-world/",
	"title": {"rendered": "Hello &amp; welcome"},
	"excerpt": {"rendered": "<p>Short intro</p>\n"},
	"content": {"rendered": "<h2>Hi</h2><p>Body</p>", "protected": false},
	"author": 3,
	"featured_media": 0,
	"categories": [1, 7]
}`

func TestPostDecode(t *testing.T) {
	var p Post
	if err := json.Unmarshal([]byte(samplePostJSON), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if p.ID != 42 {
		t.Errorf("ID = %d, want 42", p.ID)
	}
	if p.Slug != "hello-world" {
		t.Errorf("Slug = %q, want %q", p.Slug, "hello-world")
	}
	if p.Title.Rendered != "Hello &amp; welcome" {
		t.Errorf("Title = %q", p.Title.Rendered)
	}
	if p.Content.String() != "<h2>Hi</h2><p>Body</p>" {
		t.Errorf("Content = %q", p.Content.String())
	}
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	if !p.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", p.Date.Time, want)
	}
	if len(p.Categories) != 2 || p.Categories[1] != 7 {
		t.Errorf("Categories = %v, want [1 7]", p.Categories)
	}
	if p.HasFeaturedMedia() {
		t.Error("HasFeaturedMedia() should be false for featured_media 0")
	}
	if !p.HasAuthor() {
		t.Error("HasAuthor() should be true")
	}
}

func TestPostLastModified(t *testing.T) {
	date := Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	modified := Time{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}

	p := Post{Date: date, Modified: modified}
	if !p.LastModified().Equal(modified.Time) {
		t.Errorf("LastModified() = %v, want %v", p.LastModified(), modified)
	}

	p.Modified = Time{}
	if !p.LastModified().Equal(date.Time) {
		t.Errorf("LastModified() = %v, want fallback %v", p.LastModified(), date)
	}
}

func TestTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"wordpress layout", `"2024-03-05T14:30:00"`, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), false},
		{"rfc3339", `"2024-03-05T14:30:00+02:00"`, time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC), false},
		{"null", `null`, time.Time{}, false},
		{"empty", `""`, time.Time{}, false},
		{"garbage", `"yesterday"`, time.Time{}, true},
		{"number", `12345`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Time
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, got.Time, tt.want)
			}
		})
	}
}

func TestTimeMarshal(t *testing.T) {
	data, err := json.Marshal(Time{time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2024-03-05T14:30:00"` {
		t.Errorf("Marshal = %s", data)
	}

	data, err = json.Marshal(Time{})
	if err != nil {
		t.Fatalf("Marshal zero: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Marshal zero = %s, want null", data)
	}
}

func TestAuthorDecodeAvatars(t *testing.T) {
	input := `{
		"id": 3,
		"name": "Jane Doe",
		"slug": "jane",
		"avatar_urls": {
			"24": "https://gravatar.example/24.png",
			"48": "https://gravatar.example/48.png",
			"96": "https://gravatar.example/96.png"
		}
	}`

	var a Author
	if err := json.Unmarshal([]byte(input), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := a.Avatar(AvatarMedium); got != "https://gravatar.example/48.png" {
		t.Errorf("Avatar(48) = %q", got)
	}
}

func TestAuthorAvatarFallback(t *testing.T) {
	tests := []struct {
		name    string
		avatars map[int]string
		size    int
		want    string
	}{
		{"exact", map[int]string{24: "a", 48: "b", 96: "c"}, 48, "b"},
		{"closest larger", map[int]string{24: "a", 96: "c"}, 48, "c"},
		{"largest smaller", map[int]string{24: "a"}, 48, "a"},
		{"skips empty", map[int]string{48: "", 96: "c"}, 48, "c"},
		{"none", nil, 48, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Author{AvatarURLs: tt.avatars}
			if got := a.Avatar(tt.size); got != tt.want {
				t.Errorf("Avatar(%d) = %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}

func TestMediaSizeURL(t *testing.T) {
	input := `{
		"id": 9,
		"source_url": "https://cms.example.com/full.jpg",
		"alt_text": "A cat",
		"media_details": {
			"width": 1200,
			"height": 800,
			"sizes": {
				"thumbnail": {"source_url": "https://cms.example.com/thumb.jpg", "width": 150, "height": 150}
			}
		}
	}`

	var m Media
	if err := json.Unmarshal([]byte(input), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got := m.SizeURL(SizeThumbnail); got != "https://cms.example.com/thumb.jpg" {
		t.Errorf("SizeURL(thumbnail) = %q", got)
	}
	if got := m.SizeURL(SizeLarge); got != "https://cms.example.com/full.jpg" {
		t.Errorf("SizeURL(large) = %q, want source_url fallback", got)
	}

	large := m.Size(SizeLarge)
	if large.Width != 1200 || large.Height != 800 {
		t.Errorf("Size(large) = %dx%d, want original 1200x800", large.Width, large.Height)
	}
}

func TestPostPageIsEmpty(t *testing.T) {
	p := &PostPage{}
	if !p.IsEmpty() {
		t.Error("IsEmpty() should be true for no posts")
	}
	p.Posts = []Post{{ID: 1}}
	if p.IsEmpty() {
		t.Error("IsEmpty() should be false with posts")
	}
}
