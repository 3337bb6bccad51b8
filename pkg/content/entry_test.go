package content

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseEntry(t *testing.T) {
	src := []byte(`---
title: Street View Audio Overlays
description: Layering positional audio onto panoramas.
date: 2025-01-08
updated: 2025-02-01
hero: /images/audio-overlay.png
tags:
  - audio
  - maps
---
# Placement

Anchor each source to a **panorama** heading.
`)

	entry, err := ParseEntry("content/posts/audio.md", "posts/audio.md", src, NewMarkdown())
	if err != nil {
		t.Fatalf("ParseEntry() error = %v", err)
	}

	if entry.Title != "Street View Audio Overlays" {
		t.Errorf("Title = %q", entry.Title)
	}
	if entry.Slug != "posts/audio" {
		t.Errorf("Slug = %q, want posts/audio", entry.Slug)
	}
	if want := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC); !entry.Published.Equal(want) {
		t.Errorf("Published = %v, want %v", entry.Published, want)
	}
	if entry.Updated == nil || !entry.Updated.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Updated = %v", entry.Updated)
	}
	if entry.Hero != "/images/audio-overlay.png" {
		t.Errorf("Hero = %q", entry.Hero)
	}
	if len(entry.Tags) != 2 {
		t.Errorf("Tags = %v", entry.Tags)
	}
	if !strings.Contains(string(entry.HTML), "<strong>panorama</strong>") {
		t.Errorf("HTML missing rendered markdown: %q", entry.HTML)
	}
	if !strings.Contains(string(entry.HTML), `id="placement"`) {
		t.Errorf("HTML missing auto heading id: %q", entry.HTML)
	}
}

func TestParseEntry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		missing []string
	}{
		{
			name:    "missing title",
			src:     "---\ndescription: d\ndate: 2025-01-02\n---\nbody",
			missing: []string{"title"},
		},
		{
			name:    "missing description",
			src:     "---\ntitle: t\ndate: 2025-01-02\n---\nbody",
			missing: []string{"description"},
		},
		{
			name:    "missing date",
			src:     "---\ntitle: t\ndescription: d\n---\nbody",
			missing: []string{"date"},
		},
		{
			name:    "everything missing",
			src:     "no front matter at all",
			missing: []string{"title", "description", "date"},
		},
		{
			name:    "bad date",
			src:     "---\ntitle: t\ndescription: d\ndate: January 8th\n---\nbody",
			missing: []string{"date"},
		},
		{
			name:    "bad updated",
			src:     "---\ntitle: t\ndescription: d\ndate: 2025-01-02\nupdated: later\n---\nbody",
			missing: []string{"updated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntry("x.md", "x.md", []byte(tt.src), NewMarkdown())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ParseEntry() error = %v, want *ValidationError", err)
			}
			for _, field := range tt.missing {
				found := false
				for _, f := range verr.Fields {
					if strings.HasPrefix(f, field+":") {
						found = true
					}
				}
				if !found {
					t.Errorf("validation error %v does not flag field %q", verr.Fields, field)
				}
			}
		})
	}
}

func TestParseEntry_DateFormats(t *testing.T) {
	tests := []struct {
		date string
		want time.Time
	}{
		{"2025-01-08", time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)},
		{"2025-01-08T09:30:00Z", time.Date(2025, 1, 8, 9, 30, 0, 0, time.UTC)},
		{"2025-01-08T09:30:00", time.Date(2025, 1, 8, 9, 30, 0, 0, time.UTC)},
		{"2025-01-08 09:30:00", time.Date(2025, 1, 8, 9, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			src := "---\ntitle: t\ndescription: d\ndate: \"" + tt.date + "\"\n---\nbody"
			entry, err := ParseEntry("x.md", "x.md", []byte(src), NewMarkdown())
			if err != nil {
				t.Fatalf("ParseEntry() error = %v", err)
			}
			if !entry.Published.Equal(tt.want) {
				t.Errorf("Published = %v, want %v", entry.Published, tt.want)
			}
		})
	}
}

func TestSlugFromPath(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"posts/audio.md", "posts/audio"},
		{"posts/Audio-Overlays.md", "posts/audio-overlays"},
		{"posts/audio/index.md", "posts/audio"},
		{"about.md", "about"},
		{`posts\windows.md`, "posts/windows"},
	}
	for _, tt := range tests {
		if got := SlugFromPath(tt.rel); got != tt.want {
			t.Errorf("SlugFromPath(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}

func TestEntry_HasUpdated(t *testing.T) {
	published := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	later := published.AddDate(0, 1, 0)

	if (&Entry{Published: published}).HasUpdated() {
		t.Error("HasUpdated() = true with no updated date")
	}
	if (&Entry{Published: published, Updated: &published}).HasUpdated() {
		t.Error("HasUpdated() = true when updated equals published")
	}
	if !(&Entry{Published: published, Updated: &later}).HasUpdated() {
		t.Error("HasUpdated() = false with a later updated date")
	}
}
