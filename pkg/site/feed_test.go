package site

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/fennwick/quill/pkg/content"
)

func feedEntries() []*content.Entry {
	newer := sampleEntry()
	older := &content.Entry{
		Title:       "Depth Maps for Panoramas",
		Description: "Estimating geometry from a single pano.",
		Published:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Slug:        "posts/depth",
	}
	return []*content.Entry{newer, older}
}

func TestBuildFeed(t *testing.T) {
	e := setupTestEngine(t)
	feed := e.BuildFeed(feedEntries(), 0)

	if feed.Title != "Field Notes" {
		t.Errorf("feed title = %q", feed.Title)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("feed has %d items, want 2", len(feed.Items))
	}
	if feed.Items[0].Title != "Street View Audio Overlays" {
		t.Errorf("first item = %q, want the newest entry", feed.Items[0].Title)
	}
	if feed.Items[0].Id != "https://example.com/posts/audio/" {
		t.Errorf("item id = %q", feed.Items[0].Id)
	}
	if want := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC); !feed.Updated.Equal(want) {
		t.Errorf("feed updated = %v, want newest publish date %v", feed.Updated, want)
	}
}

func TestBuildFeed_UpdatedEntryBumpsFeed(t *testing.T) {
	e := setupTestEngine(t)
	entries := feedEntries()
	updated := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	entries[1].Updated = &updated

	feed := e.BuildFeed(entries, 0)
	if !feed.Updated.Equal(updated) {
		t.Errorf("feed updated = %v, want %v (latest update wins)", feed.Updated, updated)
	}
}

func TestBuildFeed_Limit(t *testing.T) {
	e := setupTestEngine(t)
	feed := e.BuildFeed(feedEntries(), 1)
	if len(feed.Items) != 1 {
		t.Fatalf("feed has %d items, want 1", len(feed.Items))
	}
	if feed.Items[0].Title != "Street View Audio Overlays" {
		t.Errorf("limited feed kept %q, want the newest entry", feed.Items[0].Title)
	}
}

func TestWriteFeed_ValidAtom(t *testing.T) {
	e := setupTestEngine(t)
	var buf bytes.Buffer
	if err := e.WriteFeed(&buf, feedEntries(), 0); err != nil {
		t.Fatalf("WriteFeed failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<feed") {
		t.Fatalf("output is not an atom feed:\n%s", out)
	}
	for _, want := range []string{"Street View Audio Overlays", "Depth Maps for Panoramas", "https://example.com/posts/depth/"} {
		if !strings.Contains(out, want) {
			t.Errorf("feed missing %q", want)
		}
	}

	// The output must at least be well-formed XML.
	var doc struct {
		XMLName xml.Name `xml:"feed"`
	}
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Errorf("feed is not well-formed XML: %v", err)
	}
}
