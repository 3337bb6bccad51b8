package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeEntryFile writes a minimal valid content file under root.
func writeEntryFile(t *testing.T, root, rel, title, date string, extra ...string) {
	t.Helper()
	fm := fmt.Sprintf("---\ntitle: %s\ndescription: about %s\ndate: %s\n", title, title, date)
	for _, line := range extra {
		fm += line + "\n"
	}
	src := fm + "---\nBody of " + title + ".\n"

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

func TestStore_Load(t *testing.T) {
	root := t.TempDir()
	writeEntryFile(t, root, "posts/one.md", "One", "2025-01-02")
	writeEntryFile(t, root, "posts/two.md", "Two", "2025-01-08")
	writeEntryFile(t, root, "about.md", "About", "2024-06-01")

	s := NewStore(root)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	entry, ok := s.Get("posts/one")
	if !ok {
		t.Fatal("Get(posts/one) not found")
	}
	if entry.Title != "One" {
		t.Errorf("Title = %q, want One", entry.Title)
	}
}

func TestStore_Load_MissingRoot(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope"))
	if err := s.Load(); err == nil {
		t.Fatal("Load() succeeded on a missing content directory")
	}
}

func TestStore_Index_SortsByDateDescending(t *testing.T) {
	root := t.TempDir()
	writeEntryFile(t, root, "posts/earlier.md", "Earlier", "2025-01-02")
	writeEntryFile(t, root, "posts/later.md", "Later", "2025-01-08")

	s := NewStore(root)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	idx := s.Index()
	if len(idx) != 2 {
		t.Fatalf("Index() returned %d entries, want 2", len(idx))
	}
	if idx[0].Title != "Later" || idx[1].Title != "Earlier" {
		t.Errorf("Index() order = [%s, %s], want [Later, Earlier]", idx[0].Title, idx[1].Title)
	}
}

func TestStore_Index_TiesKeepCollectionOrder(t *testing.T) {
	root := t.TempDir()
	// Same publish date everywhere; walk order (alphabetical) must survive
	// the sort.
	writeEntryFile(t, root, "posts/alpha.md", "Alpha", "2025-03-01")
	writeEntryFile(t, root, "posts/bravo.md", "Bravo", "2025-03-01")
	writeEntryFile(t, root, "posts/charlie.md", "Charlie", "2025-03-01")

	s := NewStore(root)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	idx := s.Index()
	want := []string{"Alpha", "Bravo", "Charlie"}
	for i, title := range want {
		if idx[i].Title != title {
			t.Fatalf("Index()[%d] = %s, want %s (stable order violated)", i, idx[i].Title, title)
		}
	}
}

func TestStore_Index_ExcludesDrafts(t *testing.T) {
	root := t.TempDir()
	writeEntryFile(t, root, "posts/live.md", "Live", "2025-01-02")
	writeEntryFile(t, root, "posts/wip.md", "WIP", "2025-01-08", "draft: true")

	s := NewStore(root)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	idx := s.Index()
	if len(idx) != 1 || idx[0].Title != "Live" {
		t.Errorf("Index() = %v entries, want only Live", len(idx))
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (drafts still load)", s.Len())
	}
}

func TestStore_Load_AggregatesValidationErrors(t *testing.T) {
	root := t.TempDir()
	writeEntryFile(t, root, "posts/good.md", "Good", "2025-01-02")
	if err := os.WriteFile(filepath.Join(root, "bad-one.md"), []byte("---\ntitle: t\n---\nbody"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "bad-two.md"), []byte("---\ndate: 2025-01-02\n---\nbody"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(root)
	err := s.Load()
	if err == nil {
		t.Fatal("Load() succeeded with invalid entries")
	}
	for _, path := range []string{"bad-one.md", "bad-two.md"} {
		if !strings.Contains(err.Error(), path) {
			t.Errorf("Load() error does not mention %s: %v", path, err)
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after failed load, want 0", s.Len())
	}
}

func TestStore_Load_DuplicateSlug(t *testing.T) {
	root := t.TempDir()
	writeEntryFile(t, root, "posts/audio.md", "File Form", "2025-01-02")
	writeEntryFile(t, root, "posts/audio/index.md", "Dir Form", "2025-01-08")

	s := NewStore(root)
	err := s.Load()
	if err == nil {
		t.Fatal("Load() accepted two files mapping to the same slug")
	}
	if !strings.Contains(err.Error(), "posts/audio") {
		t.Errorf("Load() error does not name the colliding slug: %v", err)
	}
}

func TestStore_Reload_ReplacesContents(t *testing.T) {
	root := t.TempDir()
	writeEntryFile(t, root, "posts/one.md", "One", "2025-01-02")

	s := NewStore(root)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	writeEntryFile(t, root, "posts/two.md", "Two", "2025-01-08")
	if err := s.Load(); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d after reload, want 2", s.Len())
	}
}
