package content

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
)

// Store holds every Entry loaded from a content directory. It is safe for
// concurrent readers once Load has returned; Load itself must not be called
// concurrently with readers.
type Store struct {
	root    string
	logger  *slog.Logger
	md      goldmark.Markdown
	mu      sync.RWMutex
	entries []*Entry
	bySlug  map[string]*Entry
}

// NewStore creates a Store rooted at the given content directory. Nothing is
// read from disk until Load is called.
func NewStore(root string) *Store {
	return &Store{
		root:   root,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		md:     NewMarkdown(),
		bySlug: map[string]*Entry{},
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Load walks the content directory and parses every markdown file it finds,
// replacing the store's previous contents. Files are collected in
// deterministic walk order, which fixes the tie-break order of the index.
//
// All validation failures are gathered and returned joined together, so a
// single load reports every broken file instead of stopping at the first.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.root); err != nil {
		return fmt.Errorf("content directory %s: %w", s.root, err)
	}

	var (
		entries []*Entry
		bySlug  = map[string]*Entry{}
		errs    []error
	)

	walkErr := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}

		src, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}

		entry, err := ParseEntry(p, filepath.ToSlash(rel), src, s.md)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				errs = append(errs, verr)
				return nil
			}
			return err
		}

		if prev, ok := bySlug[entry.Slug]; ok {
			errs = append(errs, &ValidationError{
				Path:   p,
				Fields: []string{fmt.Sprintf("slug %q already used by %s", entry.Slug, prev.SourcePath)},
			})
			return nil
		}

		entry.seq = len(entries)
		entries = append(entries, entry)
		bySlug[entry.Slug] = entry
		s.logger.Debug("Loaded entry", "slug", entry.Slug, "source", p)
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("failed to walk content directory: %w", walkErr)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	s.entries = entries
	s.bySlug = bySlug
	s.logger.Info("Content store loaded", "entries", len(entries))
	return nil
}

// Entries returns every loaded entry, drafts included, in collection order.
func (s *Store) Entries() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Index returns the index listing: all non-draft entries sorted by publish
// date descending. Entries sharing a publish date keep their original
// collection order, so the listing is a stable total order.
func (s *Store) Index() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.Draft {
			idx = append(idx, e)
		}
	}
	slices.SortStableFunc(idx, func(a, b *Entry) int {
		return b.Published.Compare(a.Published)
	})
	return idx
}

// Get returns the entry with the given slug, if present.
func (s *Store) Get(slug string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.bySlug[slug]
	return e, ok
}

// Len returns the number of loaded entries, drafts included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
