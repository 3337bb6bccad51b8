package site

import (
	"fmt"
	"io"
	"strings"

	"github.com/gorilla/feeds"

	"github.com/fennwick/quill/pkg/content"
)

// BuildFeed assembles the Atom feed for the given entries, which must
// already be in index order (publish date descending). limit caps the number
// of items; zero or negative means no cap. The feed's updated timestamp is
// the newest publish or update date among the included entries, keeping the
// output stable across rebuilds of unchanged content.
func (e *Engine) BuildFeed(entries []*content.Entry, limit int) *feeds.Feed {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	feed := &feeds.Feed{
		Title:       e.meta.Title,
		Link:        &feeds.Link{Href: e.absURL("/")},
		Description: e.meta.Description,
		Author:      &feeds.Author{Name: e.meta.Author},
		Id:          e.absURL("/"),
	}

	for _, entry := range entries {
		item := &feeds.Item{
			Title:       entry.Title,
			Link:        &feeds.Link{Href: e.absURL(entry.Permalink())},
			Id:          e.absURL(entry.Permalink()),
			Description: entry.Description,
			Content:     string(entry.HTML),
			Created:     entry.Published,
		}
		if entry.Updated != nil {
			item.Updated = *entry.Updated
		}

		latest := entry.Published
		if entry.Updated != nil && entry.Updated.After(latest) {
			latest = *entry.Updated
		}
		if latest.After(feed.Updated) {
			feed.Updated = latest
		}

		feed.Items = append(feed.Items, item)
	}

	return feed
}

// WriteFeed writes the Atom rendering of the index listing to w.
func (e *Engine) WriteFeed(w io.Writer, entries []*content.Entry, limit int) error {
	// ToAtom rather than WriteAtom so a template error surfaces before any
	// bytes reach the (possibly atomic) writer.
	atom, err := e.BuildFeed(entries, limit).ToAtom()
	if err != nil {
		return fmt.Errorf("failed to render atom feed: %w", err)
	}
	_, err = io.Copy(w, strings.NewReader(atom))
	return err
}
