package content

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
)

// Entry is a single content document: one markdown file with front-matter
// metadata. Entries are immutable once loaded; editing content means editing
// the source file and reloading the store.
type Entry struct {
	// Title is the display title of the entry. Required.
	Title string
	// Description is the short summary used in the index listing and the
	// page's head metadata. Required.
	Description string
	// Published is the publish date and the index sort key. Required.
	Published time.Time
	// Updated is the optional last-edit date. When set, rendered pages
	// carry a "Last updated" notice.
	Updated *time.Time
	// Hero is an optional image asset reference, emitted as og:image
	// head metadata when present.
	Hero string
	// Tags are optional free-form labels.
	Tags []string
	// Draft entries are loaded but excluded from the index and from builds
	// unless drafts are explicitly enabled.
	Draft bool
	// Slug is the URL-path identifier derived from the entry's storage
	// location, unique within a store.
	Slug string
	// SourcePath is the path of the markdown file the entry came from.
	SourcePath string
	// Body is the raw markdown body, without the front-matter block.
	Body []byte
	// HTML is the rendered body.
	HTML template.HTML

	// seq is the position in original collection order, used to keep the
	// index sort a stable total order when publish dates collide.
	seq int
}

// HasUpdated reports whether the entry carries a last-edit date that differs
// from its publish date.
func (e *Entry) HasUpdated() bool {
	return e.Updated != nil && !e.Updated.Equal(e.Published)
}

// LastUpdated returns the update date, or the zero time when unset. It
// exists so templates can format the date without dereferencing a pointer.
func (e *Entry) LastUpdated() time.Time {
	if e.Updated == nil {
		return time.Time{}
	}
	return *e.Updated
}

// Permalink returns the site-relative URL path of the entry's page.
func (e *Entry) Permalink() string {
	return "/" + e.Slug + "/"
}

// ValidationError describes a content file whose front matter is missing or
// malformed. It is a build-time failure: the page is not generated.
type ValidationError struct {
	// Path is the source file the error refers to.
	Path string
	// Fields lists the offending front-matter fields with a short reason
	// each, e.g. `title: required`.
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid front matter: %s", e.Path, strings.Join(e.Fields, "; "))
}

// matter is the wire shape of the front-matter block. Dates are strings so
// that both plain dates and RFC 3339 timestamps are accepted regardless of
// how the YAML/TOML decoder treats bare timestamps.
type matter struct {
	Title       string   `yaml:"title" toml:"title"`
	Description string   `yaml:"description" toml:"description"`
	Date        string   `yaml:"date" toml:"date"`
	Updated     string   `yaml:"updated" toml:"updated"`
	Hero        string   `yaml:"hero" toml:"hero"`
	Tags        []string `yaml:"tags" toml:"tags"`
	Draft       bool     `yaml:"draft" toml:"draft"`
}

// dateFormats are the accepted front-matter date layouts, most specific first.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or RFC 3339)", s)
}

// SlugFromPath derives an entry's slug from its path relative to the content
// root: extension stripped, forward slashes, lowercased. A trailing /index
// segment collapses into the parent directory, so both posts/foo.md and
// posts/foo/index.md map to posts/foo.
func SlugFromPath(rel string) string {
	slug := strings.ToLower(strings.ReplaceAll(rel, "\\", "/"))
	slug = strings.TrimSuffix(slug, path.Ext(slug))
	slug = strings.TrimSuffix(slug, "/index")
	return strings.Trim(slug, "/")
}

// ParseEntry parses one content file into an Entry, rendering its markdown
// body with md. rel is the file's path relative to the content root and
// determines the slug. A *ValidationError is returned when required front
// matter is missing or malformed.
func ParseEntry(sourcePath, rel string, src []byte, md goldmark.Markdown) (*Entry, error) {
	var fm matter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse front matter: %w", sourcePath, err)
	}

	verr := &ValidationError{Path: sourcePath}
	if strings.TrimSpace(fm.Title) == "" {
		verr.Fields = append(verr.Fields, "title: required")
	}
	if strings.TrimSpace(fm.Description) == "" {
		verr.Fields = append(verr.Fields, "description: required")
	}

	var published time.Time
	if fm.Date == "" {
		verr.Fields = append(verr.Fields, "date: required")
	} else if published, err = parseDate(fm.Date); err != nil {
		verr.Fields = append(verr.Fields, "date: "+err.Error())
	}

	var updated *time.Time
	if fm.Updated != "" {
		t, err := parseDate(fm.Updated)
		if err != nil {
			verr.Fields = append(verr.Fields, "updated: "+err.Error())
		} else {
			updated = &t
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("%s: failed to render markdown: %w", sourcePath, err)
	}

	return &Entry{
		Title:       fm.Title,
		Description: fm.Description,
		Published:   published,
		Updated:     updated,
		Hero:        fm.Hero,
		Tags:        fm.Tags,
		Draft:       fm.Draft,
		Slug:        SlugFromPath(rel),
		SourcePath:  sourcePath,
		Body:        body,
		HTML:        template.HTML(buf.String()),
	}, nil
}
