package site

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fennwick/quill/pkg/content"
)

// Meta holds the site-wide metadata every rendered page receives.
type Meta struct {
	// Title is the site name, shown in the header and appended to page titles.
	Title string
	// Description is the site summary used on the index page.
	Description string
	// Author is the site owner, shown in the footer and the feed.
	Author string
	// BaseURL is the absolute root of the deployed site, used for canonical
	// URLs and feed links. May be empty, in which case URLs stay relative.
	BaseURL string
}

// PageMeta carries the per-page head metadata block into the head partial.
type PageMeta struct {
	Site        Meta
	Title       string // full document title
	Description string
	Path        string // site-relative path of the page
	OGType      string // "website" or "article"
	Image       string // optional og:image asset reference
}

// EntryPage is the template context for a single entry page.
type EntryPage struct {
	Site  Meta
	Meta  PageMeta
	Entry *content.Entry
}

// IndexPage is the template context for the index listing.
type IndexPage struct {
	Site    Meta
	Meta    PageMeta
	Entries []*content.Entry
}

const (
	layoutGlob  = "*.tmpl.html"
	partialGlob = "*.part.html"

	entryLayout = "post.tmpl.html"
	indexLayout = "index.tmpl.html"
)

// Engine is the layout rendering engine. It manages the parsed template set
// and function map, and renders full pages for entries and the index.
// All methods are concurrent-safe.
type Engine struct {
	logger    *slog.Logger
	meta      Meta
	layoutDir string
	funcMap   template.FuncMap
	templates *template.Template
	mu        sync.RWMutex
}

// NewEngine creates an Engine for the given site metadata. layoutDir may be
// empty or point at a directory that does not exist; in both cases the
// embedded default layouts are used instead. It performs an initial Refresh
// to parse the template set.
func NewEngine(logger *slog.Logger, meta Meta, layoutDir string) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &Engine{
		logger:    logger,
		meta:      meta,
		layoutDir: layoutDir,
	}
	e.funcMap = e.makeFuncMap()

	if err := e.Refresh(); err != nil {
		return nil, err
	}
	logger.Info("Layout engine initialized", "layout_dir", e.sourceName())
	return e, nil
}

func (e *Engine) makeFuncMap() template.FuncMap {
	return template.FuncMap{
		// Dates (funcs.go)
		"formatDate": formatDate,
		"isoDate":    isoDate,
		"year":       year,

		// URLs
		"absURL": e.absURL,

		// Content helpers
		"readingTime": readingTime,

		// Logic
		"add":   add,
		"sub":   sub,
		"isSet": isSet,
	}
}

// sourceName names the layout source for logs: the directory, or "embedded".
func (e *Engine) sourceName() string {
	if e.usingDefaults() {
		return "embedded"
	}
	return e.layoutDir
}

func (e *Engine) usingDefaults() bool {
	if e.layoutDir == "" {
		return true
	}
	if _, err := os.Stat(e.layoutDir); err != nil {
		return true
	}
	return false
}

// Refresh reparses the full template set from the layouts directory, or from
// the embedded defaults when no directory is available. This allows layout
// edits to be picked up without restarting, which the serve watch loop
// relies on.
func (e *Engine) Refresh() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	root := template.New("").Funcs(e.funcMap)

	if e.usingDefaults() {
		parsed, err := root.ParseFS(defaultsFS, "defaults/"+layoutGlob, "defaults/"+partialGlob)
		if err != nil {
			return fmt.Errorf("failed to parse embedded layouts: %w", err)
		}
		e.templates = parsed
		e.logger.Debug("Loaded embedded default layouts")
		return nil
	}

	parsed, err := root.ParseGlob(filepath.Join(e.layoutDir, layoutGlob))
	if err != nil {
		return fmt.Errorf("failed to parse layouts in %s: %w", e.layoutDir, err)
	}

	parsed, err = parsed.ParseGlob(filepath.Join(e.layoutDir, partialGlob))
	if err != nil {
		// A site without partials is fine; only a real parse error matters.
		if !strings.Contains(err.Error(), "pattern matches no files") {
			return fmt.Errorf("failed to parse partials in %s: %w", e.layoutDir, err)
		}
	}

	if parsed.Lookup(entryLayout) == nil || parsed.Lookup(indexLayout) == nil {
		return fmt.Errorf("layouts in %s must define %s and %s", e.layoutDir, entryLayout, indexLayout)
	}

	e.templates = parsed
	e.logger.Debug("Loaded layouts", "dir", e.layoutDir)
	return nil
}

// TemplateNames returns the names of the parsed layouts and partials.
func (e *Engine) TemplateNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var names []string
	for _, t := range e.templates.Templates() {
		// The unnamed root template is an artifact of parsing, skip it.
		if strings.Contains(t.Name(), ".html") {
			names = append(names, t.Name())
		}
	}
	return names
}

// Execute renders a specific template by name, writing the output to w.
func (e *Engine) Execute(w io.Writer, name string, data interface{}) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.templates.ExecuteTemplate(w, name, data)
}

// RenderEntry renders the complete page for one entry: head metadata block,
// header, title block (with the "Last updated" notice when the entry carries
// an updated date), rendered body, and footer. Output depends only on the
// entry and the site metadata.
func (e *Engine) RenderEntry(w io.Writer, entry *content.Entry) error {
	page := EntryPage{
		Site: e.meta,
		Meta: PageMeta{
			Site:        e.meta,
			Title:       entry.Title + " — " + e.meta.Title,
			Description: entry.Description,
			Path:        entry.Permalink(),
			OGType:      "article",
			Image:       entry.Hero,
		},
		Entry: entry,
	}
	return e.Execute(w, entryLayout, page)
}

// RenderIndex renders the index page listing the given entries in order.
// The caller decides the order; the store's Index already sorts by publish
// date descending.
func (e *Engine) RenderIndex(w io.Writer, entries []*content.Entry) error {
	page := IndexPage{
		Site: e.meta,
		Meta: PageMeta{
			Site:        e.meta,
			Title:       e.meta.Title,
			Description: e.meta.Description,
			Path:        "/",
			OGType:      "website",
		},
		Entries: entries,
	}
	return e.Execute(w, indexLayout, page)
}

// Defaults returns the embedded default layouts and assets as a filesystem
// rooted at the defaults directory, for scaffolding new sites.
func Defaults() fs.FS {
	sub, err := fs.Sub(defaultsFS, "defaults")
	if err != nil {
		// The embedded tree always contains defaults/.
		panic(err)
	}
	return sub
}
