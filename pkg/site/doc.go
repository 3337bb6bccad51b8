/*
Package site provides the layout rendering engine for a quill site.

The Engine wraps html/template: it loads full layouts (*.tmpl.html) and
shared partials (*.part.html) from a layouts directory, falling back to a
set of embedded defaults when the directory is absent, and renders complete
HTML documents for content entries and the index listing. Rendering is a
pure function of the entry and the site metadata, so rebuilding unchanged
content produces byte-identical output.

The package also assembles the Atom feed for the index listing.
*/
package site
