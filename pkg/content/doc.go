/*
Package content implements the content store for a quill site: a tree of
markdown documents, each carrying a front-matter metadata block, loaded into
immutable Entry values.

The store walks a content directory, parses front matter (YAML or TOML),
renders the markdown body to HTML, derives each entry's slug from its storage
location, and exposes the publish-date-ordered index listing. Required
metadata (title, description, publish date) is enforced at load time; a file
that fails validation halts the build rather than producing a page with
blank fields.
*/
package content
