package site

import "embed"

// defaultsFS holds the built-in layouts, partials, and stylesheet used when
// a site has no layouts directory of its own.
//
//go:embed defaults
var defaultsFS embed.FS
