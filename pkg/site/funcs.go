package site

import (
	"reflect"
	"strings"
	"time"
)

// displayDate is the human-readable date layout used across the default layouts.
const displayDate = "January 2, 2006"

// wordsPerMinute is the reading speed assumed by readingTime.
const wordsPerMinute = 200

// formatDate renders t in the site's display format.
func formatDate(t time.Time) string {
	return t.Format(displayDate)
}

// isoDate renders t as a plain ISO 8601 date, for <time datetime> attributes.
func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// year returns the current year, for the footer copyright line.
func year() int {
	return time.Now().Year()
}

// readingTime estimates minutes needed to read body, never less than one.
func readingTime(body []byte) int {
	words := len(strings.Fields(string(body)))
	minutes := words / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// absURL resolves a site-relative path against the configured base URL.
// With no base URL configured, the path is returned unchanged.
func (e *Engine) absURL(path string) string {
	if e.meta.BaseURL == "" {
		return path
	}
	base := strings.TrimSuffix(e.meta.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// add returns a + b.
func add(a, b int) int {
	return a + b
}

// sub returns a - b.
func sub(a, b int) int {
	return a - b
}

// isSet returns true if a value is not its zero value.
func isSet(val any) bool {
	v := reflect.ValueOf(val)
	if !v.IsValid() {
		return false
	}
	return !v.IsZero()
}
