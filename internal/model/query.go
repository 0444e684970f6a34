package model

import (
	"regexp"
	"strings"
)

// DefaultResultsLimit is the number of catalog results requested when a
// Query does not set Limit.
const DefaultResultsLimit = 5

// Query describes one album search.
type Query struct {
	Artist string
	Album  string

	// Format is the desired audio format, e.g. "MP3" or "FLAC". It is
	// matched against file name suffixes, case-insensitively.
	Format string

	// Limit caps the number of catalog results. Values <= 0 mean
	// DefaultResultsLimit.
	Limit int
}

// ResultsLimit returns the effective result cap for the query.
func (q Query) ResultsLimit() int {
	if q.Limit <= 0 {
		return DefaultResultsLimit
	}
	return q.Limit
}

// String returns "<album> - <artist>" for display.
func (q Query) String() string {
	return q.Album + " - " + q.Artist
}

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots   = regexp.MustCompile(`\.+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	sanitizeFileName("AC/DC") // Returns "AC_DC"
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}
