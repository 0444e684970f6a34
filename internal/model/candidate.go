package model

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrNoFiles is returned by NewCandidate when the file list is empty.
var ErrNoFiles = errors.New("candidate has no files in the requested format")

// RemoteFile is a single file inside a catalog item.
type RemoteFile struct {
	// Name is the path of the file inside the item. It may contain
	// sub-directories, e.g. "disc1/01 Intro.mp3".
	Name string

	// Format is the catalog's format label, e.g. "VBR MP3" or "Flac".
	Format string

	// Size is the file size in bytes, 0 when the catalog omits it.
	Size int64

	// URL is the download handle for the file.
	URL string
}

// BaseName returns the last element of the file's name.
func (f RemoteFile) BaseName() string {
	return path.Base(f.Name)
}

// Candidate is a catalog item confirmed to contain at least one file in the
// requested audio format.
//
// A Candidate is created by the resolver for one album search and is
// discarded once the album has been downloaded or skipped. It is never
// modified after construction.
//
// Example:
//
//	c, err := NewCandidate("exmilitary", "Exmilitary", "Death Grips", "MP3", files)
//	fmt.Println(c.TrackCount())     // number of MP3 files
//	fmt.Println(c.Dir("/albums"))   // "/albums/Death Grips - Exmilitary"
type Candidate struct {
	// Identifier is the catalog's unique key for the item.
	Identifier string

	// Title is the item's display title. It falls back to the requested
	// album title when the catalog metadata has none.
	Title string

	// Artist is the artist that was searched for.
	Artist string

	// Format is the audio format that was searched for.
	Format string

	// Files are the item's files matching Format, in catalog order.
	Files []RemoteFile

	// CoverArt is an image file from the same item, nil if none was found.
	CoverArt *RemoteFile

	// Year is the item's release year, empty when the catalog has no
	// usable date.
	Year string
}

// NewCandidate builds a Candidate. It returns ErrNoFiles if files is empty.
func NewCandidate(identifier, title, artist, format string, files []RemoteFile) (*Candidate, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	copied := make([]RemoteFile, len(files))
	copy(copied, files)

	return &Candidate{
		Identifier: identifier,
		Title:      title,
		Artist:     artist,
		Format:     format,
		Files:      copied,
	}, nil
}

// TrackCount returns the number of files in the candidate.
func (c *Candidate) TrackCount() int {
	return len(c.Files)
}

// HasCoverArt reports whether an image file was found for the candidate.
func (c *Candidate) HasCoverArt() bool {
	return c.CoverArt != nil
}

// DirName returns the folder name for the candidate, "<artist> - <title>".
func (c *Candidate) DirName() string {
	return sanitizeFileName(c.Artist) + " - " + SafeTitle(c.Title)
}

// Dir returns the directory the candidate is downloaded into below root.
func (c *Candidate) Dir(root string) string {
	return filepath.Join(root, c.DirName())
}

// MatchesFormat reports whether name ends with "." followed by format,
// ignoring case.
func MatchesFormat(name, format string) bool {
	if format == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(name), "."+strings.ToLower(format))
}

// SafeTitle keeps only letters, numbers, spaces, hyphens and underscores from
// title and trims trailing whitespace.
//
//	SafeTitle("The Money Store (Deluxe)")  // "The Money Store Deluxe"
//	SafeTitle("No Love Deep Web / 2012 ")  // "No Love Deep Web  2012"
func SafeTitle(title string) string {
	var sb strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	return strings.TrimRightFunc(sb.String(), unicode.IsSpace)
}
