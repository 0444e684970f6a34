package audio

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the catalog.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Files from the archive usually carry tags already, so only the fields set
// to TagModify are overwritten.
type TagConfig struct {
	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// AlbumArtist controls the TPE2 (Album artist) frame.
	AlbumArtist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Year controls the recording year frame (TYER in ID3v2.3, TDRC in
	// ID3v2.4).
	Year TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// Artist, album artist, album, track number and year are written. The title
// is kept because archive files usually have a better one than their file
// name.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		TrackNumber: TagModify,
		TrackTitle:  TagDoNotModify,
		Year:        TagModify,
	}
}

// TrackInfo is the metadata written to one file.
type TrackInfo struct {
	Artist string
	Album  string

	// Title is used when the file has no title yet or TrackTitle is
	// TagModify. Empty means the file stem.
	Title string

	// Number is the 1-based position of the file in the album.
	Number int

	// Year is the release year. Empty leaves the frame alone under
	// TagModify.
	Year string
}

// Tagger writes ID3 tags to MP3 files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	err := tagger.SaveTags("/albums/Artist - Album/01.mp3", TrackInfo{
//	    Artist: "Artist", Album: "Album", Number: 1, Year: "2011",
//	}, coverJPEG)
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the MP3 file at path, embedding artwork as the
// front cover when it is not nil.
func (t *Tagger) SaveTags(path string, info TrackInfo, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	t.updateStringTags(tag, path, info)

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, path string, info TrackInfo) {
	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(info.Artist)
	}

	switch t.config.AlbumArtist {
	case TagEmpty:
		tag.DeleteFrames("TPE2")
	case TagModify:
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, info.Artist)
	}

	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(info.Album)
	}

	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		if info.Number > 0 {
			tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(info.Number))
		}
	}

	switch t.config.Year {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Year"))
	case TagModify:
		if info.Year != "" {
			tag.SetYear(info.Year)
		}
	}

	title := info.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(title)
	case TagDoNotModify:
		if tag.Title() == "" {
			tag.SetTitle(title)
		}
	}
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
