package download

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/handiism/archive-downloader/internal/audio"
	"github.com/handiism/archive-downloader/internal/config"
	ioutils "github.com/handiism/archive-downloader/internal/io"
	"github.com/handiism/archive-downloader/internal/model"
)

// Transfer moves remote files to the local machine. archive.Client
// implements it.
type Transfer interface {
	// Download streams file to destPath. destPath must not exist under its
	// final name unless the whole file arrived.
	Download(ctx context.Context, file model.RemoteFile, destPath string, onProgress func(written, total int64)) error

	// Fetch reads a small file, such as cover art, into memory.
	Fetch(ctx context.Context, file model.RemoteFile) ([]byte, error)
}

// TransferFunc is called before each file transfer starts. The returned
// callback, if not nil, receives the byte progress of that file.
type TransferFunc func(file model.RemoteFile) func(written, total int64)

// Downloader materializes one candidate's files in
// <root>/<artist> - <title>.
type Downloader struct {
	root     string
	settings *config.Settings
	transfer Transfer

	tagger   *audio.Tagger
	playlist *audio.PlaylistCreator
	images   *ioutils.ImageService

	onProgress func(ProgressEvent)
	onTransfer TransferFunc
}

// NewDownloader creates a Downloader writing below settings.DownloadsPath.
func NewDownloader(settings *config.Settings, transfer Transfer, onProgress func(ProgressEvent)) *Downloader {
	return &Downloader{
		root:       settings.DownloadsPath,
		settings:   settings,
		transfer:   transfer,
		tagger:     audio.NewTagger(audio.DefaultTagConfig()),
		playlist:   audio.NewPlaylistCreator(settings.ToPlaylistFormat(), settings.M3UExtended),
		images:     ioutils.NewImageService(),
		onProgress: onProgress,
	}
}

// OnTransfer registers fn to be called for every file that is transferred.
func (d *Downloader) OnTransfer(fn TransferFunc) {
	d.onTransfer = fn
}

// Download fetches every file of c that is not already on disk, in order.
//
// It stops at the first failed transfer and returns false; files written
// before that stay where they are. Cover art, tags and playlists are only
// produced once all files are present, and their failures are reported as
// warnings without changing the result.
func (d *Downloader) Download(ctx context.Context, c *model.Candidate) bool {
	dir := c.Dir(d.root)
	if err := ioutils.EnsureDir(dir); err != nil {
		d.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return false
	}

	d.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %d tracks to %s", c.TrackCount(), dir), Level: LevelInfo})

	for _, file := range c.Files {
		name := file.BaseName()
		dest := filepath.Join(dir, name)

		exists, err := ioutils.FileExists(dest)
		if err != nil {
			d.progress(ProgressEvent{Message: fmt.Sprintf("Error checking %s: %v", name, err), Level: LevelError})
			return false
		}
		if exists {
			d.progress(ProgressEvent{Message: fmt.Sprintf("Already exists: %s", name), Level: LevelInfo})
			continue
		}

		d.progress(ProgressEvent{Message: fmt.Sprintf("Downloading: %s", name), Level: LevelInfo})

		var onBytes func(written, total int64)
		if d.onTransfer != nil {
			onBytes = d.onTransfer(file)
		}
		if err := d.transfer.Download(ctx, file, dest, onBytes); err != nil {
			d.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", name, err), Level: LevelError})
			return false
		}
	}

	d.postProcess(ctx, c, dir)

	d.progress(ProgressEvent{Message: fmt.Sprintf("DONE: Album saved to %s", dir), Level: LevelSuccess})
	return true
}

func (d *Downloader) postProcess(ctx context.Context, c *model.Candidate, dir string) {
	tagging := d.settings.ModifyTags && strings.EqualFold(c.Format, "mp3")

	var artwork []byte
	if (d.settings.SaveCoverArt || tagging) && c.HasCoverArt() {
		var err error
		artwork, err = d.transfer.Fetch(ctx, *c.CoverArt)
		if err != nil {
			d.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading artwork for %s: %v", c.Title, err), Level: LevelWarning})
			artwork = nil
		}
	}

	if d.settings.SaveCoverArt && artwork != nil {
		d.saveCoverArt(ctx, c, dir, artwork)
	}

	if tagging {
		d.tagFiles(ctx, c, dir, artwork)
	}

	if d.settings.CreatePlaylist {
		d.writePlaylist(c, dir)
	}
}

func (d *Downloader) saveCoverArt(ctx context.Context, c *model.Candidate, dir string, artwork []byte) {
	opts := d.settings.ToCoverOptions()

	prepared, err := d.images.Prepare(ctx, artwork, opts)
	if err != nil {
		d.progress(ProgressEvent{Message: fmt.Sprintf("Error preparing artwork: %v", err), Level: LevelWarning})
		return
	}

	name := "cover.jpg"
	if !opts.Resize && !opts.ConvertToJPEG {
		name = "cover" + strings.ToLower(path.Ext(c.CoverArt.Name))
	}

	if err := ioutils.WriteFile(filepath.Join(dir, name), prepared); err != nil {
		d.progress(ProgressEvent{Message: fmt.Sprintf("Error saving artwork: %v", err), Level: LevelWarning})
		return
	}
	d.progress(ProgressEvent{Message: fmt.Sprintf("Saved artwork for %s", c.Title), Level: LevelVerbose})
}

func (d *Downloader) tagFiles(ctx context.Context, c *model.Candidate, dir string, artwork []byte) {
	// ID3 pictures are always embedded as JPEG.
	if artwork != nil {
		jpg, err := d.images.ConvertToJPEG(ctx, artwork)
		if err != nil {
			d.progress(ProgressEvent{Message: fmt.Sprintf("Artwork not embedded: %v", err), Level: LevelWarning})
		}
		artwork = jpg
	}

	for i, file := range c.Files {
		info := audio.TrackInfo{
			Artist: c.Artist,
			Album:  c.Title,
			Number: i + 1,
			Year:   c.Year,
		}
		if err := d.tagger.SaveTags(filepath.Join(dir, file.BaseName()), info, artwork); err != nil {
			d.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", file.BaseName(), err), Level: LevelWarning})
		}
	}
}

func (d *Downloader) writePlaylist(c *model.Candidate, dir string) {
	name := model.SafeTitle(c.Title)
	if name == "" {
		name = c.Identifier
	}
	name += d.playlist.Format().Extension()

	content := d.playlist.CreatePlaylist(c)
	if err := ioutils.WriteFile(filepath.Join(dir, name), []byte(content)); err != nil {
		d.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	d.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", c.Title), Level: LevelSuccess})
}

func (d *Downloader) progress(event ProgressEvent) {
	if d.onProgress != nil {
		d.onProgress(event)
	}
}
