package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handiism/archive-downloader/internal/audio"
	ioutils "github.com/handiism/archive-downloader/internal/io"
)

// Settings holds all configuration options.
type Settings struct {
	// Catalog settings
	BaseURL        string        `yaml:"base_url"`
	UserAgent      string        `yaml:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	ResultsLimit   int           `yaml:"results_limit"`

	// Download settings
	DownloadsPath string `yaml:"downloads_path"`
	Format        string `yaml:"format"`

	// Cover art settings
	SaveCoverArt         bool `yaml:"save_cover_art"`
	CoverArtResize       bool `yaml:"cover_art_resize"`
	CoverArtMaxSize      int  `yaml:"cover_art_max_size"`
	ConvertCoverArtToJPG bool `yaml:"convert_cover_art_to_jpg"`

	// Playlist settings
	CreatePlaylist bool   `yaml:"create_playlist"`
	PlaylistFormat string `yaml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `yaml:"m3u_extended"`

	// Tag settings, MP3 only
	ModifyTags bool `yaml:"modify_tags"`

	// Albums is the ordered worklist.
	Albums Worklist `yaml:"albums"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		BaseURL:        "https://archive.org",
		UserAgent:      "archive-downloader",
		RequestTimeout: 0,
		ResultsLimit:   5,

		DownloadsPath: "albums",
		Format:        "MP3",

		SaveCoverArt:         false,
		CoverArtResize:       false,
		CoverArtMaxSize:      1000,
		ConvertCoverArtToJPG: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ModifyTags: false,
	}
}

// Load reads settings from a YAML file. Fields missing from the file keep
// their default values; a missing file yields DefaultSettings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return ioutils.WriteFile(path, data)
}

// Validate reports settings that would make a run pointless or unsafe.
func (s *Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Format) == "" {
		errs = append(errs, errors.New("format must not be empty"))
	}
	if strings.ContainsAny(s.Format, `./\ `) {
		errs = append(errs, fmt.Errorf("format %q must be a bare extension such as MP3 or FLAC", s.Format))
	}
	if s.ResultsLimit <= 0 {
		errs = append(errs, fmt.Errorf("results_limit must be positive, got %d", s.ResultsLimit))
	}
	if strings.TrimSpace(s.DownloadsPath) == "" {
		errs = append(errs, errors.New("downloads_path must not be empty"))
	}
	if s.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request_timeout must not be negative, got %s", s.RequestTimeout))
	}
	if s.SaveCoverArt && s.CoverArtResize && s.CoverArtMaxSize <= 0 {
		errs = append(errs, fmt.Errorf("cover_art_max_size must be positive, got %d", s.CoverArtMaxSize))
	}
	return errors.Join(errs...)
}

// ToPlaylistFormat converts the configured playlist format name.
func (s *Settings) ToPlaylistFormat() audio.PlaylistFormat {
	return audio.ParsePlaylistFormat(s.PlaylistFormat)
}

// ToCoverOptions converts the cover art settings.
func (s *Settings) ToCoverOptions() ioutils.CoverOptions {
	return ioutils.CoverOptions{
		Resize:        s.CoverArtResize,
		MaxSize:       s.CoverArtMaxSize,
		ConvertToJPEG: s.ConvertCoverArtToJPG,
	}
}
