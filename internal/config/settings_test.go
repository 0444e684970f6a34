package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/handiism/archive-downloader/internal/audio"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
format: FLAC
downloads_path: /music/archive
results_limit: 10
request_timeout: 2m
create_playlist: true
playlist_format: pls
albums:
  Eminem:
    - The Marshall Mathers LP
    - The Eminem Show
  Death Grips: Exmilitary
  Aphex Twin: [Drukqs]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "FLAC", cfg.Format)
	assert.Equal(t, "/music/archive", cfg.DownloadsPath)
	assert.Equal(t, 10, cfg.ResultsLimit)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	assert.True(t, cfg.CreatePlaylist)
	assert.Equal(t, audio.FormatPLS, cfg.ToPlaylistFormat())

	// Unset fields keep their defaults.
	assert.Equal(t, "https://archive.org", cfg.BaseURL)
	assert.True(t, cfg.M3UExtended)

	assert.Equal(t, Worklist{
		{Artist: "Eminem", Album: "The Marshall Mathers LP"},
		{Artist: "Eminem", Album: "The Eminem Show"},
		{Artist: "Death Grips", Album: "Exmilitary"},
		{Artist: "Aphex Twin", Album: "Drukqs"},
	}, cfg.Albums)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_ListWorklist(t *testing.T) {
	path := writeConfig(t, `
albums:
  - artist: Death Grips
    album: Exmilitary
  - artist: Eminem
    album: The Eminem Show
  - artist: Death Grips
    album: The Money Store
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Albums, 3)
	assert.Equal(t, Entry{Artist: "Death Grips", Album: "The Money Store"}, cfg.Albums[2])
}

func TestLoad_NonExistentFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `
format: MP3
albums: [this is not valid yaml
`)

	cfg, err := Load(path)

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_IncompleteEntry(t *testing.T) {
	path := writeConfig(t, `
albums:
  - artist: Death Grips
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "needs both artist and album")
}

func TestSaveThenLoad(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Format = "FLAC"
	cfg.RequestTimeout = 90 * time.Second
	cfg.Albums.Add("Death Grips", "Exmilitary", "The Money Store")
	cfg.Albums.Add("Eminem", "The Eminem Show")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWorklist_MarshalKeepsInterleavedOrder(t *testing.T) {
	var w Worklist
	w.Add("A", "one")
	w.Add("B", "two")
	w.Add("A", "three")

	data, err := yaml.Marshal(struct {
		Albums Worklist `yaml:"albums"`
	}{w})
	require.NoError(t, err)

	var back struct {
		Albums Worklist `yaml:"albums"`
	}
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, w, back.Albums)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"empty format", func(s *Settings) { s.Format = " " }, true},
		{"dotted format", func(s *Settings) { s.Format = ".mp3" }, true},
		{"zero limit", func(s *Settings) { s.ResultsLimit = 0 }, true},
		{"empty path", func(s *Settings) { s.DownloadsPath = "" }, true},
		{"negative timeout", func(s *Settings) { s.RequestTimeout = -time.Second }, true},
		{"bad cover size", func(s *Settings) {
			s.SaveCoverArt, s.CoverArtResize, s.CoverArtMaxSize = true, true, 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
