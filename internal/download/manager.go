package download

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/handiism/archive-downloader/internal/archive"
	"github.com/handiism/archive-downloader/internal/config"
	"github.com/handiism/archive-downloader/internal/http"
	"github.com/handiism/archive-downloader/internal/model"
	"github.com/handiism/archive-downloader/internal/selection"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// CandidateSource resolves a query into candidates. archive.Resolver
// implements it.
type CandidateSource interface {
	Resolve(ctx context.Context, q model.Query) *archive.Resolution
}

// AlbumDownloader downloads one selected candidate. Downloader implements it.
type AlbumDownloader interface {
	Download(ctx context.Context, c *model.Candidate) bool
}

// Summary counts what happened to the albums of one run.
type Summary struct {
	Searched     int
	Downloaded   int
	Failed       int
	Skipped      int
	NoCandidates int
}

// Manager runs a worklist through search, selection and download, one album
// after the other.
type Manager struct {
	settings   *config.Settings
	resolver   CandidateSource
	selector   selection.Selector
	downloader AlbumDownloader

	onProgress func(ProgressEvent)
}

// NewManager creates a Manager talking to the archive configured in settings.
// A nil logger means slog.Default().
func NewManager(settings *config.Settings, selector selection.Selector, logger *slog.Logger, onProgress func(ProgressEvent)) *Manager {
	httpClient := http.NewClient(
		http.WithUserAgent(settings.UserAgent),
		http.WithTimeout(settings.RequestTimeout),
	)
	catalog := archive.NewClient(httpClient, settings.BaseURL)

	return NewManagerWith(
		settings,
		archive.NewResolver(catalog, logger),
		selector,
		NewDownloader(settings, catalog, onProgress),
		onProgress,
	)
}

// NewManagerWith creates a Manager from explicit components.
func NewManagerWith(settings *config.Settings, resolver CandidateSource, selector selection.Selector, downloader AlbumDownloader, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		resolver:   resolver,
		selector:   selector,
		downloader: downloader,
		onProgress: onProgress,
	}
}

// OnTransfer registers per-file transfer progress when the Manager downloads
// through a *Downloader.
func (m *Manager) OnTransfer(fn TransferFunc) {
	if d, ok := m.downloader.(*Downloader); ok {
		d.OnTransfer(fn)
	}
}

// Run processes worklist in order.
//
// An album without candidates, a skipped album and a failed download are all
// reported and counted, and the run moves on. Run only returns an error when
// ctx is cancelled or the selector fails.
func (m *Manager) Run(ctx context.Context, worklist config.Worklist) (Summary, error) {
	var sum Summary

	for _, entry := range worklist {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		q := model.Query{
			Artist: entry.Artist,
			Album:  entry.Album,
			Format: m.settings.Format,
			Limit:  m.settings.ResultsLimit,
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("Searching for: %s", q), Level: LevelInfo})
		sum.Searched++

		res := m.resolver.Resolve(ctx, q)
		for _, o := range res.Dropped() {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Ignored %s: %s", o.Identifier, o.Reason), Level: LevelVerbose})
		}

		if len(res.Candidates) == 0 {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			sum.NoCandidates++
			m.progress(ProgressEvent{Message: "ERROR: No valid download option found", Level: LevelError})
			m.progress(ProgressEvent{Message: fmt.Sprintf("Search for %s: %s", q, res.Status), Level: LevelVerbose})
			continue
		}

		choice, err := m.selector.Select(ctx, res.Candidates, entry.Album)
		if err != nil {
			return sum, fmt.Errorf("selecting %s: %w", q, err)
		}
		if choice == nil {
			sum.Skipped++
			m.progress(ProgressEvent{Message: "OK: Skipping to the next album", Level: LevelInfo})
			continue
		}

		if m.downloader.Download(ctx, choice) {
			sum.Downloaded++
			continue
		}

		sum.Failed++
		if err := ctx.Err(); err != nil {
			return sum, err
		}
	}

	m.progress(ProgressEvent{Message: "OK: Process finalized", Level: LevelSuccess})
	return sum, nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
