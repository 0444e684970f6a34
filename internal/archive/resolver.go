package archive

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/handiism/archive-downloader/internal/model"
)

// Catalog is the part of the catalog API the resolver depends on.
type Catalog interface {
	Search(ctx context.Context, query string, sort SortOrder, limit int) ([]SearchHit, error)
	GetMetadata(ctx context.Context, identifier string) (*Metadata, error)
	ListFiles(ctx context.Context, identifier string) ([]model.RemoteFile, error)
}

// Status summarizes a resolution.
type Status int

const (
	// StatusOK means at least one candidate was found.
	StatusOK Status = iota

	// StatusNoMatches means the catalog answered but no item qualified.
	StatusNoMatches

	// StatusCatalogUnavailable means the search itself failed.
	StatusCatalogUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoMatches:
		return "no matches"
	case StatusCatalogUnavailable:
		return "catalog unavailable"
	default:
		return "unknown"
	}
}

// DropReason tells why a search hit did not become a candidate.
type DropReason int

const (
	ReasonNone DropReason = iota
	ReasonMalformed
	ReasonMetadata
	ReasonListing
	ReasonNoMatchingFiles
)

func (r DropReason) String() string {
	switch r {
	case ReasonNone:
		return "accepted"
	case ReasonMalformed:
		return "malformed item"
	case ReasonMetadata:
		return "metadata unavailable"
	case ReasonListing:
		return "file listing unavailable"
	case ReasonNoMatchingFiles:
		return "no files in requested format"
	default:
		return "unknown"
	}
}

// ItemOutcome records what happened to one search hit.
type ItemOutcome struct {
	Identifier string

	// Candidate is set when Reason is ReasonNone.
	Candidate *model.Candidate

	Reason DropReason
	Err    error
}

// Resolution is the result of resolving one query.
//
// Candidates is empty whenever Status is not StatusOK, so callers that only
// care about "anything to download?" can ignore Status entirely.
type Resolution struct {
	Query      model.Query
	Status     Status
	Candidates []*model.Candidate
	Outcomes   []ItemOutcome

	// Err is the search error for StatusCatalogUnavailable, or the context
	// error when resolution was cut short.
	Err error
}

// Dropped returns the outcomes of hits that did not become candidates.
func (r *Resolution) Dropped() []ItemOutcome {
	var dropped []ItemOutcome
	for _, o := range r.Outcomes {
		if o.Reason != ReasonNone {
			dropped = append(dropped, o)
		}
	}
	return dropped
}

// Resolver turns an artist/album/format query into download candidates.
//
// Every search hit is examined on its own: a hit whose metadata or file
// listing cannot be fetched is dropped without affecting the others.
//
// Example:
//
//	resolver := NewResolver(client, slog.Default())
//	res := resolver.Resolve(ctx, model.Query{Artist: "Death Grips", Album: "Exmilitary", Format: "MP3"})
//	for _, c := range res.Candidates {
//	    fmt.Printf("%s (%d songs)\n", c.Title, c.TrackCount())
//	}
type Resolver struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewResolver creates a Resolver. A nil logger means slog.Default().
func NewResolver(catalog Catalog, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{catalog: catalog, logger: logger}
}

// Candidates resolves q and returns only the candidates. Catalog outages and
// empty searches both yield an empty slice.
func (r *Resolver) Candidates(ctx context.Context, q model.Query) []*model.Candidate {
	return r.Resolve(ctx, q).Candidates
}

// Resolve searches the catalog for q and examines each hit in catalog order.
// It never returns an error; failures are reported through the Resolution.
func (r *Resolver) Resolve(ctx context.Context, q model.Query) *Resolution {
	res := &Resolution{Query: q}

	query := BuildQuery(q.Artist, q.Album, q.Format)
	hits, err := r.catalog.Search(ctx, query, SortPopularityDesc, q.ResultsLimit())
	if err != nil {
		r.logger.Warn("failed to connect to the archive", "query", query, "error", err)
		res.Status = StatusCatalogUnavailable
		res.Err = err
		return res
	}

	r.logger.Debug("search complete", "query", query, "hits", len(hits))

	for _, hit := range hits {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}

		outcome := r.examine(ctx, q, hit)
		if outcome.Reason != ReasonNone {
			r.logger.Debug("dropping search hit",
				"identifier", outcome.Identifier,
				"reason", outcome.Reason.String(),
				"error", outcome.Err,
			)
		} else {
			res.Candidates = append(res.Candidates, outcome.Candidate)
		}
		res.Outcomes = append(res.Outcomes, outcome)
	}

	if len(res.Candidates) > 0 {
		res.Status = StatusOK
	} else {
		res.Status = StatusNoMatches
	}
	return res
}

func (r *Resolver) examine(ctx context.Context, q model.Query, hit SearchHit) ItemOutcome {
	outcome := ItemOutcome{Identifier: hit.Identifier}

	if hit.Identifier == "" {
		outcome.Reason = ReasonMalformed
		outcome.Err = errors.New("search hit without identifier")
		return outcome
	}

	meta, err := r.catalog.GetMetadata(ctx, hit.Identifier)
	if err != nil {
		outcome.Reason = ReasonMetadata
		outcome.Err = err
		return outcome
	}

	files, err := r.catalog.ListFiles(ctx, hit.Identifier)
	if err != nil {
		outcome.Reason = ReasonListing
		outcome.Err = err
		return outcome
	}

	var audio []model.RemoteFile
	for _, f := range files {
		if model.MatchesFormat(f.Name, q.Format) {
			audio = append(audio, f)
		}
	}

	title := q.Album
	if meta != nil && meta.Title != "" {
		title = meta.Title
	}

	candidate, err := model.NewCandidate(hit.Identifier, title, q.Artist, q.Format, audio)
	if err != nil {
		outcome.Reason = ReasonNoMatchingFiles
		outcome.Err = err
		return outcome
	}
	candidate.CoverArt = pickCoverArt(files)
	if meta != nil {
		candidate.Year = releaseYear(meta.Date)
	}

	outcome.Candidate = candidate
	return outcome
}

var yearPattern = regexp.MustCompile(`\b\d{4}\b`)

// releaseYear extracts the year from a catalog date such as "2011-04-25",
// "2011" or "ca. 1975". It returns "" when date holds no four-digit year.
func releaseYear(date string) string {
	return yearPattern.FindString(date)
}

const thumbnailName = "__ia_thumb.jpg"

// pickCoverArt chooses an image from an item listing. Names hinting at a
// front cover win over other originals, and the generated item thumbnail is
// the last resort.
func pickCoverArt(files []model.RemoteFile) *model.RemoteFile {
	var named, other, thumb *model.RemoteFile

	for i := range files {
		f := &files[i]
		if !isImage(f.Name) || f.Format == "Thumbnail" {
			continue
		}

		base := strings.ToLower(f.BaseName())
		switch {
		case base == thumbnailName:
			if thumb == nil {
				thumb = f
			}
		case strings.Contains(base, "cover") || strings.Contains(base, "front") || strings.Contains(base, "folder"):
			if named == nil {
				named = f
			}
		default:
			if other == nil {
				other = f
			}
		}
	}

	for _, f := range []*model.RemoteFile{named, other, thumb} {
		if f != nil {
			picked := *f
			return &picked
		}
	}
	return nil
}

func isImage(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
