package archive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/handiism/archive-downloader/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves canned responses keyed by identifier.
type fakeCatalog struct {
	hits      []SearchHit
	searchErr error

	titles   map[string]string
	dates    map[string]string
	files    map[string][]string
	metaErr  map[string]error
	filesErr map[string]error

	gotQuery string
	gotSort  SortOrder
	gotLimit int
	listed   []string
}

func (f *fakeCatalog) Search(ctx context.Context, query string, sort SortOrder, limit int) ([]SearchHit, error) {
	f.gotQuery, f.gotSort, f.gotLimit = query, sort, limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func (f *fakeCatalog) GetMetadata(ctx context.Context, identifier string) (*Metadata, error) {
	if err := f.metaErr[identifier]; err != nil {
		return nil, err
	}
	return &Metadata{Identifier: identifier, Title: f.titles[identifier], Date: f.dates[identifier]}, nil
}

func (f *fakeCatalog) ListFiles(ctx context.Context, identifier string) ([]model.RemoteFile, error) {
	f.listed = append(f.listed, identifier)
	if err := f.filesErr[identifier]; err != nil {
		return nil, err
	}
	var files []model.RemoteFile
	for _, name := range f.files[identifier] {
		files = append(files, model.RemoteFile{Name: name, URL: "https://example.com/" + identifier + "/" + name})
	}
	return files, nil
}

func hits(ids ...string) []SearchHit {
	out := make([]SearchHit, len(ids))
	for i, id := range ids {
		out[i] = SearchHit{Identifier: id}
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolver_SingleMatchingItem(t *testing.T) {
	catalog := &fakeCatalog{
		hits:   hits("X", "Y"),
		titles: map[string]string{"X": "Item X", "Y": "Item Y"},
		files: map[string][]string{
			"X": {"a.mp3", "b.mp3"},
			"Y": {"c.flac"},
		},
	}

	res := NewResolver(catalog, quietLogger()).Resolve(context.Background(), model.Query{Artist: "A", Album: "B", Format: "MP3"})

	require.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Candidates, 1)

	c := res.Candidates[0]
	assert.Equal(t, "X", c.Identifier)
	assert.Equal(t, "Item X", c.Title)
	assert.Equal(t, "A", c.Artist)
	assert.Equal(t, "MP3", c.Format)
	assert.Equal(t, 2, c.TrackCount())

	assert.Equal(t, `title:("B") AND creator:("A") AND format:("MP3")`, catalog.gotQuery)
	assert.Equal(t, SortPopularityDesc, catalog.gotSort)
	assert.Equal(t, model.DefaultResultsLimit, catalog.gotLimit)

	dropped := res.Dropped()
	require.Len(t, dropped, 1)
	assert.Equal(t, "Y", dropped[0].Identifier)
	assert.Equal(t, ReasonNoMatchingFiles, dropped[0].Reason)
}

func TestResolver_OnlyMatchingFilesKept(t *testing.T) {
	catalog := &fakeCatalog{
		hits: hits("one", "two", "three", "four"),
		files: map[string][]string{
			"one":   {"01.MP3", "cover.jpg", "02.mp3", "notes.txt"},
			"two":   {"01.flac", "01.ogg"},
			"three": {"track.Mp3"},
			"four":  {},
		},
	}

	res := NewResolver(catalog, quietLogger()).Resolve(context.Background(), model.Query{Artist: "A", Album: "B", Format: "mp3", Limit: 10})

	require.Len(t, res.Candidates, 2)
	assert.Equal(t, 10, catalog.gotLimit)
	for _, c := range res.Candidates {
		require.NotEmpty(t, c.Files)
		for _, f := range c.Files {
			assert.True(t, strings.HasSuffix(strings.ToLower(f.Name), ".mp3"), f.Name)
		}
	}
	assert.Equal(t, []string{"01.MP3", "02.mp3"}, []string{res.Candidates[0].Files[0].Name, res.Candidates[0].Files[1].Name})
}

func TestResolver_PreservesCatalogOrder(t *testing.T) {
	catalog := &fakeCatalog{
		hits: hits("popular", "middle", "rare"),
		files: map[string][]string{
			"popular": {"a.mp3"},
			"middle":  {"b.mp3"},
			"rare":    {"c.mp3"},
		},
	}

	got := NewResolver(catalog, quietLogger()).Candidates(context.Background(), model.Query{Artist: "A", Album: "B", Format: "MP3"})

	require.Len(t, got, 3)
	assert.Equal(t, "popular", got[0].Identifier)
	assert.Equal(t, "middle", got[1].Identifier)
	assert.Equal(t, "rare", got[2].Identifier)
}

func TestResolver_SearchFailureReturnsEmpty(t *testing.T) {
	searchErr := errors.New("connection refused")
	catalog := &fakeCatalog{searchErr: searchErr}

	res := NewResolver(catalog, quietLogger()).Resolve(context.Background(), model.Query{Artist: "A", Album: "B", Format: "MP3"})

	assert.Equal(t, StatusCatalogUnavailable, res.Status)
	assert.Empty(t, res.Candidates)
	assert.ErrorIs(t, res.Err, searchErr)
}

func TestResolver_NoHits(t *testing.T) {
	res := NewResolver(&fakeCatalog{}, quietLogger()).Resolve(context.Background(), model.Query{Artist: "A", Album: "B", Format: "MP3"})

	assert.Equal(t, StatusNoMatches, res.Status)
	assert.Empty(t, res.Candidates)
	assert.NoError(t, res.Err)
}

func TestResolver_PartialFailureIsolation(t *testing.T) {
	catalog := &fakeCatalog{
		hits: hits("bad-meta", "", "good", "bad-files", "also-good"),
		files: map[string][]string{
			"good":      {"1.mp3"},
			"also-good": {"2.mp3"},
			"bad-meta":  {"3.mp3"},
		},
		metaErr:  map[string]error{"bad-meta": ErrItemNotFound},
		filesErr: map[string]error{"bad-files": errors.New("timeout")},
	}

	res := NewResolver(catalog, quietLogger()).Resolve(context.Background(), model.Query{Artist: "A", Album: "B", Format: "MP3"})

	require.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "good", res.Candidates[0].Identifier)
	assert.Equal(t, "also-good", res.Candidates[1].Identifier)

	reasons := map[string]DropReason{}
	for _, o := range res.Dropped() {
		reasons[o.Identifier] = o.Reason
		assert.Error(t, o.Err)
	}
	assert.Equal(t, map[string]DropReason{
		"bad-meta":  ReasonMetadata,
		"":          ReasonMalformed,
		"bad-files": ReasonListing,
	}, reasons)
}

func TestResolver_TitleFallsBackToAlbum(t *testing.T) {
	catalog := &fakeCatalog{
		hits:  hits("untitled"),
		files: map[string][]string{"untitled": {"1.flac"}},
	}

	got := NewResolver(catalog, quietLogger()).Candidates(context.Background(), model.Query{Artist: "A", Album: "Requested Album", Format: "FLAC"})

	require.Len(t, got, 1)
	assert.Equal(t, "Requested Album", got[0].Title)
}

func TestResolver_CancelledContextStops(t *testing.T) {
	catalog := &fakeCatalog{
		hits:  hits("a", "b"),
		files: map[string][]string{"a": {"1.mp3"}, "b": {"2.mp3"}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewResolver(catalog, quietLogger()).Resolve(ctx, model.Query{Artist: "A", Album: "B", Format: "MP3"})

	assert.Empty(t, res.Candidates)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Empty(t, catalog.listed)
}

func TestPickCoverArt(t *testing.T) {
	tests := []struct {
		name  string
		files []model.RemoteFile
		want  string
	}{
		{
			name: "named cover wins",
			files: []model.RemoteFile{
				{Name: "__ia_thumb.jpg"},
				{Name: "scan1.jpg"},
				{Name: "Front Cover.JPG"},
			},
			want: "Front Cover.JPG",
		},
		{
			name: "other original before thumbnail",
			files: []model.RemoteFile{
				{Name: "__ia_thumb.jpg"},
				{Name: "scan1.png"},
			},
			want: "scan1.png",
		},
		{
			name: "thumbnail as last resort",
			files: []model.RemoteFile{
				{Name: "01.mp3"},
				{Name: "__ia_thumb.jpg"},
			},
			want: "__ia_thumb.jpg",
		},
		{
			name: "derived thumbnails ignored",
			files: []model.RemoteFile{
				{Name: "cover_thumb.jpg", Format: "Thumbnail"},
			},
			want: "",
		},
		{
			name:  "no images",
			files: []model.RemoteFile{{Name: "01.mp3"}},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickCoverArt(tt.files)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestResolver_AttachesCoverArt(t *testing.T) {
	catalog := &fakeCatalog{
		hits:  hits("X"),
		files: map[string][]string{"X": {"01.mp3", "cover.jpg"}},
	}

	got := NewResolver(catalog, quietLogger()).Candidates(context.Background(), model.Query{Artist: "A", Album: "B", Format: "MP3"})

	require.Len(t, got, 1)
	require.True(t, got[0].HasCoverArt())
	assert.Equal(t, "cover.jpg", got[0].CoverArt.Name)
	assert.Equal(t, 1, got[0].TrackCount())
}

func TestResolver_ReleaseYearFromDate(t *testing.T) {
	catalog := &fakeCatalog{
		hits:  hits("dated", "undated"),
		dates: map[string]string{"dated": "2011-04-25"},
		files: map[string][]string{"dated": {"01.mp3"}, "undated": {"01.mp3"}},
	}

	got := NewResolver(catalog, quietLogger()).Candidates(context.Background(), model.Query{Artist: "A", Album: "B", Format: "MP3"})

	require.Len(t, got, 2)
	assert.Equal(t, "2011", got[0].Year)
	assert.Empty(t, got[1].Year)
}

func TestReleaseYear(t *testing.T) {
	tests := map[string]string{
		"2011":       "2011",
		"2011-04-25": "2011",
		"ca. 1975":   "1975",
		"19750101":   "",
		"unknown":    "",
		"":           "",
	}
	for date, want := range tests {
		assert.Equal(t, want, releaseYear(date), date)
	}
}
