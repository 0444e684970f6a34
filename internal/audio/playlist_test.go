package audio

import (
	"strings"
	"testing"

	"github.com/handiism/archive-downloader/internal/model"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	c := createTestCandidate()
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist(c)

	if content != "track1.mp3\ntrack2.mp3\n" {
		t.Errorf("M3U content = %q", content)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	c := createTestCandidate()
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist(c)

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Test Artist - track1\n") {
		t.Errorf("Extended M3U should contain #EXTINF line, got %q", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	c := createTestCandidate()
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist(c)

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=track1.mp3") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	c := createTestCandidate()
	creator := NewPlaylistCreator(FormatWPL, false)

	content := creator.CreatePlaylist(c)

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<media src=\"track2.mp3\"/>") {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	c := createTestCandidate()
	creator := NewPlaylistCreator(FormatZPL, false)

	content := creator.CreatePlaylist(c)

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, "albumTitle=\"Test Album\"") {
		t.Error("ZPL should contain albumTitle attribute")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	c, err := model.NewCandidate("id", "Album <Special>", "Artist & Co", "MP3", []model.RemoteFile{
		{Name: "Track & \"Quote\".mp3"},
	})
	if err != nil {
		t.Fatal(err)
	}

	content := NewPlaylistCreator(FormatWPL, false).CreatePlaylist(c)

	if !strings.Contains(content, "Track &amp; &quot;Quote&quot;.mp3") {
		t.Error("WPL should escape & and quotes")
	}
	if strings.Contains(content, "<Special>") {
		t.Error("WPL should escape < and >")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		name string
		want PlaylistFormat
		ext  string
	}{
		{"m3u", FormatM3U, ".m3u"},
		{"PLS", FormatPLS, ".pls"},
		{"wpl", FormatWPL, ".wpl"},
		{"zpl", FormatZPL, ".zpl"},
		{"unknown", FormatM3U, ".m3u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePlaylistFormat(tt.name)
			if got != tt.want {
				t.Errorf("ParsePlaylistFormat(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.Extension() != tt.ext {
				t.Errorf("Extension() = %q, want %q", got.Extension(), tt.ext)
			}
		})
	}
}

func createTestCandidate() *model.Candidate {
	c, _ := model.NewCandidate("test-id", "Test Album", "Test Artist", "MP3", []model.RemoteFile{
		{Name: "track1.mp3"},
		{Name: "cd2/track2.mp3"},
	})
	return c
}
