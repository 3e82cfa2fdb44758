package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/statify/internal/services"
)

func sampleTopTracks() *services.TopTrackPage {
	return &services.TopTrackPage{
		Items: []services.TopTrack{
			{
				Name:       "First Song",
				Artists:    []services.Artist{{ID: "a1", Name: "Artist One"}, {ID: "a2", Name: "Artist Two"}},
				Album:      services.TrackAlbum{Name: "Album One"},
				DurationMS: 201000,
				Popularity: 80,
			},
			{
				Name:       "Second Song",
				Artists:    []services.Artist{{ID: "a3", Name: "Solo Artist"}},
				Album:      services.TrackAlbum{Name: "Album Two"},
				DurationMS: 184000,
				Popularity: 65,
			},
		},
		Total:  2,
		Limit:  20,
		Offset: 10,
	}
}

func sampleRecentlyPlayed() *services.RecentlyPlayedPage {
	return &services.RecentlyPlayedPage{
		Items: []services.PlayedItem{
			{
				Track: services.PlayedTrack{
					Name:     "History Song",
					Artists:  []services.Artist{{ID: "a1", Name: "Artist One"}},
					Album:    services.TrackAlbum{Name: "Album One"},
					Duration: "03:21",
				},
				PlayedAt: "2024-03-01",
			},
		},
		Limit: 20,
	}
}

func TestArtistNames(t *testing.T) {
	t.Run("joins multiple artists", func(t *testing.T) {
		artists := []services.Artist{{Name: "One"}, {Name: "Two"}}
		if got := ArtistNames(artists); got != "One, Two" {
			t.Errorf("expected 'One, Two', got %s", got)
		}
	})

	t.Run("empty slice", func(t *testing.T) {
		if got := ArtistNames(nil); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})
}

func TestTopTracksToCSV(t *testing.T) {
	data, err := TopTracksToCSV(sampleTopTracks())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}

	if lines[0] != "Rank,Title,Artists,Album,DurationMS,Popularity" {
		t.Errorf("unexpected header: %s", lines[0])
	}

	// Rank continues from the page offset.
	if !strings.HasPrefix(lines[1], "11,First Song,") {
		t.Errorf("expected rank 11, got %s", lines[1])
	}
	if !strings.Contains(lines[1], `"Artist One, Artist Two"`) {
		t.Errorf("expected quoted artist list, got %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], "12,Second Song,") {
		t.Errorf("expected rank 12, got %s", lines[2])
	}
}

func TestRecentlyPlayedToCSV(t *testing.T) {
	data, err := RecentlyPlayedToCSV(sampleRecentlyPlayed())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 record, got %d lines", len(lines))
	}

	if lines[0] != "PlayedAt,Title,Artists,Album,Duration" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "2024-03-01") || !strings.Contains(lines[1], "03:21") {
		t.Errorf("expected rendered date and duration, got %s", lines[1])
	}
}

func TestTopTracksToMarkdown(t *testing.T) {
	data, err := TopTracksToMarkdown(sampleTopTracks(), "short_term")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "# Top Tracks") {
		t.Errorf("expected markdown heading, got %s", text)
	}
	if !strings.Contains(text, "**Range**: short_term") {
		t.Error("expected time range line")
	}
	if !strings.Contains(text, "11. Artist One, Artist Two - First Song (Album One)") {
		t.Errorf("expected ranked listing, got %s", text)
	}
}

func TestRecentlyPlayedToMarkdown(t *testing.T) {
	data, err := RecentlyPlayedToMarkdown(sampleRecentlyPlayed())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "1. Artist One - History Song [03:21] (2024-03-01)") {
		t.Errorf("expected history listing, got %s", text)
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("writes to the given path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		written, err := WriteExport([]byte("data"), path, "top-tracks", "csv")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if string(content) != "data" {
			t.Errorf("unexpected content: %s", content)
		}
	})

	t.Run("defaults filename from base and format", func(t *testing.T) {
		dir := t.TempDir()
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get cwd: %v", err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("failed to chdir: %v", err)
		}
		defer os.Chdir(cwd)

		written, err := WriteExport([]byte("data"), "", "recent", "markdown")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != "recent.md" {
			t.Errorf("expected recent.md, got %s", written)
		}
	})
}
