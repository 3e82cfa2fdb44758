// package formatter renders normalized listening data to export formats (CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/statify/internal/services"
)

// ArtistNames joins the artist names of a track for single-column output.
func ArtistNames(artists []services.Artist) string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

// TopTracksToCSV converts a top-tracks page to CSV with columns: Rank, Title, Artists, Album, DurationMS, Popularity
func TopTracksToCSV(page *services.TopTrackPage) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Title", "Artists", "Album", "DurationMS", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range page.Items {
		record := []string{
			strconv.Itoa(page.Offset + i + 1),
			track.Name,
			ArtistNames(track.Artists),
			track.Album.Name,
			strconv.Itoa(track.DurationMS),
			strconv.Itoa(track.Popularity),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RecentlyPlayedToCSV converts a listening-history page to CSV with columns: PlayedAt, Title, Artists, Album, Duration
func RecentlyPlayedToCSV(page *services.RecentlyPlayedPage) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"PlayedAt", "Title", "Artists", "Album", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range page.Items {
		record := []string{
			item.PlayedAt,
			item.Track.Name,
			ArtistNames(item.Track.Artists),
			item.Track.Album.Name,
			item.Track.Duration,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TopTracksToMarkdown converts a top-tracks page to a Markdown listing.
func TopTracksToMarkdown(page *services.TopTrackPage, timeRange string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Top Tracks\n\n")
	if timeRange != "" {
		buf.WriteString(fmt.Sprintf("**Range**: %s\n\n", timeRange))
	}

	for i, track := range page.Items {
		line := fmt.Sprintf("%d. %s - %s", page.Offset+i+1, ArtistNames(track.Artists), track.Name)
		if track.Album.Name != "" {
			line = fmt.Sprintf("%s (%s)", line, track.Album.Name)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// RecentlyPlayedToMarkdown converts a listening-history page to a Markdown listing.
func RecentlyPlayedToMarkdown(page *services.RecentlyPlayedPage) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Recently Played\n\n")

	for i, item := range page.Items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s] (%s)\n",
			i+1, ArtistNames(item.Track.Artists), item.Track.Name, item.Track.Duration, item.PlayedAt))
	}

	return buf.Bytes(), nil
}

// WriteExport writes export data to the given path, defaulting the filename
// from the base name and format when path is empty.
func WriteExport(data []byte, path, base, format string) (string, error) {
	if path == "" {
		ext := "csv"
		if format == "markdown" {
			ext = "md"
		}
		path = fmt.Sprintf("%s.%s", base, ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
