// package formatter provides functions to export generated playlist history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/tunedeck/tunedeck/internal/models"
)

// HistoryToCSV converts playlist history to CSV format with columns:
// ID, Name, Genre, Mood, Tracks, Visibility, URL, Created
func HistoryToCSV(playlists []*models.GeneratedPlaylist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Genre", "Mood", "Tracks", "Visibility", "URL", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, playlist := range playlists {
		record := []string{
			playlist.SpotifyPlaylistID(),
			playlist.Name(),
			playlist.Genre(),
			playlist.Mood(),
			strconv.Itoa(playlist.TrackCount()),
			visibilityString(playlist.Public()),
			playlist.URL(),
			playlist.CreatedAt().Format("2006-01-02"),
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

// HistoryToMarkdown converts playlist history to a Markdown document
func HistoryToMarkdown(playlists []*models.GeneratedPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Generated Playlists\n\n")
	buf.WriteString(fmt.Sprintf("**Total**: %d\n\n", len(playlists)))

	for i, playlist := range playlists {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)\n", i+1, playlist.Name(), playlist.URL()))
		buf.WriteString(fmt.Sprintf("   - Genre: %s / Mood: %s\n", playlist.Genre(), playlist.Mood()))
		buf.WriteString(fmt.Sprintf("   - Tracks: %d (%s)\n", playlist.TrackCount(), visibilityString(playlist.Public())))
		buf.WriteString(fmt.Sprintf("   - Created: %s\n", playlist.CreatedAt().Format("Jan 2, 2006")))
	}

	return buf.Bytes(), nil
}

// HistoryToText converts playlist history to plain text format
func HistoryToText(playlists []*models.GeneratedPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlists: %d\n\n", len(playlists)))
	for i, playlist := range playlists {
		buf.WriteString(fmt.Sprintf("%d. %s [%s/%s] %d tracks\n", i+1, playlist.Name(), playlist.Genre(), playlist.Mood(), playlist.TrackCount()))
	}

	return buf.Bytes(), nil
}

// HistoryToJSON converts playlist history to indented JSON using the wire-facing summary shape
func HistoryToJSON(playlists []*models.GeneratedPlaylist) ([]byte, error) {
	summaries := make([]models.PlaylistSummary, 0, len(playlists))
	for _, playlist := range playlists {
		summaries = append(summaries, playlist.Summary())
	}
	return json.MarshalIndent(summaries, "", "  ")
}

// WriteHistoryExport writes playlist history to a file in the given format
// (csv, md, txt, or json) and returns the path written.
func WriteHistoryExport(playlists []*models.GeneratedPlaylist, format, filepath string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = HistoryToCSV(playlists)
	case "md", "markdown":
		data, err = HistoryToMarkdown(playlists)
	case "txt", "text":
		data, err = HistoryToText(playlists)
	case "json":
		data, err = HistoryToJSON(playlists)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if filepath == "" {
		filepath = "playlist_history." + format
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}

func visibilityString(public bool) string {
	if public {
		return "public"
	}
	return "private"
}
