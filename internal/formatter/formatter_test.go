package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	tu "github.com/tunedeck/tunedeck/internal/testing"
)

func sampleHistory(t *testing.T) []*models.GeneratedPlaylist {
	t.Helper()

	first := models.NewGeneratedPlaylist(1, "user-1", "jazz", "chill")
	first.SetResult(models.PlaylistSummary{
		ID:         "sp-1",
		Name:       "Chill jazz mix Jun 15, 2025",
		URL:        "https://open.spotify.com/playlist/sp-1",
		TrackCount: 20,
	})
	first.SetCreatedAt(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	second := models.NewGeneratedPlaylist(2, "user-1", "rock", "energetic")
	second.SetResult(models.PlaylistSummary{
		ID:         "sp-2",
		Name:       "Energetic rock mix Jun 16, 2025",
		URL:        "https://open.spotify.com/playlist/sp-2",
		TrackCount: 18,
	})
	second.SetCreatedAt(time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC))

	return []*models.GeneratedPlaylist{second, first}
}

func TestHistoryToCSV(t *testing.T) {
	data, err := HistoryToCSV(sampleHistory(t))
	if err != nil {
		t.Fatalf("failed to generate CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("generated CSV does not parse: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][3] != "Mood" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][0] != "sp-2" {
		t.Errorf("expected newest record first, got %v", records[1])
	}
	if records[2][4] != "20" {
		t.Errorf("expected track count 20, got %v", records[2][4])
	}
	if records[1][5] != "private" {
		t.Errorf("expected private visibility, got %v", records[1][5])
	}
}

func TestHistoryToMarkdown(t *testing.T) {
	data, err := HistoryToMarkdown(sampleHistory(t))
	if err != nil {
		t.Fatalf("failed to generate Markdown: %v", err)
	}

	md := string(data)
	for _, fragment := range []string{
		"# Generated Playlists",
		"**Total**: 2",
		"[Chill jazz mix Jun 15, 2025](https://open.spotify.com/playlist/sp-1)",
		"Genre: rock / Mood: energetic",
	} {
		if !strings.Contains(md, fragment) {
			t.Errorf("expected Markdown to contain %q:\n%s", fragment, md)
		}
	}
}

func TestHistoryToText(t *testing.T) {
	data, err := HistoryToText(sampleHistory(t))
	if err != nil {
		t.Fatalf("failed to generate text: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Playlists: 2") {
		t.Errorf("expected count header:\n%s", text)
	}
	if !strings.Contains(text, "[jazz/chill] 20 tracks") {
		t.Errorf("expected genre, mood and track count:\n%s", text)
	}
}

func TestHistoryToJSON(t *testing.T) {
	data, err := HistoryToJSON(sampleHistory(t))
	if err != nil {
		t.Fatalf("failed to generate JSON: %v", err)
	}

	if !strings.Contains(string(data), `"id": "sp-1"`) {
		t.Errorf("expected summary shape in JSON:\n%s", data)
	}
}

func TestWriteHistoryExport(t *testing.T) {
	t.Run("writes the requested format", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "history.csv")

		written, err := WriteHistoryExport(sampleHistory(t), "csv", path)
		if err != nil {
			t.Fatalf("failed to write export: %v", err)
		}
		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}

		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "sp-1") {
			t.Error("expected exported CSV to contain the playlist")
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		if _, err := WriteHistoryExport(sampleHistory(t), "xml", ""); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}
