package tasks

import (
	"errors"
	"testing"

	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
)

func TestMoodFilter(t *testing.T) {
	t.Run("every supported mood yields a filter", func(t *testing.T) {
		for _, mood := range Moods() {
			filter, err := MoodFilter(mood)
			if err != nil {
				t.Errorf("mood %q should resolve: %v", mood, err)
			}
			if (filter == services.AudioFilter{}) {
				t.Errorf("mood %q should carry at least one constraint", mood)
			}
			if len(filter.Values()) == 0 {
				t.Errorf("mood %q should encode query parameters", mood)
			}
		}
	})

	t.Run("is case and whitespace insensitive", func(t *testing.T) {
		upper, err := MoodFilter("  CHILL ")
		if err != nil {
			t.Fatalf("expected CHILL to resolve: %v", err)
		}
		lower, _ := MoodFilter("chill")
		if upper != lower {
			t.Error("expected case-insensitive lookup to match")
		}
	})

	t.Run("unsupported mood fails before any external call", func(t *testing.T) {
		if _, err := MoodFilter("melancholic"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("chill caps energy", func(t *testing.T) {
		filter, err := MoodFilter("chill")
		if err != nil {
			t.Fatalf("expected chill to resolve: %v", err)
		}
		if filter.MaxEnergy != 0.5 || filter.TargetValence != 0.5 {
			t.Errorf("unexpected chill filter: %+v", filter)
		}
	})
}

func TestNormalizeGenre(t *testing.T) {
	t.Run("canonicalizes case and whitespace", func(t *testing.T) {
		genre, err := NormalizeGenre("  Jazz ")
		if err != nil {
			t.Fatalf("expected Jazz to normalize: %v", err)
		}
		if genre != "jazz" {
			t.Errorf("expected jazz, got %s", genre)
		}
	})

	t.Run("empty genre is invalid", func(t *testing.T) {
		if _, err := NormalizeGenre("  "); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown genre is invalid", func(t *testing.T) {
		if _, err := NormalizeGenre("vaporwave"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("every listed genre is accepted", func(t *testing.T) {
		for _, genre := range Genres() {
			if _, err := NormalizeGenre(genre); err != nil {
				t.Errorf("genre %q should be accepted: %v", genre, err)
			}
		}
	})
}
