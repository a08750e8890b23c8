package tasks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// moodProfiles maps each supported mood to its audio-feature constraints.
// The table is total over the mood enum: every listed mood yields a
// well-formed recommendation query.
var moodProfiles = map[string]services.AudioFilter{
	"happy":     {MinValence: 0.7, TargetEnergy: 0.8},
	"chill":     {MaxEnergy: 0.5, TargetValence: 0.5},
	"energetic": {MinEnergy: 0.7, TargetDanceability: 0.7},
	"sad":       {MaxValence: 0.4, TargetEnergy: 0.4},
	"focused":   {TargetEnergy: 0.5, MaxDanceability: 0.4},
	"angry":     {MinEnergy: 0.8, TargetValence: 0.3},
}

// seedGenres is the fixed set of genres accepted as recommendation seeds,
// drawn from Spotify's available-genre-seeds list.
var seedGenres = map[string]bool{
	"acoustic": true, "afrobeat": true, "alternative": true, "ambient": true,
	"blues": true, "classical": true, "country": true, "dance": true,
	"disco": true, "drum-and-bass": true, "dubstep": true, "edm": true,
	"electronic": true, "folk": true, "funk": true, "garage": true,
	"gospel": true, "grunge": true, "hip-hop": true, "house": true,
	"indie": true, "indie-pop": true, "jazz": true, "k-pop": true,
	"latin": true, "metal": true, "pop": true, "punk": true,
	"r-n-b": true, "reggae": true, "reggaeton": true, "rock": true,
	"salsa": true, "soul": true, "techno": true, "trance": true,
}

// MoodFilter resolves a mood name to its audio filter.
// Unsupported moods fail with [shared.ErrInvalidInput] before any external call.
func MoodFilter(mood string) (services.AudioFilter, error) {
	filter, ok := moodProfiles[strings.ToLower(strings.TrimSpace(mood))]
	if !ok {
		return services.AudioFilter{}, fmt.Errorf("%w: unsupported mood %q (supported: %s)",
			shared.ErrInvalidInput, mood, strings.Join(Moods(), ", "))
	}
	return filter, nil
}

// NormalizeGenre validates a genre against the fixed seed list and returns its canonical form.
func NormalizeGenre(genre string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(genre))
	if normalized == "" {
		return "", fmt.Errorf("%w: missing genre", shared.ErrInvalidInput)
	}
	if !seedGenres[normalized] {
		return "", fmt.Errorf("%w: unsupported genre %q", shared.ErrInvalidInput, genre)
	}
	return normalized, nil
}

// Moods returns the supported mood names in sorted order.
func Moods() []string {
	moods := make([]string, 0, len(moodProfiles))
	for mood := range moodProfiles {
		moods = append(moods, mood)
	}
	sort.Strings(moods)
	return moods
}

// Genres returns the supported seed genres in sorted order.
func Genres() []string {
	genres := make([]string, 0, len(seedGenres))
	for genre := range seedGenres {
		genres = append(genres, genre)
	}
	sort.Strings(genres)
	return genres
}
