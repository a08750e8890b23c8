// package services defines interface MusicService for interacting with the Spotify Web API
package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tunedeck/tunedeck/internal/models"
)

// MusicService defines the boundary to the external music provider.
//
// Implementations take the access token per call; callers are expected to run
// every token through the session engine's validity gate first, so the service
// itself never caches or refreshes credentials behind the caller's back.
type MusicService interface {
	// AuthCodeURL builds the delegated-authorization redirect URL with the fixed scope list.
	AuthCodeURL(state string) string

	// Exchange trades a one-time authorization code for an initial token set.
	// Codes are single-use; a reused code fails with shared.ErrInvalidInput.
	Exchange(ctx context.Context, code string) (models.Token, error)

	// Refresh mints a new access token from a refresh token.
	// A rejected refresh token fails with shared.ErrReauthRequired.
	Refresh(ctx context.Context, refreshToken string) (models.Token, error)

	// Profile fetches the authorized account's own profile.
	Profile(ctx context.Context, accessToken string) (models.Profile, error)

	// Recommendations fetches up to limit candidate tracks for a seed genre and audio filter.
	Recommendations(ctx context.Context, accessToken, genre string, filter AudioFilter, limit int) ([]models.Track, error)

	// CreatePlaylist creates a playlist under the given account.
	CreatePlaylist(ctx context.Context, accessToken, accountID, name, description string, public bool) (models.PlaylistSummary, error)

	// AddTracks adds track URIs to a playlist, chunking when the batch exceeds the API cap.
	AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error

	// TopArtists fetches the account's most-played artists.
	TopArtists(ctx context.Context, accessToken string, limit int) ([]models.Artist, error)

	// SavedAlbums fetches the account's most recently saved albums.
	SavedAlbums(ctx context.Context, accessToken string, limit int) ([]models.Album, error)

	// UserPlaylists fetches the account's own playlists.
	UserPlaylists(ctx context.Context, accessToken string, limit int) ([]models.PlaylistSummary, error)

	// Name returns the provider name (e.g., "Spotify")
	Name() string
}

// AudioFilter expresses audio-feature constraints in the recommendation
// endpoint's query vocabulary. Zero fields are omitted from the query.
type AudioFilter struct {
	MinEnergy          float64
	MaxEnergy          float64
	TargetEnergy       float64
	MinValence         float64
	MaxValence         float64
	TargetValence      float64
	MinDanceability    float64
	MaxDanceability    float64
	TargetDanceability float64
	TargetTempo        float64
}

// Values encodes the filter as recommendation query parameters.
func (f AudioFilter) Values() url.Values {
	values := url.Values{}
	set := func(key string, v float64) {
		if v != 0 {
			values.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}

	set("min_energy", f.MinEnergy)
	set("max_energy", f.MaxEnergy)
	set("target_energy", f.TargetEnergy)
	set("min_valence", f.MinValence)
	set("max_valence", f.MaxValence)
	set("target_valence", f.TargetValence)
	set("min_danceability", f.MinDanceability)
	set("max_danceability", f.MaxDanceability)
	set("target_danceability", f.TargetDanceability)
	set("target_tempo", f.TargetTempo)

	return values
}
