package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// candidateLimit bounds how many recommendation candidates a playlist build requests.
const candidateLimit = 20

// PlaylistStore persists the history of playlists the pipeline created.
type PlaylistStore interface {
	Create(playlist *models.GeneratedPlaylist) error
	ListByUser(userID string) ([]*models.GeneratedPlaylist, error)
}

// PlaylistEngine builds mood playlists and serves the dashboard's Spotify data.
//
// Every operation passes through the session engine's token gate, and any
// auth rejection mid-flow clears the stale credential so status checks don't lie.
type PlaylistEngine struct {
	sessions *SessionEngine
	music    services.MusicService
	store    PlaylistStore
	now      func() time.Time
}

// NewPlaylistEngine creates a playlist engine with the provided collaborators.
func NewPlaylistEngine(sessions *SessionEngine, music services.MusicService, store PlaylistStore) *PlaylistEngine {
	return &PlaylistEngine{
		sessions: sessions,
		music:    music,
		store:    store,
		now:      time.Now,
	}
}

// Recommend fetches up to 20 candidate tracks for a genre and mood without creating a playlist.
//
// Zero candidates is an expected outcome surfaced as [shared.ErrNoCandidates],
// not a failure of the session.
func (e *PlaylistEngine) Recommend(ctx context.Context, userID, genre, mood string) ([]models.Track, error) {
	seed, filter, err := resolveQuery(genre, mood)
	if err != nil {
		return nil, err
	}

	cred, err := e.sessions.EnsureAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	tracks, err := e.music.Recommendations(ctx, cred.AccessToken, seed, filter, candidateLimit)
	if err != nil {
		return nil, e.guard(userID, err)
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: genre %q mood %q", shared.ErrNoCandidates, seed, mood)
	}

	return tracks, nil
}

// Create builds a private, date-stamped playlist from recommendation candidates
// and records it in the playlist history.
//
// When zero candidates come back, no playlist is created and the call fails
// with [shared.ErrNoCandidates]. A partial failure while adding tracks is
// fatal to the whole operation; a half-populated playlist is never reported
// as success.
func (e *PlaylistEngine) Create(ctx context.Context, userID, genre, mood string) (models.PlaylistSummary, error) {
	tracks, err := e.Recommend(ctx, userID, genre, mood)
	if err != nil {
		return models.PlaylistSummary{}, err
	}

	cred, err := e.sessions.EnsureAccessToken(ctx, userID)
	if err != nil {
		return models.PlaylistSummary{}, err
	}

	seed, _, _ := resolveQuery(genre, mood)
	name := fmt.Sprintf("%s %s mix %s", titleCase(mood), seed, e.now().Format("Jan 2, 2006"))
	description := fmt.Sprintf("%s %s playlist generated by tunedeck", strings.ToLower(mood), seed)

	summary, err := e.music.CreatePlaylist(ctx, cred.AccessToken, cred.SpotifyID, name, description, false)
	if err != nil {
		return models.PlaylistSummary{}, e.guard(userID, err)
	}

	uris := make([]string, 0, len(tracks))
	for _, track := range tracks {
		if track.URI != "" {
			uris = append(uris, track.URI)
		}
	}

	if err := e.music.AddTracks(ctx, cred.AccessToken, summary.ID, uris); err != nil {
		return models.PlaylistSummary{}, e.guard(userID, err)
	}

	summary.TrackCount = len(uris)
	if summary.Name == "" {
		summary.Name = name
	}

	record := models.NewGeneratedPlaylist(0, userID, seed, strings.ToLower(mood))
	record.SetResult(summary)
	// History is best effort; a bookkeeping failure doesn't undo the playlist.
	_ = e.store.Create(record)

	return summary, nil
}

// History returns the playlists previously generated for the user, newest first.
func (e *PlaylistEngine) History(userID string) ([]*models.GeneratedPlaylist, error) {
	return e.store.ListByUser(userID)
}

// TopArtists fetches the user's most-played artists through the token gate.
func (e *PlaylistEngine) TopArtists(ctx context.Context, userID string, limit int) ([]models.Artist, error) {
	cred, err := e.sessions.EnsureAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	artists, err := e.music.TopArtists(ctx, cred.AccessToken, limit)
	if err != nil {
		return nil, e.guard(userID, err)
	}
	return artists, nil
}

// SavedAlbums fetches the user's recently saved albums through the token gate.
func (e *PlaylistEngine) SavedAlbums(ctx context.Context, userID string, limit int) ([]models.Album, error) {
	cred, err := e.sessions.EnsureAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	albums, err := e.music.SavedAlbums(ctx, cred.AccessToken, limit)
	if err != nil {
		return nil, e.guard(userID, err)
	}
	return albums, nil
}

// UserPlaylists fetches the user's own Spotify playlists through the token gate.
func (e *PlaylistEngine) UserPlaylists(ctx context.Context, userID string, limit int) ([]models.PlaylistSummary, error) {
	cred, err := e.sessions.EnsureAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	playlists, err := e.music.UserPlaylists(ctx, cred.AccessToken, limit)
	if err != nil {
		return nil, e.guard(userID, err)
	}
	return playlists, nil
}

// guard clears the stored credential when Spotify rejected the access token
// after the gate had validated it (revoked out-of-band).
func (e *PlaylistEngine) guard(userID string, err error) error {
	if errors.Is(err, shared.ErrReauthRequired) {
		if clearErr := e.sessions.Expire(userID); clearErr != nil {
			return fmt.Errorf("failed to clear credential: %w (after %v)", clearErr, err)
		}
	}
	return err
}

// resolveQuery validates both inputs before any external call is made.
func resolveQuery(genre, mood string) (string, services.AudioFilter, error) {
	filter, err := MoodFilter(mood)
	if err != nil {
		return "", services.AudioFilter{}, err
	}

	seed, err := NormalizeGenre(genre)
	if err != nil {
		return "", services.AudioFilter{}, err
	}

	return seed, filter, nil
}

func titleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
