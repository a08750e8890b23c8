package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
	tu "github.com/tunedeck/tunedeck/internal/testing"
)

func sampleTracks(n int) []models.Track {
	tracks := make([]models.Track, n)
	for i := range tracks {
		tracks[i] = models.Track{
			ID:     fmt.Sprintf("t%d", i),
			URI:    fmt.Sprintf("spotify:track:t%d", i),
			Title:  fmt.Sprintf("Track %d", i),
			Artist: "Artist",
		}
	}
	return tracks
}

func newTestPlaylistEngine(store *tu.MemoryCredentialStore, music *tu.MockService, history *tu.MemoryPlaylistStore) *PlaylistEngine {
	sessions := newTestSessionEngine(store, music)
	engine := NewPlaylistEngine(sessions, music, history)
	engine.now = func() time.Time { return testClock }
	return engine
}

func connectedStore(expiry time.Time) *tu.MemoryCredentialStore {
	store := tu.NewMemoryCredentialStore()
	store.Credentials["user-1"] = models.SpotifyCredential{
		SpotifyID:    "spotify-user",
		AccessToken:  "stored-access",
		RefreshToken: "stored-refresh",
		TokenExpiry:  expiry,
	}
	return store
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("returns candidates for a valid query", func(t *testing.T) {
		music := &tu.MockService{
			RecommendationsFunc: func(ctx context.Context, accessToken, genre string, filter services.AudioFilter, limit int) ([]models.Track, error) {
				if genre != "jazz" {
					t.Errorf("expected normalized genre jazz, got %s", genre)
				}
				if limit != 20 {
					t.Errorf("expected candidate limit 20, got %d", limit)
				}
				if filter.MaxEnergy != 0.5 {
					t.Errorf("expected the chill filter, got %+v", filter)
				}
				return sampleTracks(limit), nil
			},
		}
		engine := newTestPlaylistEngine(connectedStore(testClock.Add(time.Hour)), music, &tu.MemoryPlaylistStore{})

		tracks, err := engine.Recommend(ctx, "user-1", "Jazz", "Chill")
		if err != nil {
			t.Fatalf("failed to recommend: %v", err)
		}
		if len(tracks) != 20 {
			t.Errorf("expected 20 candidates, got %d", len(tracks))
		}
	})

	t.Run("invalid mood fails before the token gate", func(t *testing.T) {
		// The user is not connected; input validation must win.
		engine := newTestPlaylistEngine(tu.NewMemoryCredentialStore(), &tu.MockService{}, &tu.MemoryPlaylistStore{})

		_, err := engine.Recommend(ctx, "user-1", "jazz", "melancholic")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if errors.Is(err, shared.ErrNotConnected) {
			t.Error("validation must run before the connection check")
		}
	})

	t.Run("invalid genre fails before the token gate", func(t *testing.T) {
		engine := newTestPlaylistEngine(tu.NewMemoryCredentialStore(), &tu.MockService{}, &tu.MemoryPlaylistStore{})

		if _, err := engine.Recommend(ctx, "user-1", "vaporwave", "chill"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unconnected user fails at the gate", func(t *testing.T) {
		engine := newTestPlaylistEngine(tu.NewMemoryCredentialStore(), &tu.MockService{}, &tu.MemoryPlaylistStore{})

		if _, err := engine.Recommend(ctx, "user-1", "jazz", "chill"); !errors.Is(err, shared.ErrNotConnected) {
			t.Errorf("expected ErrNotConnected, got %v", err)
		}
	})

	t.Run("zero candidates is reported, not a crash", func(t *testing.T) {
		music := &tu.MockService{
			RecommendationsFunc: func(ctx context.Context, accessToken, genre string, filter services.AudioFilter, limit int) ([]models.Track, error) {
				return []models.Track{}, nil
			},
		}
		engine := newTestPlaylistEngine(connectedStore(testClock.Add(time.Hour)), music, &tu.MemoryPlaylistStore{})

		if _, err := engine.Recommend(ctx, "user-1", "salsa", "angry"); !errors.Is(err, shared.ErrNoCandidates) {
			t.Errorf("expected ErrNoCandidates, got %v", err)
		}
	})

	t.Run("auth rejection mid-flow clears the credential", func(t *testing.T) {
		store := connectedStore(testClock.Add(time.Hour))
		music := &tu.MockService{
			RecommendationsFunc: func(ctx context.Context, accessToken, genre string, filter services.AudioFilter, limit int) ([]models.Track, error) {
				return nil, shared.ErrReauthRequired
			},
		}
		engine := newTestPlaylistEngine(store, music, &tu.MemoryPlaylistStore{})

		if _, err := engine.Recommend(ctx, "user-1", "jazz", "chill"); !errors.Is(err, shared.ErrReauthRequired) {
			t.Fatalf("expected ErrReauthRequired, got %v", err)
		}
		if store.Credentials["user-1"].Connected() {
			t.Error("expected credential cleared after out-of-band revocation")
		}
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	completeMock := func(tracks []models.Track) *tu.MockService {
		music := &tu.MockService{}
		music.RecommendationsFunc = func(ctx context.Context, accessToken, genre string, filter services.AudioFilter, limit int) ([]models.Track, error) {
			return tracks, nil
		}
		music.CreatePlaylistFunc = func(ctx context.Context, accessToken, accountID, name, description string, public bool) (models.PlaylistSummary, error) {
			if public {
				t.Error("generated playlists must be private")
			}
			if accountID != "spotify-user" {
				t.Errorf("expected account spotify-user, got %s", accountID)
			}
			return models.PlaylistSummary{
				ID:   "sp-new",
				Name: name,
				URL:  "https://open.spotify.com/playlist/sp-new",
			}, nil
		}
		return music
	}

	t.Run("builds a private date-stamped playlist", func(t *testing.T) {
		history := &tu.MemoryPlaylistStore{}
		music := completeMock(sampleTracks(18))
		engine := newTestPlaylistEngine(connectedStore(testClock.Add(time.Hour)), music, history)

		summary, err := engine.Create(ctx, "user-1", "jazz", "chill")
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		if !strings.Contains(summary.Name, "Chill jazz mix") {
			t.Errorf("expected mood and genre in the name, got %s", summary.Name)
		}
		if !strings.Contains(summary.Name, "Jun 15, 2025") {
			t.Errorf("expected date stamp in the name, got %s", summary.Name)
		}
		if summary.TrackCount != 18 {
			t.Errorf("expected track count to match added URIs, got %d", summary.TrackCount)
		}

		if len(history.Playlists) != 1 {
			t.Fatalf("expected one history record, got %d", len(history.Playlists))
		}
		record := history.Playlists[0]
		if record.Genre() != "jazz" || record.Mood() != "chill" {
			t.Errorf("unexpected history record: genre=%s mood=%s", record.Genre(), record.Mood())
		}
		if record.SpotifyPlaylistID() != "sp-new" {
			t.Errorf("expected history to reference sp-new, got %s", record.SpotifyPlaylistID())
		}
	})

	t.Run("expired credential refreshes exactly once end to end", func(t *testing.T) {
		music := completeMock(sampleTracks(20))
		music.RefreshFunc = func(ctx context.Context, refreshToken string) (models.Token, error) {
			return models.Token{AccessToken: "fresh-access", Expiry: testClock.Add(time.Hour)}, nil
		}
		store := connectedStore(testClock.Add(-time.Minute))
		engine := newTestPlaylistEngine(store, music, &tu.MemoryPlaylistStore{})

		summary, err := engine.Create(ctx, "user-1", "jazz", "chill")
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		if music.RefreshCalls != 1 {
			t.Errorf("expected exactly one refresh across the whole flow, got %d", music.RefreshCalls)
		}
		if summary.TrackCount != 20 {
			t.Errorf("expected 20 tracks, got %d", summary.TrackCount)
		}
	})

	t.Run("no candidates creates nothing", func(t *testing.T) {
		history := &tu.MemoryPlaylistStore{}
		created := false
		music := &tu.MockService{
			RecommendationsFunc: func(ctx context.Context, accessToken, genre string, filter services.AudioFilter, limit int) ([]models.Track, error) {
				return nil, nil
			},
			CreatePlaylistFunc: func(ctx context.Context, accessToken, accountID, name, description string, public bool) (models.PlaylistSummary, error) {
				created = true
				return models.PlaylistSummary{}, nil
			},
		}
		engine := newTestPlaylistEngine(connectedStore(testClock.Add(time.Hour)), music, history)

		if _, err := engine.Create(ctx, "user-1", "jazz", "chill"); !errors.Is(err, shared.ErrNoCandidates) {
			t.Fatalf("expected ErrNoCandidates, got %v", err)
		}
		if created {
			t.Error("no playlist may be created without candidates")
		}
		if len(history.Playlists) != 0 {
			t.Error("no history record may be written without a playlist")
		}
	})

	t.Run("failure while adding tracks is fatal", func(t *testing.T) {
		history := &tu.MemoryPlaylistStore{}
		music := completeMock(sampleTracks(20))
		music.AddTracksFunc = func(ctx context.Context, accessToken, playlistID string, uris []string) error {
			return shared.ErrExternalService
		}
		engine := newTestPlaylistEngine(connectedStore(testClock.Add(time.Hour)), music, history)

		if _, err := engine.Create(ctx, "user-1", "jazz", "chill"); !errors.Is(err, shared.ErrExternalService) {
			t.Fatalf("expected ErrExternalService, got %v", err)
		}
		if len(history.Playlists) != 0 {
			t.Error("a half-populated playlist must not be recorded as success")
		}
	})

	t.Run("history bookkeeping failure does not undo the playlist", func(t *testing.T) {
		history := &tu.MemoryPlaylistStore{CreateErr: errors.New("disk full")}
		music := completeMock(sampleTracks(20))
		engine := newTestPlaylistEngine(connectedStore(testClock.Add(time.Hour)), music, history)

		if _, err := engine.Create(ctx, "user-1", "jazz", "chill"); err != nil {
			t.Errorf("expected success despite history failure, got %v", err)
		}
	})

	t.Run("tracks without URIs are skipped", func(t *testing.T) {
		tracks := sampleTracks(5)
		tracks[2].URI = ""

		var added []string
		music := completeMock(tracks)
		music.AddTracksFunc = func(ctx context.Context, accessToken, playlistID string, uris []string) error {
			added = uris
			return nil
		}
		engine := newTestPlaylistEngine(connectedStore(testClock.Add(time.Hour)), music, &tu.MemoryPlaylistStore{})

		summary, err := engine.Create(ctx, "user-1", "jazz", "chill")
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		if len(added) != 4 {
			t.Errorf("expected 4 URIs, got %d", len(added))
		}
		if summary.TrackCount != 4 {
			t.Errorf("expected track count 4, got %d", summary.TrackCount)
		}
	})
}

func TestDashboardReads(t *testing.T) {
	ctx := context.Background()

	t.Run("TopArtists passes through the gate", func(t *testing.T) {
		music := &tu.MockService{
			TopArtistsFunc: func(ctx context.Context, accessToken string, limit int) ([]models.Artist, error) {
				if accessToken != "stored-access" {
					t.Errorf("expected gated access token, got %s", accessToken)
				}
				return []models.Artist{{ID: "a1", Name: "Artist"}}, nil
			},
		}
		engine := newTestPlaylistEngine(connectedStore(testClock.Add(time.Hour)), music, &tu.MemoryPlaylistStore{})

		artists, err := engine.TopArtists(ctx, "user-1", 5)
		if err != nil {
			t.Fatalf("failed to fetch top artists: %v", err)
		}
		if len(artists) != 1 {
			t.Errorf("expected 1 artist, got %d", len(artists))
		}
	})

	t.Run("SavedAlbums requires a connection", func(t *testing.T) {
		engine := newTestPlaylistEngine(tu.NewMemoryCredentialStore(), &tu.MockService{}, &tu.MemoryPlaylistStore{})

		if _, err := engine.SavedAlbums(ctx, "user-1", 8); !errors.Is(err, shared.ErrNotConnected) {
			t.Errorf("expected ErrNotConnected, got %v", err)
		}
	})

	t.Run("UserPlaylists clears the credential on auth rejection", func(t *testing.T) {
		store := connectedStore(testClock.Add(time.Hour))
		music := &tu.MockService{
			UserPlaylistsFunc: func(ctx context.Context, accessToken string, limit int) ([]models.PlaylistSummary, error) {
				return nil, shared.ErrReauthRequired
			},
		}
		engine := newTestPlaylistEngine(store, music, &tu.MemoryPlaylistStore{})

		if _, err := engine.UserPlaylists(ctx, "user-1", 6); !errors.Is(err, shared.ErrReauthRequired) {
			t.Fatalf("expected ErrReauthRequired, got %v", err)
		}
		if store.Credentials["user-1"].Connected() {
			t.Error("expected credential cleared after rejection")
		}
	})
}

func TestHistory(t *testing.T) {
	history := &tu.MemoryPlaylistStore{}
	engine := newTestPlaylistEngine(tu.NewMemoryCredentialStore(), &tu.MockService{}, history)

	for _, id := range []string{"sp-1", "sp-2"} {
		record := models.NewGeneratedPlaylist(0, "user-1", "jazz", "chill")
		record.SetResult(models.PlaylistSummary{ID: id, Name: "mix"})
		if err := history.Create(record); err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}

	playlists, err := engine.History("user-1")
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(playlists) != 2 {
		t.Fatalf("expected 2 records, got %d", len(playlists))
	}
	if playlists[0].SpotifyPlaylistID() != "sp-2" {
		t.Errorf("expected newest record first, got %s", playlists[0].SpotifyPlaylistID())
	}
}
