// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// MockService is a configurable test double for [services.MusicService].
// Zero-value fields fall back to benign defaults.
type MockService struct {
	AuthCodeURLFunc     func(state string) string
	ExchangeFunc        func(ctx context.Context, code string) (models.Token, error)
	RefreshFunc         func(ctx context.Context, refreshToken string) (models.Token, error)
	ProfileFunc         func(ctx context.Context, accessToken string) (models.Profile, error)
	RecommendationsFunc func(ctx context.Context, accessToken, genre string, filter services.AudioFilter, limit int) ([]models.Track, error)
	CreatePlaylistFunc  func(ctx context.Context, accessToken, accountID, name, description string, public bool) (models.PlaylistSummary, error)
	AddTracksFunc       func(ctx context.Context, accessToken, playlistID string, uris []string) error
	TopArtistsFunc      func(ctx context.Context, accessToken string, limit int) ([]models.Artist, error)
	SavedAlbumsFunc     func(ctx context.Context, accessToken string, limit int) ([]models.Album, error)
	UserPlaylistsFunc   func(ctx context.Context, accessToken string, limit int) ([]models.PlaylistSummary, error)

	RefreshCalls int
}

func (m *MockService) AuthCodeURL(state string) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state)
	}
	return "https://accounts.spotify.com/authorize?state=" + state
}

func (m *MockService) Exchange(ctx context.Context, code string) (models.Token, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return models.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour)}, nil
}

func (m *MockService) Refresh(ctx context.Context, refreshToken string) (models.Token, error) {
	m.RefreshCalls++
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return models.Token{AccessToken: "refreshed", Expiry: time.Now().Add(time.Hour)}, nil
}

func (m *MockService) Profile(ctx context.Context, accessToken string) (models.Profile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, accessToken)
	}
	return models.Profile{SpotifyID: "spotify-user", DisplayName: "Spotify User"}, nil
}

func (m *MockService) Recommendations(ctx context.Context, accessToken, genre string, filter services.AudioFilter, limit int) ([]models.Track, error) {
	if m.RecommendationsFunc != nil {
		return m.RecommendationsFunc(ctx, accessToken, genre, filter, limit)
	}
	return []models.Track{}, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, accessToken, accountID, name, description string, public bool) (models.PlaylistSummary, error) {
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, accessToken, accountID, name, description, public)
	}
	return models.PlaylistSummary{ID: "playlist-id", Name: name, Public: public}, nil
}

func (m *MockService) AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error {
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, accessToken, playlistID, uris)
	}
	return nil
}

func (m *MockService) TopArtists(ctx context.Context, accessToken string, limit int) ([]models.Artist, error) {
	if m.TopArtistsFunc != nil {
		return m.TopArtistsFunc(ctx, accessToken, limit)
	}
	return []models.Artist{}, nil
}

func (m *MockService) SavedAlbums(ctx context.Context, accessToken string, limit int) ([]models.Album, error) {
	if m.SavedAlbumsFunc != nil {
		return m.SavedAlbumsFunc(ctx, accessToken, limit)
	}
	return []models.Album{}, nil
}

func (m *MockService) UserPlaylists(ctx context.Context, accessToken string, limit int) ([]models.PlaylistSummary, error) {
	if m.UserPlaylistsFunc != nil {
		return m.UserPlaylistsFunc(ctx, accessToken, limit)
	}
	return []models.PlaylistSummary{}, nil
}

func (m *MockService) Name() string { return "mock" }

// MemoryCredentialStore is an in-memory test double for the session engine's store.
type MemoryCredentialStore struct {
	Credentials map[string]models.SpotifyCredential
	SaveErr     error
	ClearErr    error
	SaveCalls   int
	ClearCalls  int
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{Credentials: map[string]models.SpotifyCredential{}}
}

func (s *MemoryCredentialStore) GetCredential(userID string) (models.SpotifyCredential, error) {
	return s.Credentials[userID], nil
}

func (s *MemoryCredentialStore) SaveCredential(userID string, cred models.SpotifyCredential) error {
	s.SaveCalls++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Credentials[userID] = cred
	return nil
}

func (s *MemoryCredentialStore) ClearCredential(userID string) error {
	s.ClearCalls++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	delete(s.Credentials, userID)
	return nil
}

// MemoryPlaylistStore is an in-memory test double for the playlist history store.
type MemoryPlaylistStore struct {
	Playlists []*models.GeneratedPlaylist
	CreateErr error
}

func (s *MemoryPlaylistStore) Create(playlist *models.GeneratedPlaylist) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.Playlists = append(s.Playlists, playlist)
	return nil
}

func (s *MemoryPlaylistStore) ListByUser(userID string) ([]*models.GeneratedPlaylist, error) {
	matches := []*models.GeneratedPlaylist{}
	for i := len(s.Playlists) - 1; i >= 0; i-- {
		if s.Playlists[i].UserID() == userID {
			matches = append(matches, s.Playlists[i])
		}
	}
	return matches, nil
}

// MustOpenDatabase opens an in-memory sqlite database with migrations applied
// and registers cleanup.
func MustOpenDatabase(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
