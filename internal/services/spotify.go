// Spotify API implementation of [MusicService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// addTracksChunkSize is the API cap on URIs per playlist-add call.
	addTracksChunkSize = 100

	requestTimeout = 10 * time.Second
)

// spotifyScopes is the fixed, versioned permission list. Adding a scope here
// invalidates previously granted sessions for features that need it, so scope
// changes force reauthorization rather than silently degrading.
var spotifyScopes = []string{
	"user-read-private",
	"user-read-email",
	"playlist-modify-private",
	"playlist-modify-public",
	"user-read-recently-played",
	"user-top-read",
	"user-read-currently-playing",
	"user-library-read",
	"playlist-read-private",
	"playlist-read-collaborative",
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"` // premium, free, etc.
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	Popularity   int             `json:"popularity"`
	PreviewURL   string          `json:"preview_url"`
	URI          string          `json:"uri"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Genres       []string       `json:"genres"`
	Images       []SpotifyImage `json:"images"`
	URI          string         `json:"uri"`
	ExternalURLs externalURLs   `json:"external_urls"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	ReleaseDate  string          `json:"release_date"`
	TotalTracks  int             `json:"total_tracks"`
	Images       []SpotifyImage  `json:"images"`
	URI          string          `json:"uri"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

type playlistTracksField struct {
	Total int `json:"total"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Public       bool                `json:"public"`
	Tracks       playlistTracksField `json:"tracks"`
	URI          string              `json:"uri"`
	ExternalURLs externalURLs        `json:"external_urls"`
}

type recommendationsResponse struct {
	Tracks []SpotifyTrack `json:"tracks"`
}

type topArtistsResponse struct {
	Items []SpotifyArtist `json:"items"`
}

type savedAlbumsResponse struct {
	Items []struct {
		AddedAt string       `json:"added_at"`
		Album   SpotifyAlbum `json:"album"`
	} `json:"items"`
}

type paginatedPlaylists struct {
	Items []SpotifyPlaylist `json:"items"`
	Total int               `json:"total"`
}

// SpotifyClient implements [MusicService] against the Spotify Web API.
//
// Outbound calls share a client-side rate limiter and a bounded timeout.
// Read-only calls that fail with a transient error are retried once.
type SpotifyClient struct {
	config     *oauth2.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyClient creates a Spotify client from the given OAuth2 credentials.
func NewSpotifyClient(credentials map[string]string) (*SpotifyClient, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/spotify/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyClient{
		config:     config,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyClient) Name() string {
	return "Spotify"
}

// SetHTTPClient replaces the underlying HTTP client, for callers that need a
// custom transport or proxy.
func (s *SpotifyClient) SetHTTPClient(client *http.Client) {
	s.httpClient = client
}

// AuthCodeURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyClient) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades a one-time authorization code for tokens.
func (s *SpotifyClient) Exchange(ctx context.Context, code string) (models.Token, error) {
	if code == "" {
		return models.Token{}, fmt.Errorf("%w: missing authorization code", shared.ErrInvalidInput)
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return models.Token{}, classifyTokenError(err, shared.ErrInvalidInput)
	}

	return models.Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}, nil
}

// Refresh mints a new access token from a refresh token.
//
// Spotify only rotates the refresh token occasionally; when the grant response
// omits one, the returned Token carries an empty RefreshToken and the caller
// keeps the prior value.
func (s *SpotifyClient) Refresh(ctx context.Context, refreshToken string) (models.Token, error) {
	if refreshToken == "" {
		return models.Token{}, fmt.Errorf("%w: no refresh token on file", shared.ErrReauthRequired)
	}

	source := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return models.Token{}, classifyTokenError(err, shared.ErrReauthRequired)
	}

	rotated := token.RefreshToken
	if rotated == refreshToken {
		rotated = ""
	}

	return models.Token{
		AccessToken:  token.AccessToken,
		RefreshToken: rotated,
		Expiry:       token.Expiry,
	}, nil
}

// classifyTokenError maps token-endpoint failures onto the error taxonomy.
// A definitive rejection maps to rejection; everything else is transient.
func classifyTokenError(err error, rejection error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		code := retrieveErr.Response.StatusCode
		if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			return fmt.Errorf("%w: token endpoint status %d", rejection, code)
		}
	}
	return fmt.Errorf("%w: %v", shared.ErrExternalService, err)
}

// do performs an authenticated request against the API, translating status
// codes onto the error taxonomy. GET requests are retried once on transient
// failures; writes never are.
func (s *SpotifyClient) do(ctx context.Context, method, endpoint, accessToken string, body, result any) error {
	attempts := 1
	if method == http.MethodGet {
		attempts = 2
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = s.doOnce(ctx, method, endpoint, accessToken, body, result); err == nil {
			return nil
		}
		if !errors.Is(err, shared.ErrExternalService) {
			return err
		}
	}

	return err
}

func (s *SpotifyClient) doOnce(ctx context.Context, method, endpoint, accessToken string, body, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrExternalService, err)
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrExternalService, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		// Token revoked out-of-band or granted scopes no longer cover the call.
		return fmt.Errorf("%w: status %d on %s", shared.ErrReauthRequired, resp.StatusCode, endpoint)
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status %d on %s", shared.ErrInvalidInput, resp.StatusCode, endpoint)
	default:
		return fmt.Errorf("%w: status %d on %s", shared.ErrExternalService, resp.StatusCode, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Profile retrieves the authorized account's own profile.
func (s *SpotifyClient) Profile(ctx context.Context, accessToken string) (models.Profile, error) {
	var user SpotifyUser
	if err := s.do(ctx, http.MethodGet, "/me", accessToken, nil, &user); err != nil {
		return models.Profile{}, err
	}

	return models.Profile{
		SpotifyID:   user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Product:     user.Product,
	}, nil
}

// Recommendations fetches up to limit candidate tracks for a seed genre and audio filter.
func (s *SpotifyClient) Recommendations(ctx context.Context, accessToken, genre string, filter AudioFilter, limit int) ([]models.Track, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	values := filter.Values()
	values.Set("seed_genres", genre)
	values.Set("limit", strconv.Itoa(limit))

	var response recommendationsResponse
	endpoint := "/recommendations?" + values.Encode()
	if err := s.do(ctx, http.MethodGet, endpoint, accessToken, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks))
	for _, st := range response.Tracks {
		tracks = append(tracks, mapTrack(st))
	}

	return tracks, nil
}

// CreatePlaylist creates a playlist under the given account.
func (s *SpotifyClient) CreatePlaylist(ctx context.Context, accessToken, accountID, name, description string, public bool) (models.PlaylistSummary, error) {
	if accountID == "" {
		return models.PlaylistSummary{}, fmt.Errorf("%w: missing account id", shared.ErrInvalidInput)
	}

	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(accountID))
	if err := s.do(ctx, http.MethodPost, endpoint, accessToken, body, &playlist); err != nil {
		return models.PlaylistSummary{}, err
	}

	return mapPlaylist(playlist), nil
}

// AddTracks adds track URIs to a playlist in batches of at most 100.
//
// A failure mid-batch aborts the whole operation; the caller must not report
// a half-populated playlist as success.
func (s *SpotifyClient) AddTracks(ctx context.Context, accessToken, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return fmt.Errorf("%w: no track URIs to add", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	for start := 0; start < len(uris); start += addTracksChunkSize {
		end := start + addTracksChunkSize
		if end > len(uris) {
			end = len(uris)
		}

		body := map[string][]string{"uris": uris[start:end]}
		if err := s.do(ctx, http.MethodPost, endpoint, accessToken, body, nil); err != nil {
			return fmt.Errorf("adding tracks %d-%d: %w", start, end-1, err)
		}
	}

	return nil
}

// TopArtists fetches the account's most-played artists over the medium term.
func (s *SpotifyClient) TopArtists(ctx context.Context, accessToken string, limit int) ([]models.Artist, error) {
	if limit <= 0 {
		limit = 5
	}

	var response topArtistsResponse
	endpoint := fmt.Sprintf("/me/top/artists?limit=%d&time_range=medium_term", limit)
	if err := s.do(ctx, http.MethodGet, endpoint, accessToken, nil, &response); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(response.Items))
	for _, sa := range response.Items {
		artists = append(artists, models.Artist{
			ID:     sa.ID,
			Name:   sa.Name,
			Genres: sa.Genres,
			URL:    sa.ExternalURLs.Spotify,
		})
	}

	return artists, nil
}

// SavedAlbums fetches the account's most recently saved albums.
func (s *SpotifyClient) SavedAlbums(ctx context.Context, accessToken string, limit int) ([]models.Album, error) {
	if limit <= 0 {
		limit = 8
	}

	var response savedAlbumsResponse
	endpoint := fmt.Sprintf("/me/albums?limit=%d", limit)
	if err := s.do(ctx, http.MethodGet, endpoint, accessToken, nil, &response); err != nil {
		return nil, err
	}

	albums := make([]models.Album, 0, len(response.Items))
	for _, item := range response.Items {
		album := models.Album{
			ID:          item.Album.ID,
			Name:        item.Album.Name,
			ReleaseDate: item.Album.ReleaseDate,
			URL:         item.Album.ExternalURLs.Spotify,
		}
		if len(item.Album.Artists) > 0 {
			album.Artist = item.Album.Artists[0].Name
		}
		albums = append(albums, album)
	}

	return albums, nil
}

// UserPlaylists fetches the account's own playlists.
func (s *SpotifyClient) UserPlaylists(ctx context.Context, accessToken string, limit int) ([]models.PlaylistSummary, error) {
	if limit <= 0 {
		limit = 6
	}

	var response paginatedPlaylists
	endpoint := fmt.Sprintf("/me/playlists?limit=%d", limit)
	if err := s.do(ctx, http.MethodGet, endpoint, accessToken, nil, &response); err != nil {
		return nil, err
	}

	playlists := make([]models.PlaylistSummary, 0, len(response.Items))
	for _, sp := range response.Items {
		playlists = append(playlists, mapPlaylist(sp))
	}

	return playlists, nil
}

func mapTrack(st SpotifyTrack) models.Track {
	track := models.Track{
		ID:         st.ID,
		URI:        st.URI,
		Title:      st.Name,
		Album:      st.Album.Name,
		DurationMS: st.DurationMS,
		Popularity: st.Popularity,
		PreviewURL: st.PreviewURL,
	}
	if len(st.Artists) > 0 {
		track.Artist = st.Artists[0].Name
	}
	return track
}

func mapPlaylist(sp SpotifyPlaylist) models.PlaylistSummary {
	return models.PlaylistSummary{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		URL:         sp.ExternalURLs.Spotify,
		TrackCount:  sp.Tracks.Total,
		Public:      sp.Public,
	}
}
