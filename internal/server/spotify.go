package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/tasks"
)

// SpotifyHandler serves the Spotify session and dashboard endpoints.
type SpotifyHandler struct {
	sessions *tasks.SessionEngine
	engine   *tasks.PlaylistEngine
	logger   *log.Logger
}

// NewSpotifyHandler creates a handler over the session and playlist engines.
func NewSpotifyHandler(sessions *tasks.SessionEngine, engine *tasks.PlaylistEngine, logger *log.Logger) *SpotifyHandler {
	return &SpotifyHandler{sessions: sessions, engine: engine, logger: logger}
}

// Register adds the Spotify routes to the router.
func (h *SpotifyHandler) Register(router Router) {
	router.Handle(http.MethodGet, "/api/spotify/connect", http.HandlerFunc(h.Connect))
	router.Handle(http.MethodPost, "/api/spotify/callback", http.HandlerFunc(h.Callback))
	router.Handle(http.MethodGet, "/api/spotify/status", http.HandlerFunc(h.Status))
	router.Handle(http.MethodPost, "/api/spotify/disconnect", http.HandlerFunc(h.Disconnect))
	router.Handle(http.MethodGet, "/api/spotify/recommendations", http.HandlerFunc(h.Recommendations))
	router.Handle(http.MethodGet, "/api/spotify/top-artists", http.HandlerFunc(h.TopArtists))
	router.Handle(http.MethodGet, "/api/spotify/recent-albums", http.HandlerFunc(h.RecentAlbums))
	router.Handle(http.MethodGet, "/api/spotify/playlists", http.HandlerFunc(h.Playlists))
}

// Connect returns the authorization redirect URL; the client performs the redirect.
func (h *SpotifyHandler) Connect(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	url, err := h.sessions.BeginAuthorization(claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Callback completes the authorization code exchange. Tokens are persisted
// server-side and never returned to the client.
func (h *SpotifyHandler) Callback(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	var body struct {
		Code  string `json:"code"`
		State string `json:"state"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.sessions.CompleteAuthorization(r.Context(), claims.UserID, body.Code, body.State); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("spotify connected", "user", claims.UserID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Status reports whether the user currently holds a usable credential.
func (h *SpotifyHandler) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	connected, err := h.sessions.Status(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"connected": connected})
}

// Disconnect clears the stored credential.
func (h *SpotifyHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	if err := h.sessions.Disconnect(r.Context(), claims.UserID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("spotify disconnected", "user", claims.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "successfully disconnected from Spotify"})
}

// Recommendations returns candidate tracks for a genre and mood without creating a playlist.
//
// Zero candidates is reported as an empty list with a reason, not an error.
func (h *SpotifyHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	genre := r.URL.Query().Get("genre")
	mood := r.URL.Query().Get("mood")

	tracks, err := h.engine.Recommend(r.Context(), claims.UserID, genre, mood)
	if errors.Is(err, shared.ErrNoCandidates) {
		writeJSON(w, http.StatusOK, map[string]any{"tracks": []models.Track{}, "reason": "no_candidates"})
		return
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

// TopArtists returns the user's most-played artists.
func (h *SpotifyHandler) TopArtists(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	artists, err := h.engine.TopArtists(r.Context(), claims.UserID, 5)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"artists": artists})
}

// RecentAlbums returns the user's recently saved albums.
func (h *SpotifyHandler) RecentAlbums(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	albums, err := h.engine.SavedAlbums(r.Context(), claims.UserID, 8)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"albums": albums})
}

// Playlists returns the user's own Spotify playlists.
func (h *SpotifyHandler) Playlists(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	playlists, err := h.engine.UserPlaylists(r.Context(), claims.UserID, 6)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"playlists": playlists})
}
