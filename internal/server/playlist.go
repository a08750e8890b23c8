package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/tasks"
)

// PlaylistHandler serves playlist creation and history endpoints.
type PlaylistHandler struct {
	engine *tasks.PlaylistEngine
	logger *log.Logger
}

// NewPlaylistHandler creates a handler over the playlist engine.
func NewPlaylistHandler(engine *tasks.PlaylistEngine, logger *log.Logger) *PlaylistHandler {
	return &PlaylistHandler{engine: engine, logger: logger}
}

// Register adds the playlist routes to the router.
func (h *PlaylistHandler) Register(router Router) {
	router.Handle(http.MethodPost, "/api/playlist", http.HandlerFunc(h.Create))
	router.Handle(http.MethodGet, "/api/playlist", http.HandlerFunc(h.History))
}

// Create builds a mood playlist on the user's Spotify account and returns its summary.
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	var body struct {
		Genre string `json:"genre"`
		Mood  string `json:"mood"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	summary, err := h.engine.Create(r.Context(), claims.UserID, body.Genre, body.Mood)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("playlist created",
		"user", claims.UserID,
		"playlist", summary.ID,
		"tracks", summary.TrackCount,
	)

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          summary.ID,
		"name":        summary.Name,
		"url":         summary.URL,
		"track_count": summary.TrackCount,
	})
}

type historyEntry struct {
	ID                string    `json:"id"`
	SpotifyPlaylistID string    `json:"spotify_playlist_id"`
	Name              string    `json:"name"`
	URL               string    `json:"url"`
	Genre             string    `json:"genre"`
	Mood              string    `json:"mood"`
	TrackCount        int       `json:"track_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// History returns the playlists previously generated for the user, newest first.
func (h *PlaylistHandler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	records, err := h.engine.History(claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	entries := make([]historyEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, historyEntry{
			ID:                record.ID(),
			SpotifyPlaylistID: record.SpotifyPlaylistID(),
			Name:              record.Name(),
			URL:               record.URL(),
			Genre:             record.Genre(),
			Mood:              record.Mood(),
			TrackCount:        record.TrackCount(),
			CreatedAt:         record.CreatedAt(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"playlists": entries})
}
