package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// PlaylistRepository implements [models.Repository] for [models.GeneratedPlaylist] history records.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new [PlaylistRepository] with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

const playlistColumns = `
	id, sequence, user_id, spotify_playlist_id, name, description, url,
	genre, mood, track_count, public, created_at, updated_at, deleted_at
`

// Create inserts a new playlist record with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.GeneratedPlaylist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	playlist.SetID(id)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlists (
			id, sequence, user_id, spotify_playlist_id, name, description, url,
			genre, mood, track_count, public, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		playlist.UserID(),
		playlist.SpotifyPlaylistID(),
		playlist.Name(),
		nullString(playlist.Description()),
		nullString(playlist.URL()),
		playlist.Genre(),
		playlist.Mood(),
		playlist.TrackCount(),
		playlist.Public(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist record by ID, excluding soft-deleted records
func (r *PlaylistRepository) Get(id string) (*models.GeneratedPlaylist, error) {
	query := "SELECT " + playlistColumns + " FROM playlists WHERE id = ? AND deleted_at IS NULL"
	return r.scanPlaylist(r.db.QueryRow(query, id))
}

// Update modifies an existing playlist record
func (r *PlaylistRepository) Update(playlist *models.GeneratedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	query := `
		UPDATE playlists
		SET name = ?, description = ?, url = ?, track_count = ?, public = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		playlist.Name(),
		nullString(playlist.Description()),
		nullString(playlist.URL()),
		playlist.TrackCount(),
		playlist.Public(),
		now,
		playlist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	return requireRow(result, "playlist", playlist.ID())
}

// Delete soft-deletes a playlist record by ID
func (r *PlaylistRepository) Delete(id string) error {
	query := `
		UPDATE playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	return requireRow(result, "playlist", id)
}

// List retrieves playlist records matching the given criteria, newest first
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.GeneratedPlaylist, error) {
	query := "SELECT " + playlistColumns + " FROM playlists WHERE deleted_at IS NULL"
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	if mood, ok := criteria["mood"].(string); ok && mood != "" {
		query += " AND mood = ?"
		args = append(args, mood)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.GeneratedPlaylist
	for rows.Next() {
		playlist, err := r.scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// ListByUser retrieves all playlist records for a user, newest first
func (r *PlaylistRepository) ListByUser(userID string) ([]*models.GeneratedPlaylist, error) {
	return r.List(map[string]any{"user_id": userID})
}

func (r *PlaylistRepository) scanPlaylist(row scanner) (*models.GeneratedPlaylist, error) {
	var (
		id                string
		sequence          int
		userID            string
		spotifyPlaylistID string
		name              string
		description       sql.NullString
		url               sql.NullString
		genre             string
		mood              string
		trackCount        int
		public            bool
		createdAt         time.Time
		updatedAt         time.Time
		deletedAt         sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &spotifyPlaylistID, &name, &description, &url,
		&genre, &mood, &trackCount, &public, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: playlist", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	playlist := models.NewGeneratedPlaylist(sequence, userID, genre, mood)
	playlist.SetID(id)
	playlist.SetResult(models.PlaylistSummary{
		ID:          spotifyPlaylistID,
		Name:        name,
		Description: description.String,
		URL:         url.String,
		TrackCount:  trackCount,
		Public:      public,
	})
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}

	return playlist, nil
}
