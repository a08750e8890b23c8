package models

import (
	"fmt"
	"time"
)

// GeneratedPlaylist records a playlist created on Spotify by the recommendation pipeline.
type GeneratedPlaylist struct {
	id                string
	sequence          int
	userID            string
	spotifyPlaylistID string
	name              string
	description       string
	url               string
	genre             string
	mood              string
	trackCount        int
	public            bool
	createdAt         time.Time
	updatedAt         time.Time
	deletedAt         *time.Time
}

// NewGeneratedPlaylist creates a playlist record for the given user and pipeline inputs.
func NewGeneratedPlaylist(sequence int, userID, genre, mood string) *GeneratedPlaylist {
	now := time.Now()
	return &GeneratedPlaylist{
		sequence:  sequence,
		userID:    userID,
		genre:     genre,
		mood:      mood,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *GeneratedPlaylist) ID() string                { return p.id }
func (p *GeneratedPlaylist) Sequence() int             { return p.sequence }
func (p *GeneratedPlaylist) UserID() string            { return p.userID }
func (p *GeneratedPlaylist) SpotifyPlaylistID() string { return p.spotifyPlaylistID }
func (p *GeneratedPlaylist) Name() string              { return p.name }
func (p *GeneratedPlaylist) Description() string       { return p.description }
func (p *GeneratedPlaylist) URL() string               { return p.url }
func (p *GeneratedPlaylist) Genre() string             { return p.genre }
func (p *GeneratedPlaylist) Mood() string              { return p.mood }
func (p *GeneratedPlaylist) TrackCount() int           { return p.trackCount }
func (p *GeneratedPlaylist) Public() bool              { return p.public }
func (p *GeneratedPlaylist) CreatedAt() time.Time      { return p.createdAt }
func (p *GeneratedPlaylist) UpdatedAt() time.Time      { return p.updatedAt }
func (p *GeneratedPlaylist) DeletedAt() *time.Time     { return p.deletedAt }

func (p *GeneratedPlaylist) SetID(id string)           { p.id = id }
func (p *GeneratedPlaylist) SetCreatedAt(t time.Time)  { p.createdAt = t }
func (p *GeneratedPlaylist) SetUpdatedAt(t time.Time)  { p.updatedAt = t }
func (p *GeneratedPlaylist) SetDeletedAt(t *time.Time) { p.deletedAt = t }
func (p *GeneratedPlaylist) SetPublic(public bool)     { p.public = public }

// SetResult fills in the Spotify-side identifiers once the playlist has been created.
func (p *GeneratedPlaylist) SetResult(summary PlaylistSummary) {
	p.spotifyPlaylistID = summary.ID
	p.name = summary.Name
	p.description = summary.Description
	p.url = summary.URL
	p.trackCount = summary.TrackCount
	p.public = summary.Public
}

// Summary converts the record back to the wire-facing summary shape.
func (p *GeneratedPlaylist) Summary() PlaylistSummary {
	return PlaylistSummary{
		ID:          p.spotifyPlaylistID,
		Name:        p.name,
		Description: p.description,
		URL:         p.url,
		TrackCount:  p.trackCount,
		Public:      p.public,
	}
}

// Validate checks required fields before persistence.
func (p *GeneratedPlaylist) Validate() error {
	if p.userID == "" {
		return fmt.Errorf("user id is required")
	}
	if p.spotifyPlaylistID == "" {
		return fmt.Errorf("spotify playlist id is required")
	}
	if p.name == "" {
		return fmt.Errorf("playlist name is required")
	}
	if p.genre == "" || p.mood == "" {
		return fmt.Errorf("genre and mood are required")
	}
	return nil
}
