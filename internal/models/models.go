// package models defines the data model for the tunedeck dashboard service
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the tunedeck service.
// Implementations include User and GeneratedPlaylist.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Track represents a recommended track translated from the Spotify payload.
type Track struct {
	ID         string `json:"id"`
	URI        string `json:"uri"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	DurationMS int    `json:"duration_ms"`
	Popularity int    `json:"popularity"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// PlaylistSummary represents a playlist resource as reported by Spotify.
type PlaylistSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// Artist represents an artist translated from the Spotify payload.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
	URL    string   `json:"url"`
}

// Album represents a saved album translated from the Spotify payload.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ReleaseDate string `json:"release_date"`
	URL         string `json:"url"`
}

// Profile represents the connected Spotify account's own profile.
type Profile struct {
	SpotifyID   string `json:"spotify_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Product     string `json:"product"`
}

// Token holds the result of an authorization code exchange or a refresh grant.
//
// RefreshToken is empty when Spotify chose not to rotate it.
type Token struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}
