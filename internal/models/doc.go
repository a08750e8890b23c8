// Package models defines domain entities and persistence interfaces for the tunedeck dashboard service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs translated from Spotify payloads at the service boundary
//   - [Track] : Recommended track with URI for playlist additions
//   - [PlaylistSummary] : Playlist metadata including the external web URL
//   - [Artist], [Album], [Profile] : Dashboard data shapes
//   - [Token] : Result of a code exchange or refresh grant
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [User] : User accounts with bcrypt password hashes and an embedded [SpotifyCredential]
//   - [GeneratedPlaylist] : History of playlists created by the recommendation pipeline
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
