// Package services defines the [MusicService] interface for the external music provider and implements it for Spotify.
//
// # MusicService Interface
//
// The interface is the single boundary to the Spotify Web API. Every method takes the
// access token per call: token validity is the session engine's concern, and nothing in
// this package caches or refreshes credentials.
//
// # Spotify Implementation
//
// [SpotifyClient] holds an [oauth2.Config] for the authorization endpoints and a plain
// HTTP client with a bounded timeout for resource calls. A [rate.Limiter] throttles all
// outbound requests.
//
// # Error Handling
//
// Responses are classified onto the shared taxonomy at this boundary:
//   - 401/403 : [shared.ErrReauthRequired] (token revoked out-of-band or scopes no longer granted)
//   - 400/404 : [shared.ErrInvalidInput] (bad seed genre, malformed request)
//   - 429/5xx/network/timeout : [shared.ErrExternalService]
//
// GET requests are retried once on [shared.ErrExternalService]; playlist creation and
// track additions are never retried because they are not idempotent.
//
// # API Mappings
//
// Spotify JSON payloads are decoded into wire types ([SpotifyTrack], [SpotifyPlaylist], ...)
// and translated to models DTOs before leaving the package, so nothing upstream depends on
// Spotify's field names.
package services
