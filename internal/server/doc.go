// Package server provides HTTP routing, middleware, and the REST handlers for the tunedeck API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Middleware
//
// [RequestLogger] logs every request with method, path, status, and duration.
//
// [Authenticate] validates the Authorization bearer token (HS256 session JWT),
// injects [UserClaims] into the request context, and skips the public auth
// routes. Every handler below it trusts the claims completely; no handler
// performs its own authentication.
//
// # Handlers
//
// [AuthHandler] serves signup/login/profile and issues session tokens.
//
// [SpotifyHandler] serves the session endpoints (connect, callback, status,
// disconnect) plus the dashboard reads (recommendations, top artists, recent
// albums, playlists). All Spotify data flows through the engines in the tasks
// package; raw tokens never reach the client.
//
// [PlaylistHandler] serves playlist creation and per-user history.
//
// # Error Responses
//
// Domain errors map to distinguishable responses with a machine-readable
// reason field (not_connected, reauthorization_required, state_mismatch,
// no_candidates, invalid_request, external_service_error). Unexpected errors
// are logged and returned as an opaque 500.
package server
