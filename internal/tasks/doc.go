// Package tasks orchestrates the Spotify session lifecycle and the recommendation pipeline.
//
// # Session Lifecycle
//
// [SessionEngine] owns every stored credential's lifecycle:
//
//  1. [SessionEngine.BeginAuthorization] : builds the authorization redirect URL
//     with an HMAC-signed state parameter bound to the initiating user
//  2. [SessionEngine.CompleteAuthorization] : validates state, exchanges the
//     one-time code, fetches the account profile, persists the full credential
//  3. [SessionEngine.EnsureAccessToken] : the token gate. Returns the stored
//     access token when still valid, refreshes it when expired, clears the
//     credential and demands reauthorization when the refresh is rejected
//  4. [SessionEngine.Disconnect] : forgets the credential locally (no remote
//     revocation; the user can revoke the grant on Spotify directly)
//
// Every outbound Spotify call in the system passes through the gate first.
// Concurrent refreshes for the same user are benign: the persist is a single
// last-writer-wins write and Spotify tolerates overlapping refresh grants.
//
// # Playlist Pipeline
//
// [PlaylistEngine] maps {genre, mood} onto the recommendation query vocabulary
// and drives the create-and-populate flow:
//
//   - The mood table is total over the supported enum; unsupported moods and
//     genres fail before any external call.
//   - Zero candidates surfaces as [shared.ErrNoCandidates]; no empty playlist
//     is ever created.
//   - Track additions are batched; a failure mid-batch fails the whole build.
//   - Any auth rejection after the gate clears the stale credential so the
//     next status check tells the truth.
//
// Created playlists are recorded per user via [PlaylistStore] for the
// dashboard's history view.
package tasks
