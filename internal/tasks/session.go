package tasks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/services"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// CredentialStore defines the persistence operations the session engine needs.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type CredentialStore interface {
	GetCredential(userID string) (models.SpotifyCredential, error)
	SaveCredential(userID string, cred models.SpotifyCredential) error
	ClearCredential(userID string) error
}

// SessionEngine owns the Spotify credential lifecycle for every user:
// building the authorization redirect, completing the code exchange,
// refreshing expired tokens, and clearing credentials that Spotify rejects.
//
// EnsureAccessToken is the gate in front of every outbound Spotify call;
// no caller may use a stored access token without passing through it,
// because tokens expire unpredictably relative to request timing.
type SessionEngine struct {
	store  CredentialStore
	music  services.MusicService
	secret []byte
	now    func() time.Time
}

// NewSessionEngine creates a session engine. The secret signs the OAuth state
// parameter so the callback can be validated without server-side storage.
func NewSessionEngine(store CredentialStore, music services.MusicService, secret string) *SessionEngine {
	return &SessionEngine{
		store:  store,
		music:  music,
		secret: []byte(secret),
		now:    time.Now,
	}
}

// BeginAuthorization returns the Spotify authorization redirect URL for the user.
//
// The state parameter is a fresh nonce plus an HMAC binding it to the
// initiating user, so a callback carrying someone else's state is rejected.
func (e *SessionEngine) BeginAuthorization(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: missing user id", shared.ErrInvalidInput)
	}

	nonce := shared.GenerateID()
	state := nonce + "." + e.sign(userID, nonce)

	return e.music.AuthCodeURL(state), nil
}

// CompleteAuthorization exchanges the one-time code for tokens, fetches the
// account profile for its Spotify ID, and persists the full credential.
//
// The code is single-use on Spotify's side; retrying a consumed code fails
// with [shared.ErrInvalidInput].
func (e *SessionEngine) CompleteAuthorization(ctx context.Context, userID, code, state string) error {
	if code == "" {
		return fmt.Errorf("%w: missing authorization code", shared.ErrInvalidInput)
	}

	if err := e.validateState(userID, state); err != nil {
		return err
	}

	token, err := e.music.Exchange(ctx, code)
	if err != nil {
		return err
	}

	profile, err := e.music.Profile(ctx, token.AccessToken)
	if err != nil {
		return err
	}

	cred := models.SpotifyCredential{
		SpotifyID:    profile.SpotifyID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
	}

	if err := e.store.SaveCredential(userID, cred); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	return nil
}

// EnsureAccessToken returns a usable access token for the user, refreshing
// the stored credential first when it has expired.
//
// A refresh rejected by Spotify clears the credential and fails with
// [shared.ErrReauthRequired]; a user with no credential fails with
// [shared.ErrNotConnected]. Transient refresh failures leave the credential
// untouched.
func (e *SessionEngine) EnsureAccessToken(ctx context.Context, userID string) (models.SpotifyCredential, error) {
	cred, err := e.store.GetCredential(userID)
	if err != nil {
		return models.SpotifyCredential{}, err
	}

	if !cred.Connected() {
		return models.SpotifyCredential{}, shared.ErrNotConnected
	}

	if !cred.Expired(e.now()) {
		return cred, nil
	}

	token, err := e.music.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		if errors.Is(err, shared.ErrReauthRequired) {
			if clearErr := e.store.ClearCredential(userID); clearErr != nil {
				return models.SpotifyCredential{}, fmt.Errorf("failed to clear credential: %w", clearErr)
			}
		}
		return models.SpotifyCredential{}, err
	}

	cred.AccessToken = token.AccessToken
	cred.TokenExpiry = token.Expiry
	if token.RefreshToken != "" {
		// Spotify rotated the refresh token; otherwise keep the prior one.
		cred.RefreshToken = token.RefreshToken
	}

	// Last writer wins when concurrent requests refresh the same credential.
	if err := e.store.SaveCredential(userID, cred); err != nil {
		return models.SpotifyCredential{}, fmt.Errorf("failed to persist refreshed credential: %w", err)
	}

	return cred, nil
}

// Status reports whether the user holds a usable credential.
//
// An expired credential is refreshed as a side effect, so a true result is
// never contradicted by the very next API call discovering an unrefreshable
// token.
func (e *SessionEngine) Status(ctx context.Context, userID string) (bool, error) {
	cred, err := e.store.GetCredential(userID)
	if err != nil {
		return false, err
	}

	if !cred.Connected() {
		return false, nil
	}

	if !cred.Expired(e.now()) {
		return true, nil
	}

	if _, err := e.EnsureAccessToken(ctx, userID); err != nil {
		if errors.Is(err, shared.ErrReauthRequired) || errors.Is(err, shared.ErrNotConnected) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Disconnect forgets the stored credential. The token is not revoked with
// Spotify; the user can revoke the grant from their Spotify account settings.
func (e *SessionEngine) Disconnect(ctx context.Context, userID string) error {
	return e.store.ClearCredential(userID)
}

// Expire clears the stored credential after Spotify rejected an access token
// out-of-band (e.g., the user revoked the grant directly on Spotify).
func (e *SessionEngine) Expire(userID string) error {
	return e.store.ClearCredential(userID)
}

// validateState checks that the state parameter was minted for this user.
func (e *SessionEngine) validateState(userID, state string) error {
	nonce, sig, found := strings.Cut(state, ".")
	if !found || nonce == "" {
		return fmt.Errorf("%w: malformed state", shared.ErrStateMismatch)
	}

	expected := e.sign(userID, nonce)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return shared.ErrStateMismatch
	}

	return nil
}

func (e *SessionEngine) sign(userID, nonce string) string {
	mac := hmac.New(sha256.New, e.secret)
	mac.Write([]byte(userID + "." + nonce))
	return hex.EncodeToString(mac.Sum(nil))
}
