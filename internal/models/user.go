package models

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SpotifyCredential holds a user's delegated Spotify session.
//
// The zero value means the user has never connected (or has disconnected).
// All four fields are set together on authorization and cleared together on
// disconnect or unrecoverable refresh failure.
type SpotifyCredential struct {
	SpotifyID    string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
}

// Connected reports whether a delegated session exists.
func (c SpotifyCredential) Connected() bool {
	return c.AccessToken != ""
}

// Expired reports whether the access token must be refreshed before use.
//
// An expiry exactly equal to now counts as expired. A zero expiry never
// expires; Spotify always sends one, so this only matters for stored
// credentials that predate expiry tracking.
func (c SpotifyCredential) Expired(now time.Time) bool {
	return !c.TokenExpiry.IsZero() && !now.Before(c.TokenExpiry)
}

// User represents an application user account with an optional Spotify credential.
type User struct {
	id           string
	sequence     int
	name         string
	email        string
	passwordHash string
	credential   SpotifyCredential
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewUser creates a user with the given sequence, email and display name.
func NewUser(sequence int, email, name string) *User {
	now := time.Now()
	return &User{
		sequence:  sequence,
		name:      name,
		email:     strings.ToLower(strings.TrimSpace(email)),
		createdAt: now,
		updatedAt: now,
	}
}

func (u *User) ID() string                    { return u.id }
func (u *User) Sequence() int                 { return u.sequence }
func (u *User) Name() string                  { return u.name }
func (u *User) Email() string                 { return u.email }
func (u *User) PasswordHash() string          { return u.passwordHash }
func (u *User) Credential() SpotifyCredential { return u.credential }
func (u *User) CreatedAt() time.Time          { return u.createdAt }
func (u *User) UpdatedAt() time.Time          { return u.updatedAt }
func (u *User) DeletedAt() *time.Time         { return u.deletedAt }

func (u *User) SetID(id string)           { u.id = id }
func (u *User) SetName(name string)       { u.name = name }
func (u *User) SetCreatedAt(t time.Time)  { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)  { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time) { u.deletedAt = t }
func (u *User) SetPasswordHash(h string)  { u.passwordHash = h }

func (u *User) SetCredential(c SpotifyCredential) { u.credential = c }

// SetPassword hashes the plaintext password with bcrypt and stores the hash.
func (u *User) SetPassword(plain string) error {
	if len(plain) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.passwordHash = string(hash)
	return nil
}

// ComparePassword reports whether the plaintext password matches the stored hash.
func (u *User) ComparePassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(plain)) == nil
}

// Validate checks required fields before persistence.
func (u *User) Validate() error {
	if u.name == "" {
		return fmt.Errorf("user name is required")
	}
	if u.email == "" || !strings.Contains(u.email, "@") {
		return fmt.Errorf("valid email is required")
	}
	if u.passwordHash == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
