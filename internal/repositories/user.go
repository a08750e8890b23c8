package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// UserRepository implements [models.Repository] for [models.User] persistence,
// including the embedded Spotify credential columns.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, sequence, name, email, password_hash,
	spotify_id, spotify_access_token, spotify_refresh_token, spotify_token_expiry,
	created_at, updated_at, deleted_at
`

// Create inserts a new user into the database with generated ID and sequence
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	user.SetID(id)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (id, sequence, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, user.Name(), user.Email(), user.PasswordHash(), user.CreatedAt(), user.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ? AND deleted_at IS NULL"
	return r.scanUser(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a user by email address, excluding soft-deleted users
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ? AND deleted_at IS NULL"
	return r.scanUser(r.db.QueryRow(query, email))
}

// Update modifies an existing user's profile fields in the database
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	query := `
		UPDATE users
		SET name = ?, email = ?, password_hash = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, user.Name(), user.Email(), user.PasswordHash(), now, user.ID())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return requireRow(result, "user", user.ID())
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	query := `
		UPDATE users
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return requireRow(result, "user", id)
}

// List retrieves all users matching the given criteria, excluding soft-deleted users
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE deleted_at IS NULL"
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// GetCredential returns the stored Spotify credential for a user.
//
// A user with no connection yields the zero credential, not an error.
func (r *UserRepository) GetCredential(userID string) (models.SpotifyCredential, error) {
	user, err := r.Get(userID)
	if err != nil {
		return models.SpotifyCredential{}, err
	}
	return user.Credential(), nil
}

// SaveCredential writes all credential columns in a single statement.
//
// Concurrent refreshes race benignly; the last writer wins.
func (r *UserRepository) SaveCredential(userID string, cred models.SpotifyCredential) error {
	query := `
		UPDATE users
		SET spotify_id = ?, spotify_access_token = ?, spotify_refresh_token = ?,
		    spotify_token_expiry = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		nullString(cred.SpotifyID),
		nullString(cred.AccessToken),
		nullString(cred.RefreshToken),
		nullTime(cred.TokenExpiry),
		time.Now(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return requireRow(result, "user", userID)
}

// ClearCredential nulls all credential columns atomically.
func (r *UserRepository) ClearCredential(userID string) error {
	query := `
		UPDATE users
		SET spotify_id = NULL, spotify_access_token = NULL, spotify_refresh_token = NULL,
		    spotify_token_expiry = NULL, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}

	return requireRow(result, "user", userID)
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row scanner) (*models.User, error) {
	var (
		userID       string
		sequence     int
		name         string
		email        string
		passwordHash string
		spotifyID    sql.NullString
		accessToken  sql.NullString
		refreshToken sql.NullString
		tokenExpiry  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&userID, &sequence, &name, &email, &passwordHash,
		&spotifyID, &accessToken, &refreshToken, &tokenExpiry,
		&createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user := models.NewUser(sequence, email, name)
	user.SetID(userID)
	user.SetPasswordHash(passwordHash)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		user.SetDeletedAt(&deletedAt.Time)
	}

	cred := models.SpotifyCredential{
		SpotifyID:    spotifyID.String,
		AccessToken:  accessToken.String,
		RefreshToken: refreshToken.String,
	}
	if tokenExpiry.Valid {
		cred.TokenExpiry = tokenExpiry.Time
	}
	user.SetCredential(cred)

	return user, nil
}

// requireRow converts a zero-rows-affected result into a not-found error.
func requireRow(result sql.Result, entity, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s", shared.ErrNotFound, entity, id)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
