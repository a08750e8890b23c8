package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// PostRepository implements persistence for [models.Post] feed entries and their likes.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new [PostRepository] with the given database connection
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `
	p.id, p.sequence, p.author_id, u.name, p.content, p.current_song,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
	EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = ?),
	p.created_at, p.updated_at, p.deleted_at
`

const postFrom = " FROM posts p JOIN users u ON u.id = p.author_id "

// Create inserts a new post with generated ID and sequence
func (r *PostRepository) Create(post *models.Post) error {
	sequence, err := NextSequence(r.db, "posts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	post.SetID(id)

	if err := post.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO posts (id, sequence, author_id, content, current_song, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		post.AuthorID(),
		post.Content(),
		nullString(post.CurrentSong()),
		post.CreatedAt(),
		post.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// Get retrieves a post by ID with like counts as seen by viewerID,
// excluding soft-deleted records
func (r *PostRepository) Get(id, viewerID string) (*models.Post, error) {
	query := "SELECT " + postColumns + postFrom + "WHERE p.id = ? AND p.deleted_at IS NULL"
	return r.scanPost(r.db.QueryRow(query, viewerID, id))
}

// List retrieves every user's posts, newest first, with like counts as seen
// by viewerID
func (r *PostRepository) List(viewerID string) ([]*models.Post, error) {
	query := "SELECT " + postColumns + postFrom +
		"WHERE p.deleted_at IS NULL ORDER BY p.sequence DESC"

	rows, err := r.db.Query(query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return posts, nil
}

// Delete soft-deletes the author's own post.
func (r *PostRepository) Delete(id, authorID string) error {
	query := `
		UPDATE posts
		SET deleted_at = ?
		WHERE id = ? AND author_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return requireRow(result, "post", id)
}

// ToggleLike adds or removes userID's like on a post and reports the new state.
func (r *PostRepository) ToggleLike(postID, userID string) (liked bool, count int, err error) {
	var exists bool
	err = r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM posts WHERE id = ? AND deleted_at IS NULL)", postID,
	).Scan(&exists)
	if err != nil {
		return false, 0, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		return false, 0, fmt.Errorf("%w: post %s", shared.ErrNotFound, postID)
	}

	var hasLike bool
	err = r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = ? AND user_id = ?)", postID, userID,
	).Scan(&hasLike)
	if err != nil {
		return false, 0, fmt.Errorf("failed to check like: %w", err)
	}

	if hasLike {
		_, err = r.db.Exec("DELETE FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID)
	} else {
		_, err = r.db.Exec(
			"INSERT INTO post_likes (post_id, user_id, created_at) VALUES (?, ?, ?)",
			postID, userID, time.Now(),
		)
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to toggle like: %w", err)
	}

	err = r.db.QueryRow("SELECT COUNT(*) FROM post_likes WHERE post_id = ?", postID).Scan(&count)
	if err != nil {
		return false, 0, fmt.Errorf("failed to count likes: %w", err)
	}

	return !hasLike, count, nil
}

func (r *PostRepository) scanPost(row scanner) (*models.Post, error) {
	var (
		id            string
		sequence      int
		authorID      string
		authorName    string
		content       string
		currentSong   sql.NullString
		likeCount     int
		likedByViewer bool
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := row.Scan(&id, &sequence, &authorID, &authorName, &content, &currentSong,
		&likeCount, &likedByViewer, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: post", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	post := models.NewPost(sequence, authorID, content, currentSong.String)
	post.SetID(id)
	post.SetAuthorName(authorName)
	post.SetLikeCount(likeCount)
	post.SetLikedByViewer(likedByViewer)
	post.SetCreatedAt(createdAt)
	post.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		post.SetDeletedAt(&deletedAt.Time)
	}

	return post, nil
}
