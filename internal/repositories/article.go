package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// ArticleRepository implements persistence for [models.Article] blog entries.
type ArticleRepository struct {
	db *sql.DB
}

// NewArticleRepository creates a new [ArticleRepository] with the given database connection
func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleColumns = `
	a.id, a.sequence, a.author_id, u.name, a.title, a.summary, a.content,
	a.category, a.tags, a.view_count, a.created_at, a.updated_at, a.deleted_at
`

const articleFrom = " FROM articles a JOIN users u ON u.id = a.author_id "

// Create inserts a new article with generated ID and sequence
func (r *ArticleRepository) Create(article *models.Article) error {
	sequence, err := NextSequence(r.db, "articles")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	article.SetID(id)

	if err := article.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tags, err := encodeTags(article.Tags())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO articles (
			id, sequence, author_id, title, summary, content, category, tags,
			view_count, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		article.AuthorID(),
		article.Title(),
		article.Summary(),
		article.Content(),
		article.Category(),
		tags,
		article.ViewCount(),
		article.CreatedAt(),
		article.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

// Get retrieves an article by ID, excluding soft-deleted records
func (r *ArticleRepository) Get(id string) (*models.Article, error) {
	query := "SELECT " + articleColumns + articleFrom + "WHERE a.id = ? AND a.deleted_at IS NULL"
	return r.scanArticle(r.db.QueryRow(query, id))
}

// IncrementViews bumps an article's view counter and returns the new total.
func (r *ArticleRepository) IncrementViews(id string) (int, error) {
	result, err := r.db.Exec(
		"UPDATE articles SET view_count = view_count + 1 WHERE id = ? AND deleted_at IS NULL", id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	if err := requireRow(result, "article", id); err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow("SELECT view_count FROM articles WHERE id = ?", id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to read view count: %w", err)
	}
	return count, nil
}

// Update modifies an article. Only the author's own articles match, so an
// update by anyone else reports not found.
func (r *ArticleRepository) Update(article *models.Article) error {
	if err := article.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tags, err := encodeTags(article.Tags())
	if err != nil {
		return err
	}

	now := time.Now()
	article.SetUpdatedAt(now)

	query := `
		UPDATE articles
		SET title = ?, summary = ?, content = ?, category = ?, tags = ?, updated_at = ?
		WHERE id = ? AND author_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		article.Title(),
		article.Summary(),
		article.Content(),
		article.Category(),
		tags,
		now,
		article.ID(),
		article.AuthorID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	return requireRow(result, "article", article.ID())
}

// Delete soft-deletes the author's own article.
func (r *ArticleRepository) Delete(id, authorID string) error {
	query := `
		UPDATE articles
		SET deleted_at = ?
		WHERE id = ? AND author_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	return requireRow(result, "article", id)
}

// List retrieves all articles, newest first
func (r *ArticleRepository) List() ([]*models.Article, error) {
	return r.list("", nil)
}

// ListByAuthor retrieves one author's articles, newest first
func (r *ArticleRepository) ListByAuthor(authorID string) ([]*models.Article, error) {
	return r.list(" AND a.author_id = ?", []any{authorID})
}

func (r *ArticleRepository) list(filter string, args []any) ([]*models.Article, error) {
	query := "SELECT " + articleColumns + articleFrom +
		"WHERE a.deleted_at IS NULL" + filter + " ORDER BY a.sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article, err := r.scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return articles, nil
}

func (r *ArticleRepository) scanArticle(row scanner) (*models.Article, error) {
	var (
		id         string
		sequence   int
		authorID   string
		authorName string
		title      string
		summary    string
		content    string
		category   string
		tags       sql.NullString
		viewCount  int
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &authorID, &authorName, &title, &summary, &content,
		&category, &tags, &viewCount, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: article", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}

	article := models.NewArticle(sequence, authorID, title, summary, content, category)
	article.SetID(id)
	article.SetAuthorName(authorName)
	article.SetViewCount(viewCount)
	article.SetCreatedAt(createdAt)
	article.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		article.SetDeletedAt(&deletedAt.Time)
	}

	if tags.Valid && tags.String != "" {
		decoded, err := decodeTags(tags.String)
		if err != nil {
			return nil, err
		}
		article.SetTags(decoded)
	}

	return article, nil
}

// Tags are stored as a JSON array in a single text column.
func encodeTags(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

func decodeTags(raw string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}
