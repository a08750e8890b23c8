package repositories

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

func createTestArticle(t *testing.T, repo *ArticleRepository, authorID, title string) *models.Article {
	t.Helper()

	article := models.NewArticle(0, authorID, title, "A summary", "Full text", "Reviews")
	if err := repo.Create(article); err != nil {
		t.Fatalf("failed to create article: %v", err)
	}
	return article
}

func TestArticleRepository(t *testing.T) {
	t.Run("Create and Get round-trip", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewArticleRepository(db)
		author := createTestUser(t, users, "writer@example.com")

		article := models.NewArticle(0, author.ID(), "First Listen", "A summary", "Full text", "Reviews")
		article.SetTags([]string{"jazz", "albums"})
		if err := repo.Create(article); err != nil {
			t.Fatalf("failed to create article: %v", err)
		}
		if article.ID() == "" {
			t.Error("article ID should be set after creation")
		}

		found, err := repo.Get(article.ID())
		if err != nil {
			t.Fatalf("failed to get article: %v", err)
		}
		if found.Title() != "First Listen" || found.Category() != "Reviews" {
			t.Errorf("unexpected article: %s / %s", found.Title(), found.Category())
		}
		if found.AuthorName() != author.Name() {
			t.Errorf("expected author name %s, got %s", author.Name(), found.AuthorName())
		}
		if !reflect.DeepEqual(found.Tags(), []string{"jazz", "albums"}) {
			t.Errorf("unexpected tags: %v", found.Tags())
		}
		if found.ViewCount() != 0 {
			t.Errorf("expected zero views, got %d", found.ViewCount())
		}
	})

	t.Run("Create rejects an unknown category", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewArticleRepository(db)
		author := createTestUser(t, users, "writer@example.com")

		article := models.NewArticle(0, author.ID(), "Title", "Summary", "Text", "Gossip")
		if err := repo.Create(article); err == nil {
			t.Error("expected validation error for unknown category")
		}
	})

	t.Run("IncrementViews counts reads", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewArticleRepository(db)
		author := createTestUser(t, users, "writer@example.com")
		article := createTestArticle(t, repo, author.ID(), "Counted")

		for want := 1; want <= 3; want++ {
			views, err := repo.IncrementViews(article.ID())
			if err != nil {
				t.Fatalf("failed to increment views: %v", err)
			}
			if views != want {
				t.Errorf("expected %d views, got %d", want, views)
			}
		}

		if _, err := repo.IncrementViews("missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing article, got %v", err)
		}
	})

	t.Run("List returns newest first", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewArticleRepository(db)
		author := createTestUser(t, users, "writer@example.com")

		createTestArticle(t, repo, author.ID(), "Older")
		createTestArticle(t, repo, author.ID(), "Newer")

		articles, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list articles: %v", err)
		}
		if len(articles) != 2 || articles[0].Title() != "Newer" {
			t.Errorf("expected newest first, got %v", articles)
		}
	})

	t.Run("ListByAuthor filters to one author", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewArticleRepository(db)
		author := createTestUser(t, users, "writer@example.com")
		other := createTestUser(t, users, "other@example.com")

		createTestArticle(t, repo, author.ID(), "Mine")
		createTestArticle(t, repo, other.ID(), "Theirs")

		articles, err := repo.ListByAuthor(author.ID())
		if err != nil {
			t.Fatalf("failed to list articles: %v", err)
		}
		if len(articles) != 1 || articles[0].Title() != "Mine" {
			t.Errorf("expected only the author's article, got %v", articles)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewArticleRepository(db)
		author := createTestUser(t, users, "writer@example.com")
		article := createTestArticle(t, repo, author.ID(), "Draft")

		t.Run("edits the author's own article", func(t *testing.T) {
			article.SetTitle("Edited")
			if err := repo.Update(article); err != nil {
				t.Fatalf("failed to update article: %v", err)
			}

			found, err := repo.Get(article.ID())
			if err != nil {
				t.Fatalf("failed to get article: %v", err)
			}
			if found.Title() != "Edited" {
				t.Errorf("expected title Edited, got %s", found.Title())
			}
		})

		t.Run("someone else's article reports not found", func(t *testing.T) {
			imposter := models.NewArticle(0, "someone-else", "Hijacked", "s", "c", "Reviews")
			imposter.SetID(article.ID())
			if err := repo.Update(imposter); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewArticleRepository(db)
		author := createTestUser(t, users, "writer@example.com")
		article := createTestArticle(t, repo, author.ID(), "Doomed")

		t.Run("someone else's article reports not found", func(t *testing.T) {
			if err := repo.Delete(article.ID(), "someone-else"); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("soft-deletes the author's own article", func(t *testing.T) {
			if err := repo.Delete(article.ID(), author.ID()); err != nil {
				t.Fatalf("failed to delete article: %v", err)
			}
			if _, err := repo.Get(article.ID()); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}

			// The row survives as soft-deleted.
			var deleted sql.NullTime
			err := db.QueryRow("SELECT deleted_at FROM articles WHERE id = ?", article.ID()).Scan(&deleted)
			if err != nil {
				t.Fatalf("failed to read deleted row: %v", err)
			}
			if !deleted.Valid {
				t.Error("expected deleted_at to be set")
			}
		})
	})
}

func createTestPost(t *testing.T, repo *PostRepository, authorID, content string) *models.Post {
	t.Helper()

	post := models.NewPost(0, authorID, content, "")
	if err := repo.Create(post); err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func TestPostRepository(t *testing.T) {
	t.Run("Create and List round-trip", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewPostRepository(db)
		author := createTestUser(t, users, "poster@example.com")

		post := models.NewPost(0, author.ID(), "Listening right now", "Blue in Green")
		if err := repo.Create(post); err != nil {
			t.Fatalf("failed to create post: %v", err)
		}

		posts, err := repo.List(author.ID())
		if err != nil {
			t.Fatalf("failed to list posts: %v", err)
		}
		if len(posts) != 1 {
			t.Fatalf("expected one post, got %d", len(posts))
		}
		if posts[0].Content() != "Listening right now" || posts[0].CurrentSong() != "Blue in Green" {
			t.Errorf("unexpected post: %+v", posts[0])
		}
		if posts[0].AuthorName() != author.Name() {
			t.Errorf("expected author name %s, got %s", author.Name(), posts[0].AuthorName())
		}
		if posts[0].LikeCount() != 0 || posts[0].LikedByViewer() {
			t.Error("expected a fresh post with no likes")
		}
	})

	t.Run("List returns every user's posts newest first", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewPostRepository(db)
		first := createTestUser(t, users, "first@example.com")
		second := createTestUser(t, users, "second@example.com")

		createTestPost(t, repo, first.ID(), "older")
		createTestPost(t, repo, second.ID(), "newer")

		posts, err := repo.List(first.ID())
		if err != nil {
			t.Fatalf("failed to list posts: %v", err)
		}
		if len(posts) != 2 || posts[0].Content() != "newer" {
			t.Errorf("expected both posts newest first, got %v", posts)
		}
	})

	t.Run("ToggleLike", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewPostRepository(db)
		author := createTestUser(t, users, "poster@example.com")
		fan := createTestUser(t, users, "fan@example.com")
		post := createTestPost(t, repo, author.ID(), "like me")

		t.Run("first toggle likes", func(t *testing.T) {
			liked, count, err := repo.ToggleLike(post.ID(), fan.ID())
			if err != nil {
				t.Fatalf("failed to toggle like: %v", err)
			}
			if !liked || count != 1 {
				t.Errorf("expected liked with count 1, got %v/%d", liked, count)
			}
		})

		t.Run("viewer sees their own like", func(t *testing.T) {
			found, err := repo.Get(post.ID(), fan.ID())
			if err != nil {
				t.Fatalf("failed to get post: %v", err)
			}
			if !found.LikedByViewer() || found.LikeCount() != 1 {
				t.Errorf("expected liked view, got %v/%d", found.LikedByViewer(), found.LikeCount())
			}

			other, err := repo.Get(post.ID(), author.ID())
			if err != nil {
				t.Fatalf("failed to get post: %v", err)
			}
			if other.LikedByViewer() {
				t.Error("expected the author's view to show no like of their own")
			}
		})

		t.Run("second toggle unlikes", func(t *testing.T) {
			liked, count, err := repo.ToggleLike(post.ID(), fan.ID())
			if err != nil {
				t.Fatalf("failed to toggle like: %v", err)
			}
			if liked || count != 0 {
				t.Errorf("expected unliked with count 0, got %v/%d", liked, count)
			}
		})

		t.Run("missing post reports not found", func(t *testing.T) {
			if _, _, err := repo.ToggleLike("missing", fan.ID()); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		repo := NewPostRepository(db)
		author := createTestUser(t, users, "poster@example.com")
		post := createTestPost(t, repo, author.ID(), "mine")

		if err := repo.Delete(post.ID(), "someone-else"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for someone else's post, got %v", err)
		}

		if err := repo.Delete(post.ID(), author.ID()); err != nil {
			t.Fatalf("failed to delete post: %v", err)
		}
		if _, err := repo.Get(post.ID(), author.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}
