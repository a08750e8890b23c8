package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/repositories"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// FeedHandler serves the social post feed. All routes require a session.
type FeedHandler struct {
	posts  *repositories.PostRepository
	logger *log.Logger
}

// NewFeedHandler creates a feed handler backed by the post repository.
func NewFeedHandler(posts *repositories.PostRepository, logger *log.Logger) *FeedHandler {
	return &FeedHandler{posts: posts, logger: logger}
}

// Register adds the feed routes to the router.
func (h *FeedHandler) Register(router Router) {
	router.Handle(http.MethodGet, "/api/posts", http.HandlerFunc(h.List))
	router.Handle(http.MethodPost, "/api/posts", http.HandlerFunc(h.Create))
	router.Handle(http.MethodDelete, "/api/posts/{id}", http.HandlerFunc(h.Delete))
	router.Handle(http.MethodPost, "/api/posts/{id}/like", http.HandlerFunc(h.Like))
}

type postResponse struct {
	ID          string         `json:"id"`
	Content     string         `json:"content"`
	CurrentSong string         `json:"current_song,omitempty"`
	Author      authorResponse `json:"author"`
	LikeCount   int            `json:"like_count"`
	IsLiked     bool           `json:"is_liked"`
	CreatedAt   time.Time      `json:"created_at"`
}

func toPostResponse(post *models.Post) postResponse {
	return postResponse{
		ID:          post.ID(),
		Content:     post.Content(),
		CurrentSong: post.CurrentSong(),
		Author:      authorResponse{ID: post.AuthorID(), Name: post.AuthorName()},
		LikeCount:   post.LikeCount(),
		IsLiked:     post.LikedByViewer(),
		CreatedAt:   post.CreatedAt(),
	}
}

// List returns every user's posts, newest first.
func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	posts, err := h.posts.List(claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	responses := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, toPostResponse(post))
	}
	writeJSON(w, http.StatusOK, responses)
}

// Create shares a new post from the authenticated user.
func (h *FeedHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	var body struct {
		Content     string `json:"content"`
		CurrentSong string `json:"current_song"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	post := models.NewPost(0, claims.UserID, body.Content, body.CurrentSong)
	if err := post.Validate(); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	if err := h.posts.Create(post); err != nil {
		writeError(w, h.logger, err)
		return
	}

	post.SetAuthorName(claims.Name)
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// Delete removes the authenticated user's own post. Deleting someone else's
// post reports not found.
func (h *FeedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	if err := h.posts.Delete(r.PathValue("id"), claims.UserID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// Like toggles the authenticated user's like on a post.
func (h *FeedHandler) Like(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	liked, count, err := h.posts.ToggleLike(r.PathValue("id"), claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"is_liked": liked, "like_count": count})
}
