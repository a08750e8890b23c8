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

// BlogHandler serves the article CRUD endpoints. Reads are public; writes
// require an authenticated author.
type BlogHandler struct {
	articles *repositories.ArticleRepository
	logger   *log.Logger
}

// NewBlogHandler creates a blog handler backed by the article repository.
func NewBlogHandler(articles *repositories.ArticleRepository, logger *log.Logger) *BlogHandler {
	return &BlogHandler{articles: articles, logger: logger}
}

// Register adds the blog routes to the router.
func (h *BlogHandler) Register(router Router) {
	router.Handle(http.MethodGet, "/api/blog", http.HandlerFunc(h.List))
	router.Handle(http.MethodGet, "/api/blog/mine", http.HandlerFunc(h.Mine))
	router.Handle(http.MethodGet, "/api/blog/{id}", http.HandlerFunc(h.Get))
	router.Handle(http.MethodPost, "/api/blog", http.HandlerFunc(h.Create))
	router.Handle(http.MethodPut, "/api/blog/{id}", http.HandlerFunc(h.Update))
	router.Handle(http.MethodDelete, "/api/blog/{id}", http.HandlerFunc(h.Delete))
}

type authorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type articleResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	Content   string         `json:"content"`
	Category  string         `json:"category"`
	Tags      []string       `json:"tags"`
	Author    authorResponse `json:"author"`
	ViewCount int            `json:"view_count"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toArticleResponse(article *models.Article) articleResponse {
	tags := article.Tags()
	if tags == nil {
		tags = []string{}
	}
	return articleResponse{
		ID:        article.ID(),
		Title:     article.Title(),
		Summary:   article.Summary(),
		Content:   article.Content(),
		Category:  article.Category(),
		Tags:      tags,
		Author:    authorResponse{ID: article.AuthorID(), Name: article.AuthorName()},
		ViewCount: article.ViewCount(),
		CreatedAt: article.CreatedAt(),
		UpdatedAt: article.UpdatedAt(),
	}
}

func toArticleResponses(articles []*models.Article) []articleResponse {
	responses := make([]articleResponse, 0, len(articles))
	for _, article := range articles {
		responses = append(responses, toArticleResponse(article))
	}
	return responses
}

type articleBody struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// List returns all articles, newest first.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.List()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toArticleResponses(articles))
}

// Mine returns the authenticated author's own articles.
func (h *BlogHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	articles, err := h.articles.ListByAuthor(claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toArticleResponses(articles))
}

// Get returns a single article and counts the view.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	article, err := h.articles.Get(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	views, err := h.articles.IncrementViews(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	article.SetViewCount(views)

	writeJSON(w, http.StatusOK, toArticleResponse(article))
}

// Create publishes a new article by the authenticated author.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	var body articleBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	article := models.NewArticle(0, claims.UserID, body.Title, body.Summary, body.Content, body.Category)
	article.SetTags(body.Tags)
	if err := article.Validate(); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	if err := h.articles.Create(article); err != nil {
		writeError(w, h.logger, err)
		return
	}

	article.SetAuthorName(claims.Name)
	h.logger.Info("article created", "article", article.ID(), "author", claims.UserID)
	writeJSON(w, http.StatusCreated, toArticleResponse(article))
}

// Update edits the authenticated author's own article. Editing someone
// else's article reports not found.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	var body articleBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	article, err := h.articles.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if body.Title != "" {
		article.SetTitle(body.Title)
	}
	if body.Summary != "" {
		article.SetSummary(body.Summary)
	}
	if body.Content != "" {
		article.SetContent(body.Content)
	}
	if body.Category != "" {
		article.SetCategory(body.Category)
	}
	if body.Tags != nil {
		article.SetTags(body.Tags)
	}
	if err := article.Validate(); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	// Same response for a missing article and someone else's article.
	if claims.UserID != article.AuthorID() {
		writeError(w, h.logger, fmt.Errorf("%w: article %s", shared.ErrNotFound, article.ID()))
		return
	}

	if err := h.articles.Update(article); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toArticleResponse(article))
}

// Delete removes the authenticated author's own article.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	if err := h.articles.Delete(r.PathValue("id"), claims.UserID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "article deleted"})
}
