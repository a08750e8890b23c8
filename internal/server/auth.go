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

// AuthHandler serves account signup, login, and profile endpoints.
type AuthHandler struct {
	users  *repositories.UserRepository
	secret string
	ttl    time.Duration
	logger *log.Logger
}

// NewAuthHandler creates an auth handler backed by the given user repository.
func NewAuthHandler(users *repositories.UserRepository, secret string, ttl time.Duration, logger *log.Logger) *AuthHandler {
	return &AuthHandler{users: users, secret: secret, ttl: ttl, logger: logger}
}

// Register adds the auth routes to the router.
func (h *AuthHandler) Register(router Router) {
	router.Handle(http.MethodPost, "/api/auth/signup", http.HandlerFunc(h.Signup))
	router.Handle(http.MethodPost, "/api/auth/login", http.HandlerFunc(h.Login))
	router.Handle(http.MethodGet, "/api/auth/profile", http.HandlerFunc(h.Profile))
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Connected bool   `json:"spotify_connected"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID(),
		Name:      user.Name(),
		Email:     user.Email(),
		Connected: user.Credential().Connected(),
	}
}

// Signup creates a new account and returns a session token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if body.Name == "" || body.Email == "" || body.Password == "" {
		writeError(w, h.logger, fmt.Errorf("%w: name, email and password are required", shared.ErrInvalidInput))
		return
	}

	if _, err := h.users.GetByEmail(body.Email); err == nil {
		writeError(w, h.logger, fmt.Errorf("%w: email already registered", shared.ErrInvalidInput))
		return
	}

	user := models.NewUser(0, body.Email, body.Name)
	if err := user.SetPassword(body.Password); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	if err := h.users.Create(user); err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := IssueToken(h.secret, user.ID(), user.Name(), user.Email(), h.ttl)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("user created", "user", user.ID())
	writeJSON(w, http.StatusCreated, map[string]any{"user": toUserResponse(user), "token": token})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if body.Email == "" || body.Password == "" {
		writeError(w, h.logger, fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput))
		return
	}

	user, err := h.users.GetByEmail(body.Email)
	if err != nil || !user.ComparePassword(body.Password) {
		// Same response for unknown email and wrong password.
		writeError(w, h.logger, shared.ErrAuthFailed)
		return
	}

	token, err := IssueToken(h.secret, user.ID(), user.Name(), user.Email(), h.ttl)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user), "token": token})
}

// Profile returns the authenticated user's account.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, shared.ErrNotAuthenticated)
		return
	}

	user, err := h.users.Get(claims.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
