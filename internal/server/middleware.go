package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const claimsKey contextKey = "claims"

// UserClaims carries the authenticated user's identity through the request context.
type UserClaims struct {
	UserID string
	Name   string
	Email  string
}

// UserFromContext returns the authenticated user's claims, if any.
func UserFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(UserClaims)
	return claims, ok
}

// statusWriter records the response status for request logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs method, path, status, and duration for every request.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start),
			)
		})
	}
}

// Authenticate validates the Authorization bearer token and injects the user's
// claims into the request context. Paths with a prefix in publicPrefixes pass
// through without a token, but a valid token still identifies the caller there
// so handlers with mixed public and authenticated routes can tell who is asking.
func Authenticate(secret string, publicPrefixes []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseBearer(r, secret)

			for _, prefix := range publicPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					if err == nil {
						r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
					}
					next.ServeHTTP(w, r)
					return
				}
			}

			if err != nil {
				writeReason(w, http.StatusUnauthorized, "unauthorized", "invalid or missing token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IssueToken signs a session token for the user.
func IssueToken(secret, userID, name, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"name":  name,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func parseBearer(r *http.Request, secret string) (UserClaims, error) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return UserClaims{}, fmt.Errorf("no bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return UserClaims{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return UserClaims{}, fmt.Errorf("unexpected claims type")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return UserClaims{}, fmt.Errorf("missing subject claim")
	}

	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return UserClaims{UserID: sub, Name: name, Email: email}, nil
}
