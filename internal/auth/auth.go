// Package auth guards the cache-admin endpoints with JWT bearer tokens.
// The read endpoints are open; only destructive operations require a token.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Middleware struct {
	secret []byte
}

// New creates the auth middleware. The secret must be non-empty; callers
// disable protected routes entirely rather than passing an empty secret.
func New(secret string) *Middleware {
	return &Middleware{secret: []byte(secret)}
}

// RequireToken rejects requests without a valid HS256 bearer token.
func (m *Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			unauthorized(w)
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateToken issues a short-lived admin token. Used by operational tooling.
func (m *Middleware) GenerateToken(subject string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": "Authentication required"}`))
}
