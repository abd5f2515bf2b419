// Package middleware provides HTTP middlewares for authentication and
// request logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenValidator verifies a bearer token and returns the user ID it names.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// BearerAuth enforces `Authorization: Bearer <token>` on every request it
// wraps. On success the authenticated user ID is stored in the request
// context for downstream handlers.
func BearerAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			userID, err := validator.Validate(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized writes the 401 body clients recognize as credential loss.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
}

// GetUserIDFromContext extracts the authenticated user ID from the request
// context. Returns an empty string if not set.
func GetUserIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(userKey).(string); ok {
		return s
	}
	return ""
}
