package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fkhayef/paylock/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "user_id"
)

// TokenParser resolves a bearer token to an account id
type TokenParser interface {
	Parse(token string) (int64, error)
}

// AccountChecker reports whether an account id still exists
type AccountChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Auth validates the bearer token, checks the account still exists and
// stores its id in the request context.
func Auth(tokens TokenParser, accounts AccountChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			userID, err := tokens.Parse(parts[1])
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ok, err := accounts.Exists(r.Context(), userID)
			if err != nil {
				response.InternalError(w, "Failed to verify account")
				return
			}
			if !ok {
				response.Unauthorized(w, "Account not found")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// WithUserID returns a copy of ctx carrying the authenticated user ID
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
