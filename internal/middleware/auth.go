package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
)

// userContextKey is the context key under which the authenticated user is
// stored. Unexported struct type so no other package can collide with it.
type userContextKey struct{}

// UserResolver resolves a bearer token to a user. Implemented by
// service.AuthService; defined here (in the consumer package) so the
// middleware can be tested with a stub.
type UserResolver interface {
	UserFromToken(ctx context.Context, token string) (domain.User, error)
}

// NewAuthHandler returns a middleware that resolves the Authorization bearer
// token and stores the resulting user in the request context. Requests
// without a valid token are rejected with 401 — mount this only on routes
// that require authentication.
func NewAuthHandler(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			user, err := resolver.UserFromToken(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed in ctx by
// NewAuthHandler. The boolean is false when the request did not pass through
// the auth middleware.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(domain.User)
	return user, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive per RFC 9110.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
