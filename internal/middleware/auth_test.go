package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
	"github.com/tbellamy/wayfarer/backend/internal/middleware"
)

// resolverFunc adapts a function to middleware.UserResolver.
type resolverFunc func(ctx context.Context, token string) (domain.User, error)

func (f resolverFunc) UserFromToken(ctx context.Context, token string) (domain.User, error) {
	return f(ctx, token)
}

// echoUserHandler writes 200 and records the user the middleware put in the
// request context.
func echoUserHandler(got *domain.User, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = middleware.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthHandler_ValidToken(t *testing.T) {
	user := domain.User{ID: uuid.New(), Name: "Ada"}
	resolver := resolverFunc(func(_ context.Context, token string) (domain.User, error) {
		assert.Equal(t, "session-token", token)
		return user, nil
	})

	var got domain.User
	var ok bool
	h := middleware.NewAuthHandler(resolver)(echoUserHandler(&got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer session-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok, "user should be in the request context")
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthHandler_LowercaseScheme(t *testing.T) {
	resolver := resolverFunc(func(_ context.Context, _ string) (domain.User, error) {
		return domain.User{ID: uuid.New()}, nil
	})

	var got domain.User
	var ok bool
	h := middleware.NewAuthHandler(resolver)(echoUserHandler(&got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer session-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// Scheme matching is case-insensitive per RFC 9110.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
}

func TestAuthHandler_MissingHeader(t *testing.T) {
	resolver := resolverFunc(func(_ context.Context, _ string) (domain.User, error) {
		t.Fatal("resolver should not be called without a token")
		return domain.User{}, nil
	})

	var got domain.User
	var ok bool
	h := middleware.NewAuthHandler(resolver)(echoUserHandler(&got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestAuthHandler_InvalidToken(t *testing.T) {
	resolver := resolverFunc(func(_ context.Context, _ string) (domain.User, error) {
		return domain.User{}, domain.ErrUnauthenticated
	})

	var got domain.User
	var ok bool
	h := middleware.NewAuthHandler(resolver)(echoUserHandler(&got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserFromContext_Absent(t *testing.T) {
	_, ok := middleware.UserFromContext(context.Background())

	assert.False(t, ok)
}
