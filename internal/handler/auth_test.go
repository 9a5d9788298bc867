package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
	"github.com/tbellamy/wayfarer/backend/internal/service"
)

// ---- POST /auth/register ---------------------------------------------------

func TestRegister_201(t *testing.T) {
	fixture := userFixture()
	auth := &mockAuthServicer{
		register: func(_ context.Context, in service.RegisterInput) (domain.User, error) {
			assert.Equal(t, "ada@example.com", in.Email)
			return fixture, nil
		},
	}
	h := newHTTPHandler(testDeps{auth: auth})

	body := jsonBody(t, map[string]any{
		"name":     "Ada Lovelace",
		"username": "ada",
		"email":    "ada@example.com",
		"password": "correct horse",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, "ada", resp.Username)
}

func TestRegister_422_ValidationError(t *testing.T) {
	auth := &mockAuthServicer{
		register: func(_ context.Context, _ service.RegisterInput) (domain.User, error) {
			return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
		},
	}
	h := newHTTPHandler(testDeps{auth: auth})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", jsonBody(t, map[string]any{"name": "x"}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec.Body)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "password must be at least 8 characters", resp.Error.Message)
}

func TestRegister_409_Conflict(t *testing.T) {
	auth := &mockAuthServicer{
		register: func(_ context.Context, _ service.RegisterInput) (domain.User, error) {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", domain.ErrConflict)
		},
	}
	h := newHTTPHandler(testDeps{auth: auth})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", jsonBody(t, map[string]any{"name": "x"}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeError(t, rec.Body).Error.Code)
}

func TestRegister_422_MalformedBody(t *testing.T) {
	h := newHTTPHandler(testDeps{auth: &mockAuthServicer{}})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", jsonBody(t, "not an object"))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- POST /auth/login ------------------------------------------------------

func TestLogin_200(t *testing.T) {
	fixture := userFixture()
	auth := &mockAuthServicer{
		login: func(_ context.Context, email, password string) (domain.User, string, error) {
			assert.Equal(t, "ada@example.com", email)
			assert.Equal(t, "correct horse", password)
			return fixture, "session-token", nil
		},
	}
	h := newHTTPHandler(testDeps{auth: auth})

	body := jsonBody(t, map[string]any{"email": "ada@example.com", "password": "correct horse"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "session-token", resp.Token)
	assert.Equal(t, fixture.ID, resp.User.ID)
}

func TestLogin_401_BadCredentials(t *testing.T) {
	auth := &mockAuthServicer{
		login: func(_ context.Context, _, _ string) (domain.User, string, error) {
			return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthenticated)
		},
	}
	h := newHTTPHandler(testDeps{auth: auth})

	body := jsonBody(t, map[string]any{"email": "ada@example.com", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", decodeError(t, rec.Body).Error.Code)
}

// ---- POST /auth/logout -----------------------------------------------------

func TestLogout_204(t *testing.T) {
	var deleted string
	auth := &mockAuthServicer{
		logout: func(_ context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	h := newHTTPHandler(testDeps{auth: auth})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer session-token")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "session-token", deleted)
}

func TestLogout_204_NoToken(t *testing.T) {
	// No logout field set on the mock: reaching the service would panic.
	h := newHTTPHandler(testDeps{auth: &mockAuthServicer{}})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
