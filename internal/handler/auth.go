package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
	"github.com/tbellamy/wayfarer/backend/internal/service"
)

// registerRequest is the body of POST /auth/register.
type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the body of POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the session token and the signed-in user.
type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}

	user, err := s.auth.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout handles POST /auth/logout. The token to end is the bearer token of
// the request itself. Logging out with no token is a no-op 204 — the client
// holds no session either way.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if token != "" {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			respondDomainError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
