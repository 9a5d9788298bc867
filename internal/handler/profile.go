package handler

import (
	"net/http"
	"strconv"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
	"github.com/tbellamy/wayfarer/backend/internal/middleware"
)

// GetMe handles GET /me, returning the authenticated user with both
// membership sets.
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "no session")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ListMyBookings handles GET /me/bookings.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "no session")
		return
	}

	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	bookings, total, err := s.bookings.ListByUser(r.Context(), user.ID, params)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data": bookings,
		"pagination": map[string]any{
			"page":  params.Page,
			"limit": params.Limit,
			"total": total,
		},
	})
}

// queryInt parses an optional integer query parameter. Missing or malformed
// values yield nil, letting NewPaginationParams apply its defaults.
func queryInt(r *http.Request, key string) *int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
