package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tbellamy/wayfarer/backend/internal/catalog"
	"github.com/tbellamy/wayfarer/backend/internal/domain"
)

// ListDestinations handles GET /destinations.
// Optional query parameters: ?q= free-text term (case-insensitive substring
// of name or location) and ?category= (one of the closed category set,
// including "All" and "Budget Friendly"). With no parameters the full
// catalog is returned.
func (s *Server) ListDestinations(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	category := domain.CategoryAll
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		category = c
	}

	results := catalog.Filter(s.destinations, term, category)
	respondJSON(w, http.StatusOK, map[string]any{
		"data":  results,
		"total": len(results),
	})
}

// GetDestination handles GET /destinations/{id}.
// The response includes the itinerary, when the destination has one.
func (s *Server) GetDestination(w http.ResponseWriter, r *http.Request) {
	d, err := catalog.ByID(s.destinations, chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// ListCategories handles GET /categories, returning the closed category set
// in display order, synthetic values included.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"data": domain.Categories()})
}
