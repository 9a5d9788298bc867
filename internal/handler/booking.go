package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tbellamy/wayfarer/backend/internal/middleware"
	"github.com/tbellamy/wayfarer/backend/internal/service"
)

// bookingRequest is the body of POST /bookings.
type bookingRequest struct {
	DestinationID string `json:"destination_id"`
	TravelDate    string `json:"travel_date"`
	Guests        int    `json:"guests"`
}

// CreateBooking handles POST /bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "no session")
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}

	booking, err := s.bookings.Create(r.Context(), user.ID, service.BookingInput{
		DestinationID: req.DestinationID,
		TravelDate:    req.TravelDate,
		Guests:        req.Guests,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, booking)
}
