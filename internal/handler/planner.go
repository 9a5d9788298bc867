package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tbellamy/wayfarer/backend/internal/app"
	"github.com/tbellamy/wayfarer/backend/internal/service"
)

// The /planner endpoints mount the planner-session core over HTTP: one core
// instance per planner token, holding the view state, cached user, search
// context, and toast of a single client. Every mutating endpoint responds
// with the fresh state snapshot so clients never need a follow-up GET.

// plannerResponse wraps a state snapshot with the session token.
type plannerResponse struct {
	Token string    `json:"token"`
	State app.State `json:"state"`
}

// CreatePlanner handles POST /planner, starting a new planner session.
func (s *Server) CreatePlanner(w http.ResponseWriter, r *http.Request) {
	session, err := s.planners.Create()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, plannerResponse{
		Token: session.Token.String(),
		State: session.App.State(),
	})
}

// GetPlannerState handles GET /planner/{token}.
func (s *Server) GetPlannerState(w http.ResponseWriter, r *http.Request) {
	session, ok := s.plannerFromRequest(w, r)
	if !ok {
		return
	}
	s.respondState(w, session)
}

// DeletePlanner handles DELETE /planner/{token}, tearing the session down
// and releasing its subscription.
func (s *Server) DeletePlanner(w http.ResponseWriter, r *http.Request) {
	token, ok := plannerToken(w, r)
	if !ok {
		return
	}
	if err := s.planners.Delete(token); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlannerNavigate handles POST /planner/{token}/navigate.
// The response reflects the view actually entered, which may differ from the
// requested one when an entry guard redirects.
func (s *Server) PlannerNavigate(w http.ResponseWriter, r *http.Request) {
	session, ok := s.plannerFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		View string `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}
	view, err := app.ParseView(req.View)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	session.App.Navigate(view)
	s.respondState(w, session)
}

// PlannerSearch handles POST /planner/{token}/search. Absent fields leave
// the corresponding part of the search context untouched; reset restores
// the initial context before the other fields are applied.
func (s *Server) PlannerSearch(w http.ResponseWriter, r *http.Request) {
	session, ok := s.plannerFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Term       *string `json:"term"`
		Category   *string `json:"category"`
		TravelDate *string `json:"travel_date"`
		Guests     *string `json:"guests"`
		Reset      bool    `json:"reset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}

	if req.Reset {
		session.App.ResetSearch()
	}
	if req.Category != nil {
		if err := session.App.SetCategory(*req.Category); err != nil {
			respondDomainError(w, err)
			return
		}
	}
	if req.Term != nil {
		session.App.SetTerm(*req.Term)
	}
	if req.TravelDate != nil {
		session.App.SetTravelDate(*req.TravelDate)
	}
	if req.Guests != nil {
		session.App.SetGuests(*req.Guests)
	}

	s.respondState(w, session)
}

// PlannerSelect handles POST /planner/{token}/select, entering the details
// view for a destination.
func (s *Server) PlannerSelect(w http.ResponseWriter, r *http.Request) {
	session, ok := s.plannerFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		DestinationID string `json:"destination_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}

	if err := session.App.SelectDestination(req.DestinationID); err != nil {
		respondDomainError(w, err)
		return
	}
	s.respondState(w, session)
}

// PlannerToggleWishlist handles POST /planner/{token}/wishlist. The outcome
// lands in the state snapshot: either an updated wishlist plus a
// confirmation toast, or an error toast with the cached user untouched.
// Without a signed-in user the planner routes to the login view.
func (s *Server) PlannerToggleWishlist(w http.ResponseWriter, r *http.Request) {
	s.plannerToggle(w, r, (*app.App).ToggleWishlist)
}

// PlannerToggleVisited handles POST /planner/{token}/visited.
func (s *Server) PlannerToggleVisited(w http.ResponseWriter, r *http.Request) {
	s.plannerToggle(w, r, (*app.App).ToggleVisited)
}

func (s *Server) plannerToggle(w http.ResponseWriter, r *http.Request, toggle func(*app.App, context.Context, string)) {
	session, ok := s.plannerFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		DestinationID string `json:"destination_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}

	toggle(session.App, r.Context(), req.DestinationID)
	s.respondState(w, session)
}

// PlannerLogin handles POST /planner/{token}/login. A successful login fires
// the session listener, which routes the planner to the dashboard.
func (s *Server) PlannerLogin(w http.ResponseWriter, r *http.Request) {
	session, ok := s.plannerFromRequest(w, r)
	if !ok {
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}

	if err := session.Login(r.Context(), req.Email, req.Password); err != nil {
		respondDomainError(w, err)
		return
	}
	s.respondState(w, session)
}

// PlannerRegister handles POST /planner/{token}/register: create the account
// and sign it in, in one step.
func (s *Server) PlannerRegister(w http.ResponseWriter, r *http.Request) {
	session, ok := s.plannerFromRequest(w, r)
	if !ok {
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}

	err := session.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	s.respondState(w, session)
}

// PlannerLogout handles POST /planner/{token}/logout. Failures surface as an
// error toast in the state snapshot, never as an HTTP error — the planner
// core converts backend errors at its boundary.
func (s *Server) PlannerLogout(w http.ResponseWriter, r *http.Request) {
	session, ok := s.plannerFromRequest(w, r)
	if !ok {
		return
	}
	session.App.Logout(r.Context())
	s.respondState(w, session)
}

// PlannerBook handles POST /planner/{token}/book. An empty destination_id
// books the currently selected destination. On success the planner routes
// to the dashboard with a confirmation toast.
func (s *Server) PlannerBook(w http.ResponseWriter, r *http.Request) {
	session, ok := s.plannerFromRequest(w, r)
	if !ok {
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", "malformed request body")
		return
	}

	state := session.App.State()
	if state.User == nil {
		session.App.Navigate(app.ViewLogin)
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to book a trip")
		return
	}
	if req.DestinationID == "" && state.Selected != nil {
		req.DestinationID = state.Selected.ID
	}

	_, err := s.bookings.Create(r.Context(), state.User.ID, service.BookingInput{
		DestinationID: req.DestinationID,
		TravelDate:    req.TravelDate,
		Guests:        req.Guests,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	session.App.CompleteBooking()
	s.respondState(w, session)
}

// PlannerCloseNotification handles POST /planner/{token}/notification/close.
func (s *Server) PlannerCloseNotification(w http.ResponseWriter, r *http.Request) {
	session, ok := s.plannerFromRequest(w, r)
	if !ok {
		return
	}
	session.App.CloseNotification()
	s.respondState(w, session)
}

// --- helpers ----------------------------------------------------------------

func (s *Server) respondState(w http.ResponseWriter, session *service.PlannerSession) {
	respondJSON(w, http.StatusOK, plannerResponse{
		Token: session.Token.String(),
		State: session.App.State(),
	})
}

// plannerToken parses the {token} route parameter. Malformed tokens are
// indistinguishable from unknown ones: both are 404.
func plannerToken(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "planner session not found")
		return uuid.Nil, false
	}
	return token, true
}

func (s *Server) plannerFromRequest(w http.ResponseWriter, r *http.Request) (*service.PlannerSession, bool) {
	token, ok := plannerToken(w, r)
	if !ok {
		return nil, false
	}
	session, err := s.planners.Get(token)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "planner session not found")
		return nil, false
	}
	return session, true
}
