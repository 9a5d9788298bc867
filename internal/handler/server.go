// Package handler implements the HTTP handlers for the Wayfarer API.
// All handlers are methods on Server. Methods are split into resource-specific
// files (destination.go, auth.go, etc.) but all share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
	"github.com/tbellamy/wayfarer/backend/internal/service"
)

// AuthServicer defines the account operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type AuthServicer interface {
	Register(ctx context.Context, in service.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	Logout(ctx context.Context, token string) error
}

// BookingServicer defines the booking operations the handlers depend on.
type BookingServicer interface {
	Create(ctx context.Context, userID uuid.UUID, in service.BookingInput) (domain.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

// PlannerManager defines the planner-session lifecycle the handlers depend on.
type PlannerManager interface {
	Create() (*service.PlannerSession, error)
	Get(token uuid.UUID) (*service.PlannerSession, error)
	Delete(token uuid.UUID) error
}

// Server holds the dependencies shared by all API endpoints.
type Server struct {
	destinations []domain.Destination
	auth         AuthServicer
	bookings     BookingServicer
	planners     PlannerManager
	openapi      []byte
}

// NewServer constructs the Server with all its dependencies.
func NewServer(destinations []domain.Destination, auth AuthServicer, bookings BookingServicer, planners PlannerManager, openapi []byte) *Server {
	return &Server{
		destinations: destinations,
		auth:         auth,
		bookings:     bookings,
		planners:     planners,
		openapi:      openapi,
	}
}

// Routes assembles the full route table. requireAuth is the bearer-token
// middleware protecting the routes that need an authenticated user.
func (s *Server) Routes(requireAuth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/destinations", s.ListDestinations)
	r.Get("/destinations/{id}", s.GetDestination)
	r.Get("/categories", s.ListCategories)

	r.Post("/auth/register", s.Register)
	r.Post("/auth/login", s.Login)
	r.Post("/auth/logout", s.Logout)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me", s.GetMe)
		r.Get("/me/bookings", s.ListMyBookings)
		r.Post("/bookings", s.CreateBooking)
	})

	r.Route("/planner", func(r chi.Router) {
		r.Post("/", s.CreatePlanner)
		r.Route("/{token}", func(r chi.Router) {
			r.Get("/", s.GetPlannerState)
			r.Delete("/", s.DeletePlanner)
			r.Post("/navigate", s.PlannerNavigate)
			r.Post("/search", s.PlannerSearch)
			r.Post("/select", s.PlannerSelect)
			r.Post("/wishlist", s.PlannerToggleWishlist)
			r.Post("/visited", s.PlannerToggleVisited)
			r.Post("/login", s.PlannerLogin)
			r.Post("/register", s.PlannerRegister)
			r.Post("/logout", s.PlannerLogout)
			r.Post("/book", s.PlannerBook)
			r.Post("/notification/close", s.PlannerCloseNotification)
		})
	})

	return r
}
