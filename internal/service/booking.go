package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tbellamy/wayfarer/backend/internal/catalog"
	"github.com/tbellamy/wayfarer/backend/internal/domain"
	"github.com/tbellamy/wayfarer/backend/internal/repo"
)

// travelDateLayout is the wire format for booking travel dates.
const travelDateLayout = "2006-01-02"

// BookingInput carries the fields of a booking request. TravelDate is the
// raw string from the booking form; it is parsed and validated here.
type BookingInput struct {
	DestinationID string
	TravelDate    string
	Guests        int
}

// BookingService implements business logic for bookings. It holds the static
// destination catalog because pricing is derived from it at booking time.
type BookingService struct {
	bookings     repo.BookingRepo
	destinations []domain.Destination
}

// NewBookingService constructs a BookingService backed by the provided repo
// and destination catalog.
func NewBookingService(bookings repo.BookingRepo, destinations []domain.Destination) *BookingService {
	return &BookingService{bookings: bookings, destinations: destinations}
}

// Create validates the input, prices the trip, and persists the booking.
// Returns domain.ErrNotFound for an unknown destination and
// domain.ErrValidation for a malformed date or a guest count below one.
func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, in BookingInput) (domain.Booking, error) {
	dest, err := catalog.ByID(s.destinations, in.DestinationID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	date, err := time.Parse(travelDateLayout, in.TravelDate)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: travel_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	if in.Guests < 1 {
		return domain.Booking{}, fmt.Errorf("%w: guests must be at least 1", domain.ErrValidation)
	}

	booking := domain.Booking{
		UserID:        userID,
		DestinationID: dest.ID,
		TravelDate:    date,
		Guests:        in.Guests,
		TotalPrice:    dest.Price * in.Guests,
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	return created, nil
}

// ListByUser returns one page of the user's bookings plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) ListByUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	bookings, total, err := s.bookings.ListByUserPaged(ctx, userID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.ListByUser: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, total, nil
}
