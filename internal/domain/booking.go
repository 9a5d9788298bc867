package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking records one booked trip for a user. TotalPrice is computed at
// booking time (destination price × guests) so later catalog edits never
// change what the user agreed to pay.
type Booking struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	DestinationID string    `json:"destination_id"`
	TravelDate    time.Time `json:"travel_date"`
	Guests        int       `json:"guests"`
	TotalPrice    int       `json:"total_price"`
	CreatedAt     time.Time `json:"created_at"`
}
