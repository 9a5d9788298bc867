package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account owned by the auth/store backend. The planner core holds
// a read-only cached copy that is replaced wholesale whenever the session
// listener fires — it is never mutated in place.
//
// Wishlist and Visited hold destination IDs; membership is what matters,
// order is irrelevant.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Wishlist     []string  `json:"wishlist"`
	Visited      []string  `json:"visited"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasWishlisted reports whether destinationID is in the user's wishlist.
func (u *User) HasWishlisted(destinationID string) bool {
	return contains(u.Wishlist, destinationID)
}

// HasVisited reports whether destinationID is in the user's visited set.
func (u *User) HasVisited(destinationID string) bool {
	return contains(u.Visited, destinationID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
