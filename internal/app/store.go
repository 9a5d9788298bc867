package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
)

// Store is the planner core's only outward boundary: the auth/document-store
// backend, reduced to the four operations the core actually needs. The
// production implementation lives in the service package; tests use an
// in-memory fake.
type Store interface {
	// SubscribeToSession registers onChange to be invoked whenever session
	// state changes, including the initial resolution. onChange receives the
	// full user record (replaced wholesale, never patched) or nil when no
	// user is signed in. The returned function releases the subscription;
	// after it returns, onChange is never invoked again.
	SubscribeToSession(onChange func(user *domain.User)) (unsubscribe func())

	// ToggleVisited flips membership of destinationID in the user's visited
	// set. currentlyVisited is the membership as the caller last saw it,
	// which makes the operation idempotent under retries.
	ToggleVisited(ctx context.Context, userID uuid.UUID, destinationID string, currentlyVisited bool) error

	// ToggleWishlist is the wishlist counterpart of ToggleVisited.
	ToggleWishlist(ctx context.Context, userID uuid.UUID, destinationID string, currentlyWishlisted bool) error

	// Logout ends the backend session. The session listener fires with nil
	// on success.
	Logout(ctx context.Context) error
}
