package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
	"github.com/tbellamy/wayfarer/backend/internal/handler"
	"github.com/tbellamy/wayfarer/backend/internal/middleware"
	"github.com/tbellamy/wayfarer/backend/internal/service"
)

// Shared fixtures and wiring helpers for the handler tests. Each resource's
// tests live in their own file but build the same router the way main.go does.

// mockAuthServicer is a test double for handler.AuthServicer.
// Set only the method fields your test needs.
type mockAuthServicer struct {
	register func(ctx context.Context, in service.RegisterInput) (domain.User, error)
	login    func(ctx context.Context, email, password string) (domain.User, string, error)
	logout   func(ctx context.Context, token string) error
}

func (m *mockAuthServicer) Register(ctx context.Context, in service.RegisterInput) (domain.User, error) {
	return m.register(ctx, in)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) Logout(ctx context.Context, token string) error {
	return m.logout(ctx, token)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

// mockBookingServicer is a test double for handler.BookingServicer.
type mockBookingServicer struct {
	create     func(ctx context.Context, userID uuid.UUID, in service.BookingInput) (domain.Booking, error)
	listByUser func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

func (m *mockBookingServicer) Create(ctx context.Context, userID uuid.UUID, in service.BookingInput) (domain.Booking, error) {
	return m.create(ctx, userID, in)
}
func (m *mockBookingServicer) ListByUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.listByUser(ctx, userID, p)
}

var _ handler.BookingServicer = (*mockBookingServicer)(nil)

// stubResolver resolves every token to the fixed user, or rejects everything
// when user is nil. Used as the auth middleware backend in handler tests.
type stubResolver struct {
	user *domain.User
}

func (s *stubResolver) UserFromToken(_ context.Context, _ string) (domain.User, error) {
	if s.user == nil {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return *s.user, nil
}

// testDeps collects the injectable dependencies of the router, with zero
// values that reject or panic loudly when an endpoint a test did not stub
// gets hit.
type testDeps struct {
	auth     handler.AuthServicer
	bookings handler.BookingServicer
	planners handler.PlannerManager
	user     *domain.User
}

// newHTTPHandler wires a full router around the given deps, mirroring the
// production wiring in main.go.
func newHTTPHandler(deps testDeps) http.Handler {
	srv := handler.NewServer(catalogFixture(), deps.auth, deps.bookings, deps.planners, []byte("openapi: 3.0.3\n"))
	return srv.Routes(middleware.NewAuthHandler(&stubResolver{user: deps.user}))
}

func catalogFixture() []domain.Destination {
	return []domain.Destination{
		{ID: "1", Name: "Bali Retreat", Location: "Bali, Indonesia", Category: domain.CategoryBeach, Price: 800, Rating: 4.8},
		{ID: "2", Name: "Swiss Alps Escape", Location: "Zermatt, Switzerland", Category: domain.CategoryMountain, Price: 3000, Rating: 4.9},
		{ID: "3", Name: "Lisbon Weekender", Location: "Lisbon, Portugal", Category: domain.CategoryCity, Price: 650, Rating: 4.4},
	}
}

func userFixture() domain.User {
	return domain.User{
		ID:       uuid.New(),
		Name:     "Ada Lovelace",
		Username: "ada",
		Email:    "ada@example.com",
		Wishlist: []string{"2"},
		Visited:  []string{"3"},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// decodeError unmarshals the standard error envelope.
func decodeError(t *testing.T, body *bytes.Buffer) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}
