package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tbellamy/wayfarer/backend/internal/catalog"
	"github.com/tbellamy/wayfarer/backend/internal/domain"
)

// App is one planner session: the view router, the cached session user, the
// search context, and the action handlers of the travel planner.
//
// All mutating methods are safe for concurrent use. Calls to the Store are
// made with the internal lock released, so the session stays responsive
// while a backend operation is in flight. A toggle for a destination that
// already has one in flight is ignored rather than queued.
//
// Backend errors never escape the action handlers — they are converted to
// error notifications, and cached state is left untouched (no optimistic
// updates, so there is nothing to roll back).
type App struct {
	store        Store
	destinations []domain.Destination

	mu       sync.Mutex
	view     View
	user     *domain.User
	selected *domain.Destination
	search   domain.SearchContext
	inflight map[string]bool
	unsub    func()

	notifier Notifier
}

// State is a point-in-time snapshot of a planner session, safe to hand to
// any renderer or serializer.
type State struct {
	View         View                 `json:"view"`
	User         *domain.User         `json:"user,omitempty"`
	Selected     *domain.Destination  `json:"selected,omitempty"`
	Search       domain.SearchContext `json:"search"`
	Notification domain.Notification  `json:"notification"`
	Results      []domain.Destination `json:"results"`
}

// New constructs an App over the given store and destination catalog.
// The initial view is home with an empty search context. Call Start before
// use and Stop when the session is torn down.
func New(store Store, destinations []domain.Destination) *App {
	return &App{
		store:        store,
		destinations: destinations,
		view:         ViewHome,
		search:       domain.NewSearchContext(),
		inflight:     make(map[string]bool),
	}
}

// Start acquires the session subscription. It must be called exactly once;
// a second call before Stop is an error.
func (a *App) Start() error {
	a.mu.Lock()
	if a.unsub != nil {
		a.mu.Unlock()
		return fmt.Errorf("app.Start: already started")
	}
	// Placeholder so a concurrent Start fails while we subscribe unlocked.
	a.unsub = func() {}
	a.mu.Unlock()

	unsub := a.store.SubscribeToSession(a.handleSessionChange)

	a.mu.Lock()
	a.unsub = unsub
	a.mu.Unlock()
	return nil
}

// Stop releases the session subscription. It is idempotent and must be
// called on every teardown path.
func (a *App) Stop() {
	a.mu.Lock()
	unsub := a.unsub
	a.unsub = nil
	a.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// handleSessionChange is the session listener. The cached user is replaced
// wholesale on every fire. A nil→user transition is an authentication
// success: route to dashboard and welcome the user. A user→nil transition
// outside an explicit Logout (backend-side sign-out, expired session) clears
// the cache and bounces the view off any screen that needs a user.
func (a *App) handleSessionChange(user *domain.User) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.user
	a.user = user

	switch {
	case user != nil && prev == nil:
		a.view = ViewDashboard
		a.notifier.Show("Welcome, "+user.Name+"!", domain.NotificationSuccess)
	case user == nil && prev != nil:
		if requiresUser[a.view] {
			a.view = ViewLogin
		}
	}
}

// Navigate moves to the requested view, applying entry guards, and returns
// the view actually entered. Entering details without a selected destination
// silently redirects to explore; entering dashboard without a user redirects
// to login. Leaving details clears the selection.
func (a *App) Navigate(to View) View {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.view = resolveView(to, a.user != nil, a.selected != nil)
	if a.view != ViewDetails {
		a.selected = nil
	}
	return a.view
}

// SelectDestination picks a destination by ID and enters the details view.
// Unknown IDs leave the session unchanged and return domain.ErrNotFound.
func (a *App) SelectDestination(id string) error {
	d, err := catalog.ByID(a.destinations, id)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = &d
	a.view = ViewDetails
	return nil
}

// Back leaves the details view for explore, clearing the selection.
// In any other view it is a no-op.
func (a *App) Back() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view == ViewDetails {
		a.selected = nil
		a.view = ViewExplore
	}
}

// SetTerm updates the free-text search term. Submitting a search from the
// home view also moves to explore so results are visible.
func (a *App) SetTerm(term string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.search.Term = term
	if a.view == ViewHome {
		a.view = ViewExplore
	}
}

// SetCategory updates the active category. Values outside the closed
// category set are rejected with domain.ErrValidation, preserving the
// invariant that the active category is always a known one.
func (a *App) SetCategory(raw string) error {
	c, err := domain.ParseCategory(raw)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.search.Category = c
	return nil
}

// SetTravelDate stores the booking-prefill travel date string.
func (a *App) SetTravelDate(date string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.search.TravelDate = date
}

// SetGuests stores the booking-prefill guest-count string.
func (a *App) SetGuests(guests string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.search.Guests = guests
}

// ResetSearch restores the initial search context. This is the only way the
// context is cleared — nothing resets it implicitly.
func (a *App) ResetSearch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.search = domain.NewSearchContext()
}

// Results returns the destinations matching the current search context.
// Re-evaluated on every call; the filter is cheap and pure.
func (a *App) Results() []domain.Destination {
	a.mu.Lock()
	term, cat := a.search.Term, a.search.Category
	a.mu.Unlock()
	return catalog.Filter(a.destinations, term, cat)
}

// ToggleWishlist flips the wishlist membership of destinationID for the
// signed-in user. With no user it routes to login and never contacts the
// store. A toggle already in flight for the same destination is ignored.
// On success a notification reports the direction: added → success,
// removed → info. On failure an error notification is shown and cached
// state is untouched.
func (a *App) ToggleWishlist(ctx context.Context, destinationID string) {
	a.toggle(ctx, destinationID, toggleSpec{
		current: (*domain.User).HasWishlisted,
		call:    a.store.ToggleWishlist,
		added:   "Added to wishlist",
		removed: "Removed from wishlist",
		failed:  "Could not update wishlist",
	})
}

// ToggleVisited flips the visited membership of destinationID. Contract as
// ToggleWishlist, except only newly-added places produce a notification.
func (a *App) ToggleVisited(ctx context.Context, destinationID string) {
	a.toggle(ctx, destinationID, toggleSpec{
		current: (*domain.User).HasVisited,
		call:    a.store.ToggleVisited,
		added:   "Marked as visited",
		failed:  "Could not update visited places",
	})
}

// toggleSpec parameterizes the shared wishlist/visited toggle flow.
// An empty added/removed message means no notification for that direction.
type toggleSpec struct {
	current func(*domain.User, string) bool
	call    func(ctx context.Context, userID uuid.UUID, destinationID string, currently bool) error
	added   string
	removed string
	failed  string
}

func (a *App) toggle(ctx context.Context, destinationID string, spec toggleSpec) {
	a.mu.Lock()
	if a.user == nil {
		a.view = ViewLogin
		a.mu.Unlock()
		return
	}
	if a.inflight[destinationID] {
		a.mu.Unlock()
		return
	}
	a.inflight[destinationID] = true
	userID := a.user.ID
	currently := spec.current(a.user, destinationID)
	a.mu.Unlock()

	err := spec.call(ctx, userID, destinationID, currently)

	a.mu.Lock()
	delete(a.inflight, destinationID)
	a.mu.Unlock()

	switch {
	case err != nil:
		a.notifier.Show(spec.failed, domain.NotificationError)
	case currently && spec.removed != "":
		a.notifier.Show(spec.removed, domain.NotificationInfo)
	case !currently && spec.added != "":
		a.notifier.Show(spec.added, domain.NotificationSuccess)
	}
}

// Logout ends the backend session. On success the cached user is cleared,
// the view routes to login, and an info notification confirms the sign-out.
// A backend failure surfaces as an error notification and leaves the cached
// user unchanged.
func (a *App) Logout(ctx context.Context) {
	if err := a.store.Logout(ctx); err != nil {
		a.notifier.Show("Sign out failed", domain.NotificationError)
		return
	}

	a.mu.Lock()
	a.user = nil
	a.view = ViewLogin
	a.mu.Unlock()
	a.notifier.Show("Signed out", domain.NotificationInfo)
}

// CompleteBooking is the booking-success callback: route to dashboard (or
// login when the session expired mid-booking) and clear the booking prefill
// inputs. The term and category survive — only explicit resets clear those.
func (a *App) CompleteBooking() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.search.TravelDate = ""
	a.search.Guests = ""
	a.selected = nil
	if a.user == nil {
		a.view = ViewLogin
		return
	}
	a.view = ViewDashboard
	a.notifier.Show("Trip booked!", domain.NotificationSuccess)
}

// CloseNotification dismisses the current toast.
func (a *App) CloseNotification() {
	a.notifier.Close()
}

// State returns a consistent snapshot of the session, including the current
// filter results.
func (a *App) State() State {
	a.mu.Lock()
	s := State{
		View:   a.view,
		Search: a.search,
	}
	if a.user != nil {
		u := *a.user
		s.User = &u
	}
	if a.selected != nil {
		d := *a.selected
		s.Selected = &d
	}
	term, cat := a.search.Term, a.search.Category
	a.mu.Unlock()

	s.Notification = a.notifier.Current()
	s.Results = catalog.Filter(a.destinations, term, cat)
	return s
}
