package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tbellamy/wayfarer/backend/internal/app"
	"github.com/tbellamy/wayfarer/backend/internal/domain"
	"github.com/tbellamy/wayfarer/backend/internal/repo"
)

// plannerStore adapts the account and session services to app.Store for a
// single planner session. Each planner session gets its own instance because
// the session subscription and the backend auth token are per-session state.
//
// After a successful toggle the user record is re-fetched and re-emitted
// through the session listener, so the planner core's cached copy is always
// replaced wholesale — it never patches its cache locally.
type plannerStore struct {
	auth  *AuthService
	users repo.UserRepo

	mu       sync.Mutex
	onChange func(*domain.User)
	token    string
}

var _ app.Store = (*plannerStore)(nil)

// SubscribeToSession registers the listener and fires it once immediately
// with the current session state (nil for a fresh planner), which is the
// "initial resolution" the core expects.
func (p *plannerStore) SubscribeToSession(onChange func(user *domain.User)) func() {
	p.mu.Lock()
	p.onChange = onChange
	p.mu.Unlock()

	onChange(nil)

	return func() {
		p.mu.Lock()
		p.onChange = nil
		p.mu.Unlock()
	}
}

// emit invokes the session listener, if still subscribed.
func (p *plannerStore) emit(user *domain.User) {
	p.mu.Lock()
	fn := p.onChange
	p.mu.Unlock()
	if fn != nil {
		fn(user)
	}
}

// login authenticates against the backend and announces the new session
// through the listener.
func (p *plannerStore) login(ctx context.Context, email, password string) error {
	user, token, err := p.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.token = token
	p.mu.Unlock()

	p.emit(&user)
	return nil
}

func (p *plannerStore) ToggleWishlist(ctx context.Context, userID uuid.UUID, destinationID string, currentlyWishlisted bool) error {
	if err := p.users.ToggleWishlist(ctx, userID, destinationID, currentlyWishlisted); err != nil {
		return err
	}
	p.refresh(ctx, userID)
	return nil
}

func (p *plannerStore) ToggleVisited(ctx context.Context, userID uuid.UUID, destinationID string, currentlyVisited bool) error {
	if err := p.users.ToggleVisited(ctx, userID, destinationID, currentlyVisited); err != nil {
		return err
	}
	p.refresh(ctx, userID)
	return nil
}

// refresh re-reads the user and re-emits it. A failed re-read is not an
// error for the toggle itself — the cache simply stays one change behind
// until the next listener fire.
func (p *plannerStore) refresh(ctx context.Context, userID uuid.UUID) {
	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return
	}
	user.PasswordHash = ""
	p.emit(&user)
}

func (p *plannerStore) Logout(ctx context.Context) error {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()

	if token != "" {
		if err := p.auth.Logout(ctx, token); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()

	p.emit(nil)
	return nil
}

// PlannerSession is one live planner: its token, its app core, and the store
// adapter binding the core to the backend.
type PlannerSession struct {
	Token uuid.UUID
	App   *app.App

	store    *plannerStore
	mu       sync.Mutex
	lastSeen time.Time
}

// Login authenticates the planner's user. The resulting session change
// reaches the core through its subscription, routing it to the dashboard.
func (s *PlannerSession) Login(ctx context.Context, email, password string) error {
	return s.store.login(ctx, email, password)
}

// Register creates the account and immediately signs it in.
func (s *PlannerSession) Register(ctx context.Context, in RegisterInput) error {
	if _, err := s.store.auth.Register(ctx, in); err != nil {
		return err
	}
	return s.store.login(ctx, in.Email, in.Password)
}

func (s *PlannerSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *PlannerSession) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// PlannerRegistry owns all live planner sessions. Sessions are in-memory and
// process-local; an idle session is pruned by the janitor, and Shutdown
// stops every session so each one releases its subscription on exit.
type PlannerRegistry struct {
	auth         *AuthService
	users        repo.UserRepo
	destinations []domain.Destination

	mu       sync.Mutex
	sessions map[uuid.UUID]*PlannerSession
}

// NewPlannerRegistry constructs an empty registry.
func NewPlannerRegistry(auth *AuthService, users repo.UserRepo, destinations []domain.Destination) *PlannerRegistry {
	return &PlannerRegistry{
		auth:         auth,
		users:        users,
		destinations: destinations,
		sessions:     make(map[uuid.UUID]*PlannerSession),
	}
}

// Create starts a new planner session and returns it.
func (r *PlannerRegistry) Create() (*PlannerSession, error) {
	store := &plannerStore{auth: r.auth, users: r.users}
	a := app.New(store, r.destinations)
	if err := a.Start(); err != nil {
		return nil, fmt.Errorf("service.PlannerRegistry.Create: %w", err)
	}

	session := &PlannerSession{
		Token:    uuid.New(),
		App:      a,
		store:    store,
		lastSeen: time.Now(),
	}

	r.mu.Lock()
	r.sessions[session.Token] = session
	r.mu.Unlock()
	return session, nil
}

// Get returns the session for token and marks it active.
// Returns domain.ErrNotFound for unknown (or already pruned) tokens.
func (r *PlannerRegistry) Get(token uuid.UUID) (*PlannerSession, error) {
	r.mu.Lock()
	session, ok := r.sessions[token]
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("service.PlannerRegistry.Get: %w", domain.ErrNotFound)
	}
	session.touch(time.Now())
	return session, nil
}

// Delete tears down the session for token, releasing its subscription.
// Returns domain.ErrNotFound for unknown tokens.
func (r *PlannerRegistry) Delete(token uuid.UUID) error {
	r.mu.Lock()
	session, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("service.PlannerRegistry.Delete: %w", domain.ErrNotFound)
	}
	session.App.Stop()
	return nil
}

// PruneIdle removes and stops every session idle for at least idleFor.
// Returns the number of sessions pruned.
func (r *PlannerRegistry) PruneIdle(idleFor time.Duration) int {
	cutoff := time.Now().Add(-idleFor)

	r.mu.Lock()
	var stale []*PlannerSession
	for token, session := range r.sessions {
		if session.idleSince(cutoff) {
			stale = append(stale, session)
			delete(r.sessions, token)
		}
	}
	r.mu.Unlock()

	for _, session := range stale {
		session.App.Stop()
	}
	return len(stale)
}

// Shutdown stops all live sessions. Called on server teardown.
func (r *PlannerRegistry) Shutdown() {
	r.mu.Lock()
	sessions := make([]*PlannerSession, 0, len(r.sessions))
	for token, session := range r.sessions {
		sessions = append(sessions, session)
		delete(r.sessions, token)
	}
	r.mu.Unlock()

	for _, session := range sessions {
		session.App.Stop()
	}
}
