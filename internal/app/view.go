// Package app implements the planner-session core: the view router, the
// single-toast notifier, the cached session holder, and the action handlers
// that forward to the auth/store backend through the narrow Store interface.
//
// One App models one user-facing planner session. All state is in-memory and
// process-local; the only outward dependency is Store, so the whole package
// is testable with an in-memory fake.
package app

import "fmt"

// View selects which screen of the planner is active.
//
// Navigation graph (any state can also reach itself as a no-op):
//
//	home ──► explore ──► details ──► (book) ──► dashboard
//	  │         │            │
//	  └── chatbot, login, register reachable from everywhere
//
// There is no terminal view — a planner session is long-lived.
type View string

const (
	ViewHome      View = "home"
	ViewExplore   View = "explore"
	ViewDetails   View = "details"
	ViewChatbot   View = "chatbot"
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewDashboard View = "dashboard"
)

// ParseView converts a raw string to a View, returning an error for unknown
// values.
func ParseView(s string) (View, error) {
	v := View(s)
	switch v {
	case ViewHome, ViewExplore, ViewDetails, ViewChatbot, ViewLogin, ViewRegister, ViewDashboard:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// requiresUser lists views that only make sense with an authenticated user.
var requiresUser = map[View]bool{
	ViewDashboard: true,
}

// requiresSelection lists views that only make sense with a selected
// destination.
var requiresSelection = map[View]bool{
	ViewDetails: true,
}

// resolveView applies the entry guards for the requested view and returns the
// view actually entered:
//   - details with no selected destination falls back to explore
//   - dashboard with no authenticated user falls back to login
//
// Everything else is entered as requested.
func resolveView(to View, hasUser, hasSelection bool) View {
	if requiresSelection[to] && !hasSelection {
		return ViewExplore
	}
	if requiresUser[to] && !hasUser {
		return ViewLogin
	}
	return to
}
