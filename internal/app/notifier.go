package app

import (
	"sync"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
)

// Notifier holds the single live toast notification. Show replaces any prior
// notification — newer calls preempt older ones, nothing queues. Close marks
// the toast invisible but leaves its text in place so a fade-out animation
// has something to render.
//
// The zero value is ready to use.
type Notifier struct {
	mu      sync.Mutex
	current domain.Notification
}

// Show replaces the current notification and makes it visible.
func (n *Notifier) Show(message string, kind domain.NotificationKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = domain.Notification{Message: message, Kind: kind, Visible: true}
}

// Close marks the current notification invisible. The message text is kept.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current.Visible = false
}

// Current returns a copy of the current notification.
func (n *Notifier) Current() domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
