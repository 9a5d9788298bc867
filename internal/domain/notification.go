package domain

// NotificationKind is the severity of a toast notification.
type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is the single transient toast shown to the user. At most one
// exists at a time; newer notifications preempt older ones rather than queue.
// Closing marks it invisible but keeps the text, so a fading toast does not
// go blank mid-animation.
type Notification struct {
	Message string           `json:"message"`
	Kind    NotificationKind `json:"kind"`
	Visible bool             `json:"visible"`
}
