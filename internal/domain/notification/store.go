package notification

import (
	"context"
)

// Store defines the notification store contract. A single instance owns
// the persisted collection for the lifetime of the process: it loads the
// collection and preferences on construction and rewrites the full
// snapshot after every mutation.
type Store interface {
	// Add consults the preference gate for req.Type. If the type is
	// disabled the request is dropped and (nil, nil) is returned.
	// Otherwise the record is assigned a fresh id and timestamp,
	// prepended to the collection and persisted.
	Add(ctx context.Context, req AddRequest) (*Notification, error)

	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
	Remove(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error

	// SetFilter is a pure view-state change, never persisted
	SetFilter(f Filter) error
	UpdatePreferences(ctx context.Context, req UpdatePreferencesRequest) (Preferences, error)

	// Derived state, recomputed on every read
	Notifications() []Notification
	FilteredNotifications() []Notification
	UnreadCount() int
	Preferences() Preferences
	Filter() Filter
	Stats() Stats
}
