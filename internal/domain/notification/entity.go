package notification

import (
	"time"
)

// Type represents the type of notification
type Type string

const (
	TypeDeadlineAlert      Type = "deadline_alert"
	TypeMilestoneCompleted Type = "milestone_completed"
	TypeOverdueWarning     Type = "overdue_warning"
	TypeSystemStatus       Type = "system_status"
	TypeImportExport       Type = "import_export"
)

// AllTypes returns all available notification types
func AllTypes() []Type {
	return []Type{
		TypeDeadlineAlert,
		TypeMilestoneCompleted,
		TypeOverdueWarning,
		TypeSystemStatus,
		TypeImportExport,
	}
}

// Valid reports whether t is a known notification type
func (t Type) Valid() bool {
	switch t {
	case TypeDeadlineAlert, TypeMilestoneCompleted, TypeOverdueWarning, TypeSystemStatus, TypeImportExport:
		return true
	}
	return false
}

// Severity represents how a notification should be presented
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Metadata carries back-references to the domain record that triggered
// the alert. Informational only; the engine never dereferences it.
type Metadata struct {
	POAMID        *int64  `json:"poam_id,omitempty"`
	MilestoneID   *string `json:"milestone_id,omitempty"`
	RelatedEntity *string `json:"related_entity,omitempty"`
}

// Notification represents a single alert record.
// ID, Type, Timestamp and Metadata are immutable after creation; only
// IsRead may change.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"is_read"`
	Severity  Severity  `json:"severity"`
	ActionURL string    `json:"action_url,omitempty"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// Preferences holds one enable/disable gate per notification type plus
// the desktop delivery-channel gate
type Preferences struct {
	DeadlineAlerts         bool `json:"deadline_alerts"`
	MilestoneNotifications bool `json:"milestone_notifications"`
	OverdueWarnings        bool `json:"overdue_warnings"`
	SystemUpdates          bool `json:"system_updates"`
	ImportExportStatus     bool `json:"import_export_status"`
	DesktopNotifications   bool `json:"desktop_notifications"`
}

// DefaultPreferences returns preferences with every gate enabled
func DefaultPreferences() Preferences {
	return Preferences{
		DeadlineAlerts:         true,
		MilestoneNotifications: true,
		OverdueWarnings:        true,
		SystemUpdates:          true,
		ImportExportStatus:     true,
		DesktopNotifications:   true,
	}
}

// Allows reports whether notifications of the given type are enabled
func (p Preferences) Allows(t Type) bool {
	switch t {
	case TypeDeadlineAlert:
		return p.DeadlineAlerts
	case TypeMilestoneCompleted:
		return p.MilestoneNotifications
	case TypeOverdueWarning:
		return p.OverdueWarnings
	case TypeSystemStatus:
		return p.SystemUpdates
	case TypeImportExport:
		return p.ImportExportStatus
	default:
		return false
	}
}

// Filter is a view-only selector over the stored collection
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
)

// Valid reports whether f is "all", "unread" or one of the five types
func (f Filter) Valid() bool {
	if f == FilterAll || f == FilterUnread {
		return true
	}
	for _, t := range AllTypes() {
		if Filter(t) == f {
			return true
		}
	}
	return false
}

// Matches reports whether a notification passes the filter
func (f Filter) Matches(n Notification) bool {
	switch f {
	case FilterAll:
		return true
	case FilterUnread:
		return !n.IsRead
	default:
		return Type(f) == n.Type
	}
}

// Stats is derived view state, recomputed on every read
type Stats struct {
	Total  int          `json:"total"`
	Unread int          `json:"unread"`
	ByType map[Type]int `json:"by_type"`
}
