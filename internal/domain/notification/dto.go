package notification

// ============= Request DTOs =============

// AddRequest represents a request to add a notification. The store
// assigns the id, timestamp and read state itself.
type AddRequest struct {
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	ActionURL string    `json:"action_url,omitempty"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// UpdatePreferencesRequest is a partial preferences update; nil fields
// keep their current value
type UpdatePreferencesRequest struct {
	DeadlineAlerts         *bool `json:"deadline_alerts,omitempty"`
	MilestoneNotifications *bool `json:"milestone_notifications,omitempty"`
	OverdueWarnings        *bool `json:"overdue_warnings,omitempty"`
	SystemUpdates          *bool `json:"system_updates,omitempty"`
	ImportExportStatus     *bool `json:"import_export_status,omitempty"`
	DesktopNotifications   *bool `json:"desktop_notifications,omitempty"`
}

// MergeInto applies the non-nil fields onto p
func (r UpdatePreferencesRequest) MergeInto(p *Preferences) {
	if r.DeadlineAlerts != nil {
		p.DeadlineAlerts = *r.DeadlineAlerts
	}
	if r.MilestoneNotifications != nil {
		p.MilestoneNotifications = *r.MilestoneNotifications
	}
	if r.OverdueWarnings != nil {
		p.OverdueWarnings = *r.OverdueWarnings
	}
	if r.SystemUpdates != nil {
		p.SystemUpdates = *r.SystemUpdates
	}
	if r.ImportExportStatus != nil {
		p.ImportExportStatus = *r.ImportExportStatus
	}
	if r.DesktopNotifications != nil {
		p.DesktopNotifications = *r.DesktopNotifications
	}
}

// EventKind classifies a system-level event reported by import/export,
// backup, sync or error call sites
type EventKind string

const (
	EventImport EventKind = "import"
	EventExport EventKind = "export"
	EventBackup EventKind = "backup"
	EventSync   EventKind = "sync"
	EventError  EventKind = "error"
)

// Valid reports whether k is a known event kind
func (k EventKind) Valid() bool {
	switch k {
	case EventImport, EventExport, EventBackup, EventSync, EventError:
		return true
	}
	return false
}

// SystemEventRequest represents a system event to be reported as a
// notification
type SystemEventRequest struct {
	Kind    EventKind `json:"kind"`
	Message string    `json:"message"`
	Success bool      `json:"success"`
	Details string    `json:"details,omitempty"`
}

// SetFilterRequest changes the current view filter
type SetFilterRequest struct {
	Filter Filter `json:"filter"`
}

// ============= Response DTOs =============

// ListResponse is the presentation-boundary view of the store
type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
	Filter        Filter         `json:"filter"`
	Stats         Stats          `json:"stats"`
}

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// SSETokenResponse represents the SSE token response
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// ============= SSE Event =============

// SSEEvent represents a Server-Sent Event pushed to desktop clients
type SSEEvent struct {
	Event string       `json:"event"`
	Data  Notification `json:"data"`
}
