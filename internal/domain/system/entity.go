package system

import (
	"time"
)

// System represents a tenant: the active data partition whose POAMs are
// scanned. Switching the active system triggers one comprehensive check.
type System struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Owner          *string    `json:"owner,omitempty"`
	Classification *string    `json:"classification,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastAccessed   *time.Time `json:"last_accessed,omitempty"`
}
