package poam

import (
	"time"
)

// ============= Request DTOs =============

// CreatePOAMRequest represents a request to create a POAM
type CreatePOAMRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	StartDate   time.Time                `json:"start_date"`
	EndDate     time.Time                `json:"end_date"`
	Status      string                   `json:"status"`
	Priority    string                   `json:"priority"`
	RiskLevel   string                   `json:"risk_level"`
	Milestones  []CreateMilestoneRequest `json:"milestones"`
}

// CreateMilestoneRequest represents a milestone within a create/update
type CreateMilestoneRequest struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

// UpdatePOAMRequest represents a request to update a POAM; nil fields
// keep their current value
type UpdatePOAMRequest struct {
	Title       *string                  `json:"title,omitempty"`
	Description *string                  `json:"description,omitempty"`
	StartDate   *time.Time               `json:"start_date,omitempty"`
	EndDate     *time.Time               `json:"end_date,omitempty"`
	Status      *string                  `json:"status,omitempty"`
	Priority    *string                  `json:"priority,omitempty"`
	RiskLevel   *string                  `json:"risk_level,omitempty"`
	Milestones  []CreateMilestoneRequest `json:"milestones,omitempty"`
}

// UpdateMilestoneStatusRequest changes one milestone's status
type UpdateMilestoneStatusRequest struct {
	Status string `json:"status"`
}

// ============= Import / Export =============

// Data is the import/export envelope: every POAM (with nested
// milestones) belonging to one system
type Data struct {
	POAMs []POAM `json:"poams"`
}
