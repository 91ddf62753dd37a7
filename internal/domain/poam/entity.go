package poam

import (
	"time"
)

// POAM statuses. Completed is terminal: completed POAMs are never
// scanned for deadline or overdue conditions.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusOnHold     = "On Hold"
	StatusCompleted  = "Completed"
)

// POAM priorities
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// POAM represents a plan-of-action-and-milestones item: a trackable
// remediation task with a status, priority and due date, owned by a
// system (tenant)
type POAM struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	RiskLevel   string      `json:"risk_level"`
	SystemID    string      `json:"system_id"`
	Milestones  []Milestone `json:"milestones"`
}

// Milestone is a sub-step of a POAM with its own status and due date
type Milestone struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

// MilestoneRef is a milestone flattened out of its parent POAM, carrying
// denormalized back-references for scanning and message text
type MilestoneRef struct {
	Milestone
	POAMID    int64  `json:"poam_id"`
	POAMTitle string `json:"poam_title"`
}

// Flatten returns the POAM's milestones as MilestoneRefs
func Flatten(p POAM) []MilestoneRef {
	refs := make([]MilestoneRef, 0, len(p.Milestones))
	for _, m := range p.Milestones {
		refs = append(refs, MilestoneRef{
			Milestone: m,
			POAMID:    p.ID,
			POAMTitle: p.Title,
		})
	}
	return refs
}

// FlattenAll returns every milestone of every POAM as MilestoneRefs
func FlattenAll(poams []POAM) []MilestoneRef {
	var refs []MilestoneRef
	for _, p := range poams {
		refs = append(refs, Flatten(p)...)
	}
	return refs
}
