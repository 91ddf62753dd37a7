package poam

import (
	"context"
)

// Repository defines the POAM snapshot store. The alerting engine only
// reads from it; the CRUD surface writes through it.
type Repository interface {
	// ListBySystem returns the full snapshot for one system, each POAM
	// with its nested milestones
	ListBySystem(ctx context.Context, systemID string) ([]POAM, error)
	GetByID(ctx context.Context, id int64) (*POAM, error)

	Create(ctx context.Context, systemID string, req CreatePOAMRequest) (*POAM, error)
	Update(ctx context.Context, id int64, req UpdatePOAMRequest) (*POAM, error)
	UpdateMilestoneStatus(ctx context.Context, poamID int64, milestoneID string, status string) (*Milestone, error)
	Delete(ctx context.Context, id int64) error

	// ImportData replaces the system's POAMs and milestones with the
	// given data in a single transaction
	ImportData(ctx context.Context, systemID string, data Data) error
	ExportData(ctx context.Context, systemID string) (*Data, error)
}
