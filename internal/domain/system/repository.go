package system

import (
	"context"
)

// Repository defines the system repository interface
type Repository interface {
	List(ctx context.Context) ([]System, error)
	GetByID(ctx context.Context, id string) (*System, error)
	Create(ctx context.Context, s *System) error
	// TouchLastAccessed records that the system became the active one
	TouchLastAccessed(ctx context.Context, id string) error
}
