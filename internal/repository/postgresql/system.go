package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/system"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/database"
)

type systemRepository struct {
	db *database.DB
}

// NewSystemRepository creates a new system repository
func NewSystemRepository(db *database.DB) system.Repository {
	return &systemRepository{db: db}
}

func (r *systemRepository) List(ctx context.Context) ([]system.System, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, description, owner, classification, is_active, created_at, updated_at, last_accessed
		FROM systems
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query systems: %w", err)
	}
	defer rows.Close()

	var systems []system.System
	for rows.Next() {
		var s system.System
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&s.Owner,
			&s.Classification,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.LastAccessed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan system: %w", err)
		}
		systems = append(systems, s)
	}

	return systems, rows.Err()
}

func (r *systemRepository) GetByID(ctx context.Context, id string) (*system.System, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, description, owner, classification, is_active, created_at, updated_at, last_accessed
		FROM systems
		WHERE id = $1
	`

	var s system.System
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.Owner,
		&s.Classification,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.LastAccessed,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, system.ErrSystemNotFound
		}
		return nil, fmt.Errorf("failed to get system: %w", err)
	}

	return &s, nil
}

func (r *systemRepository) Create(ctx context.Context, s *system.System) error {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `
		INSERT INTO systems (id, name, description, owner, classification, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		s.ID,
		s.Name,
		s.Description,
		s.Owner,
		s.Classification,
		s.IsActive,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create system: %w", err)
	}

	return nil
}

// TouchLastAccessed records that the system became the active one
func (r *systemRepository) TouchLastAccessed(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `
		UPDATE systems SET last_accessed = $1 WHERE id = $2
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to touch last_accessed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return system.ErrSystemNotFound
	}

	return nil
}
