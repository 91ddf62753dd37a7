package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/poam"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/database"
)

type poamRepository struct {
	db *database.DB
}

// NewPOAMRepository creates a new POAM repository
func NewPOAMRepository(db *database.DB) poam.Repository {
	return &poamRepository{db: db}
}

// ListBySystem returns all POAMs for a system with nested milestones
func (r *poamRepository) ListBySystem(ctx context.Context, systemID string) ([]poam.POAM, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, title, description, start_date, end_date, status, priority, risk_level, system_id
		FROM poams
		WHERE system_id = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, systemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query poams: %w", err)
	}
	defer rows.Close()

	var poams []poam.POAM
	index := make(map[int64]int)
	for rows.Next() {
		var p poam.POAM
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.StartDate,
			&p.EndDate,
			&p.Status,
			&p.Priority,
			&p.RiskLevel,
			&p.SystemID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poam: %w", err)
		}
		p.Milestones = []poam.Milestone{}
		index[p.ID] = len(poams)
		poams = append(poams, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read poams: %w", err)
	}

	msQuery := `
		SELECT m.id, m.poam_id, m.title, m.due_date, m.status, m.description
		FROM milestones m
		JOIN poams p ON p.id = m.poam_id
		WHERE p.system_id = $1
		ORDER BY m.due_date
	`

	msRows, err := q.Query(ctx, msQuery, systemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer msRows.Close()

	for msRows.Next() {
		var m poam.Milestone
		var poamID int64
		if err := msRows.Scan(&m.ID, &poamID, &m.Title, &m.DueDate, &m.Status, &m.Description); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		if i, ok := index[poamID]; ok {
			poams[i].Milestones = append(poams[i].Milestones, m)
		}
	}
	if err := msRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read milestones: %w", err)
	}

	return poams, nil
}

// GetByID retrieves one POAM with its milestones
func (r *poamRepository) GetByID(ctx context.Context, id int64) (*poam.POAM, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, title, description, start_date, end_date, status, priority, risk_level, system_id
		FROM poams
		WHERE id = $1
	`

	var p poam.POAM
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.Priority,
		&p.RiskLevel,
		&p.SystemID,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, poam.ErrPOAMNotFound
		}
		return nil, fmt.Errorf("failed to get poam: %w", err)
	}

	milestones, err := r.milestonesByPOAM(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Milestones = milestones

	return &p, nil
}

func (r *poamRepository) milestonesByPOAM(ctx context.Context, poamID int64) ([]poam.Milestone, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, title, due_date, status, description
		FROM milestones
		WHERE poam_id = $1
		ORDER BY due_date
	`

	rows, err := q.Query(ctx, query, poamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	milestones := []poam.Milestone{}
	for rows.Next() {
		var m poam.Milestone
		if err := rows.Scan(&m.ID, &m.Title, &m.DueDate, &m.Status, &m.Description); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// Create inserts a POAM and its milestones
func (r *poamRepository) Create(ctx context.Context, systemID string, req poam.CreatePOAMRequest) (*poam.POAM, error) {
	var created *poam.POAM

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		query := `
			INSERT INTO poams (title, description, start_date, end_date, status, priority, risk_level, system_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`

		var id int64
		err := q.QueryRow(txCtx, query,
			req.Title,
			req.Description,
			req.StartDate,
			req.EndDate,
			req.Status,
			req.Priority,
			req.RiskLevel,
			systemID,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create poam: %w", err)
		}

		milestones := make([]poam.Milestone, 0, len(req.Milestones))
		for _, m := range req.Milestones {
			msID := m.ID
			if msID == "" {
				msID = uuid.New().String()
			}
			_, err := q.Exec(txCtx, `
				INSERT INTO milestones (id, poam_id, title, due_date, status, description)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, msID, id, m.Title, m.DueDate, m.Status, m.Description)
			if err != nil {
				return fmt.Errorf("failed to create milestone: %w", err)
			}
			milestones = append(milestones, poam.Milestone{
				ID:          msID,
				Title:       m.Title,
				DueDate:     m.DueDate,
				Status:      m.Status,
				Description: m.Description,
			})
		}

		created = &poam.POAM{
			ID:          id,
			Title:       req.Title,
			Description: req.Description,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Status:      req.Status,
			Priority:    req.Priority,
			RiskLevel:   req.RiskLevel,
			SystemID:    systemID,
			Milestones:  milestones,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Update applies the non-nil fields and, when provided, replaces the
// milestone set
func (r *poamRepository) Update(ctx context.Context, id int64, req poam.UpdatePOAMRequest) (*poam.POAM, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.StartDate != nil {
		current.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		current.EndDate = *req.EndDate
	}
	if req.Status != nil {
		current.Status = *req.Status
	}
	if req.Priority != nil {
		current.Priority = *req.Priority
	}
	if req.RiskLevel != nil {
		current.RiskLevel = *req.RiskLevel
	}

	err = WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		_, err := q.Exec(txCtx, `
			UPDATE poams
			SET title = $1, description = $2, start_date = $3, end_date = $4, status = $5, priority = $6, risk_level = $7
			WHERE id = $8
		`,
			current.Title,
			current.Description,
			current.StartDate,
			current.EndDate,
			current.Status,
			current.Priority,
			current.RiskLevel,
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to update poam: %w", err)
		}

		if req.Milestones == nil {
			return nil
		}

		if _, err := q.Exec(txCtx, `DELETE FROM milestones WHERE poam_id = $1`, id); err != nil {
			return fmt.Errorf("failed to replace milestones: %w", err)
		}

		current.Milestones = current.Milestones[:0]
		for _, m := range req.Milestones {
			msID := m.ID
			if msID == "" {
				msID = uuid.New().String()
			}
			_, err := q.Exec(txCtx, `
				INSERT INTO milestones (id, poam_id, title, due_date, status, description)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, msID, id, m.Title, m.DueDate, m.Status, m.Description)
			if err != nil {
				return fmt.Errorf("failed to insert milestone: %w", err)
			}
			current.Milestones = append(current.Milestones, poam.Milestone{
				ID:          msID,
				Title:       m.Title,
				DueDate:     m.DueDate,
				Status:      m.Status,
				Description: m.Description,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return current, nil
}

// UpdateMilestoneStatus changes one milestone's status
func (r *poamRepository) UpdateMilestoneStatus(ctx context.Context, poamID int64, milestoneID string, status string) (*poam.Milestone, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE milestones
		SET status = $1
		WHERE id = $2 AND poam_id = $3
		RETURNING id, title, due_date, status, description
	`

	var m poam.Milestone
	err := q.QueryRow(ctx, query, status, milestoneID, poamID).Scan(
		&m.ID,
		&m.Title,
		&m.DueDate,
		&m.Status,
		&m.Description,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, poam.ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("failed to update milestone status: %w", err)
	}

	return &m, nil
}

// Delete removes a POAM and its milestones
func (r *poamRepository) Delete(ctx context.Context, id int64) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `DELETE FROM milestones WHERE poam_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete milestones: %w", err)
		}

		result, err := q.Exec(txCtx, `DELETE FROM poams WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete poam: %w", err)
		}
		if result.RowsAffected() == 0 {
			return poam.ErrPOAMNotFound
		}
		return nil
	})
}

// ImportData replaces the system's POAM data in a single transaction
func (r *poamRepository) ImportData(ctx context.Context, systemID string, data poam.Data) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		// Clear existing data for this system only
		if _, err := q.Exec(txCtx, `
			DELETE FROM milestones WHERE poam_id IN (SELECT id FROM poams WHERE system_id = $1)
		`, systemID); err != nil {
			return fmt.Errorf("failed to clear milestones: %w", err)
		}
		if _, err := q.Exec(txCtx, `DELETE FROM poams WHERE system_id = $1`, systemID); err != nil {
			return fmt.Errorf("failed to clear poams: %w", err)
		}

		for _, p := range data.POAMs {
			_, err := q.Exec(txCtx, `
				INSERT INTO poams (id, title, description, start_date, end_date, status, priority, risk_level, system_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`,
				p.ID,
				p.Title,
				p.Description,
				p.StartDate,
				p.EndDate,
				p.Status,
				p.Priority,
				p.RiskLevel,
				systemID,
			)
			if err != nil {
				return fmt.Errorf("failed to import poam %d: %w", p.ID, err)
			}

			for _, m := range p.Milestones {
				msID := m.ID
				if msID == "" {
					msID = uuid.New().String()
				}
				_, err := q.Exec(txCtx, `
					INSERT INTO milestones (id, poam_id, title, due_date, status, description)
					VALUES ($1, $2, $3, $4, $5, $6)
				`, msID, p.ID, m.Title, m.DueDate, m.Status, m.Description)
				if err != nil {
					return fmt.Errorf("failed to import milestone %s: %w", msID, err)
				}
			}
		}

		return nil
	})
}

// ExportData returns the system's POAM data as an import/export envelope
func (r *poamRepository) ExportData(ctx context.Context, systemID string) (*poam.Data, error) {
	poams, err := r.ListBySystem(ctx, systemID)
	if err != nil {
		return nil, err
	}
	return &poam.Data{POAMs: poams}, nil
}
