package presentations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slidepulse/backend/internal/models"
)

// Repository reads presentations. Creation and content management live in
// the presentation service; the coordinator only needs the entity for
// tenant scoping and diagnostics.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a presentations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID returns a presentation by ID, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Presentation, error) {
	const q = `SELECT id, organizer_id, title, description, scheduled_at, created_at
		FROM presentations WHERE id = $1`
	var p models.Presentation
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.OrganizerID, &p.Title, &p.Description, &p.ScheduledAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all presentations, soonest first.
func (r *Repository) List(ctx context.Context) ([]models.Presentation, error) {
	const q = `SELECT id, organizer_id, title, description, scheduled_at, created_at
		FROM presentations ORDER BY scheduled_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Presentation
	for rows.Next() {
		var p models.Presentation
		if err := rows.Scan(&p.ID, &p.OrganizerID, &p.Title, &p.Description, &p.ScheduledAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
