package feedback

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slidepulse/backend/internal/models"
)

// Repository handles feedback persistence. Pass-through: records are
// created here and fanned out; all moderation happens upstream.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a feedback repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new feedback record.
func (r *Repository) Create(ctx context.Context, f *models.Feedback) error {
	const q = `INSERT INTO feedback (id, presentation_id, user_id, kind, content)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, f.PresentationID, f.UserID, f.Kind, f.Content).
		Scan(&f.ID, &f.CreatedAt)
}

// ListByPresentation returns feedback for a presentation, newest first.
func (r *Repository) ListByPresentation(ctx context.Context, presentationID uuid.UUID) ([]models.Feedback, error) {
	const q = `SELECT id, presentation_id, user_id, kind, content, created_at
		FROM feedback WHERE presentation_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, presentationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.PresentationID, &f.UserID, &f.Kind, &f.Content, &f.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}
