package discussion

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slidepulse/backend/internal/models"
)

// Repository handles discussion comment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a discussion repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new comment.
func (r *Repository) Create(ctx context.Context, d *models.DiscussionComment) error {
	const q = `INSERT INTO discussion_comments (id, presentation_id, user_id, content)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, d.PresentationID, d.UserID, d.Content).
		Scan(&d.ID, &d.CreatedAt)
}

// GetByID returns a comment by ID, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.DiscussionComment, error) {
	const q = `SELECT id, presentation_id, user_id, content, edited, created_at
		FROM discussion_comments WHERE id = $1`
	var d models.DiscussionComment
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&d.ID, &d.PresentationID, &d.UserID, &d.Content, &d.Edited, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Update replaces a comment's content and marks it edited.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, content string) error {
	const q = `UPDATE discussion_comments SET content = $1, edited = TRUE WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, content, id)
	return err
}

// Delete removes a comment.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM discussion_comments WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

// ListByPresentation returns comments for a presentation, oldest first.
func (r *Repository) ListByPresentation(ctx context.Context, presentationID uuid.UUID) ([]models.DiscussionComment, error) {
	const q = `SELECT id, presentation_id, user_id, content, edited, created_at
		FROM discussion_comments WHERE presentation_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, presentationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.DiscussionComment
	for rows.Next() {
		var d models.DiscussionComment
		if err := rows.Scan(&d.ID, &d.PresentationID, &d.UserID, &d.Content, &d.Edited, &d.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
