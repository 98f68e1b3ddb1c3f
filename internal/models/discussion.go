package models

import (
	"time"

	"github.com/google/uuid"
)

// DiscussionComment is a threadless discussion entry on a presentation.
type DiscussionComment struct {
	ID             uuid.UUID `json:"id"`
	PresentationID uuid.UUID `json:"presentation_id"`
	UserID         uuid.UUID `json:"user_id"`
	Content        string    `json:"content"`
	Edited         bool      `json:"edited"`
	CreatedAt      time.Time `json:"created_at"`
}
