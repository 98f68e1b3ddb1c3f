package models

import (
	"time"

	"github.com/google/uuid"
)

// Presentation represents a scheduled talk that live quizzes attach to.
// Creation and content management happen outside this service; the
// coordinator reads presentations for tenant scoping and room diagnostics.
type Presentation struct {
	ID          uuid.UUID `json:"id"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at"`
}
