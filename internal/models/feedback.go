package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackKind enumerates the known feedback types. Anything else is
// rejected before fan-out.
type FeedbackKind string

const (
	FeedbackQuestion FeedbackKind = "question"
	FeedbackComment  FeedbackKind = "comment"
	FeedbackReaction FeedbackKind = "reaction"
)

// Valid reports whether the kind is one of the known values.
func (k FeedbackKind) Valid() bool {
	switch k {
	case FeedbackQuestion, FeedbackComment, FeedbackReaction:
		return true
	}
	return false
}

// Feedback is an audience feedback record broadcast to the presentation room.
type Feedback struct {
	ID             uuid.UUID    `json:"id"`
	PresentationID uuid.UUID    `json:"presentation_id"`
	UserID         uuid.UUID    `json:"user_id"`
	Kind           FeedbackKind `json:"kind"`
	Content        string       `json:"content"`
	CreatedAt      time.Time    `json:"created_at"`
}
