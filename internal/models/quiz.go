package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizStatus represents the lifecycle state of a quiz.
type QuizStatus string

const (
	QuizDraft     QuizStatus = "draft"
	QuizActive    QuizStatus = "active"
	QuizCompleted QuizStatus = "completed"
	QuizCancelled QuizStatus = "cancelled"
)

// Option letters for question answers. OptionNone is the sentinel recorded
// when a client times out without choosing; it still counts as participation.
const (
	OptionA    = "A"
	OptionB    = "B"
	OptionC    = "C"
	OptionD    = "D"
	OptionNone = ""
)

// Quiz is a multiple-choice quiz attached to a presentation.
type Quiz struct {
	ID               uuid.UUID  `json:"id"`
	PresentationID   uuid.UUID  `json:"presentation_id"`
	Title            string     `json:"title"`
	Status           QuizStatus `json:"status"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	Questions        []Question `json:"questions,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Question is one quiz question, ordered by the explicit Order field.
type Question struct {
	ID            uuid.UUID `json:"id"`
	QuizID        uuid.UUID `json:"quiz_id"`
	Order         int       `json:"order"`
	Prompt        string    `json:"prompt"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectAnswer string    `json:"-"` // never serialized to clients
}

// QuestionByOrder returns the question with the given order, or nil.
func (q *Quiz) QuestionByOrder(order int) *Question {
	for i := range q.Questions {
		if q.Questions[i].Order == order {
			return &q.Questions[i]
		}
	}
	return nil
}

// QuestionByID returns the question with the given ID, or nil.
func (q *Quiz) QuestionByID(id uuid.UUID) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

// Answer is a user's recorded answer to a question. At most one row exists
// per (question, user); re-submission overwrites it.
type Answer struct {
	QuestionID uuid.UUID `json:"question_id"`
	UserID     uuid.UUID `json:"user_id"`
	Option     string    `json:"option"` // "A".."D", or OptionNone for a timeout
	IsCorrect  bool      `json:"is_correct"`
	AnsweredAt time.Time `json:"answered_at"`
}
