package quizlive

import (
	"context"

	"github.com/google/uuid"

	"github.com/slidepulse/backend/internal/models"
)

// Store is the durable persistence boundary for the coordinator. A nil quiz
// or question with a nil error means "not found". UpsertAnswer must be
// atomic per (questionID, userID): the coordinator relies on that guarantee
// instead of locking.
type Store interface {
	// GetQuiz loads a quiz with its questions ordered by their order field.
	GetQuiz(ctx context.Context, quizID uuid.UUID) (*models.Quiz, error)
	// UpsertAnswer inserts or overwrites the answer for (questionID, userID).
	UpsertAnswer(ctx context.Context, questionID, userID uuid.UUID, option string, isCorrect bool) (*models.Answer, error)
	// QuizAnswers returns every persisted answer for the quiz's questions.
	QuizAnswers(ctx context.Context, quizID uuid.UUID) ([]models.Answer, error)
}
