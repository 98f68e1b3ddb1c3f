package quizlive

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slidepulse/backend/internal/models"
)

// Repository is the pgx-backed Store implementation.
type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

// NewRepository creates a quiz repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetQuiz returns a quiz with its questions, or nil when absent.
func (r *Repository) GetQuiz(ctx context.Context, quizID uuid.UUID) (*models.Quiz, error) {
	const q = `SELECT id, presentation_id, title, status, time_limit_seconds, created_at
		FROM quizzes WHERE id = $1`
	var quiz models.Quiz
	err := r.pool.QueryRow(ctx, q, quizID).
		Scan(&quiz.ID, &quiz.PresentationID, &quiz.Title, &quiz.Status, &quiz.TimeLimitSeconds, &quiz.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, quiz_id, ord, prompt, option_a, option_b, option_c, option_d, correct_answer
		FROM questions WHERE quiz_id = $1 ORDER BY ord`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var question models.Question
		if err := rows.Scan(&question.ID, &question.QuizID, &question.Order, &question.Prompt,
			&question.OptionA, &question.OptionB, &question.OptionC, &question.OptionD, &question.CorrectAnswer); err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// UpsertAnswer records a user's answer, overwriting any prior answer for the
// same (question, user) pair. One per user per question, ever.
func (r *Repository) UpsertAnswer(ctx context.Context, questionID, userID uuid.UUID, option string, isCorrect bool) (*models.Answer, error) {
	const q = `INSERT INTO answers (question_id, user_id, option, is_correct) VALUES ($1, $2, $3, $4)
		ON CONFLICT (question_id, user_id) DO UPDATE SET option = EXCLUDED.option, is_correct = EXCLUDED.is_correct, answered_at = NOW()
		RETURNING question_id, user_id, option, is_correct, answered_at`
	var a models.Answer
	err := r.pool.QueryRow(ctx, q, questionID, userID, option, isCorrect).
		Scan(&a.QuestionID, &a.UserID, &a.Option, &a.IsCorrect, &a.AnsweredAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// QuizAnswers returns all answers across the quiz's questions.
func (r *Repository) QuizAnswers(ctx context.Context, quizID uuid.UUID) ([]models.Answer, error) {
	const q = `SELECT a.question_id, a.user_id, a.option, a.is_correct, a.answered_at
		FROM answers a JOIN questions qu ON qu.id = a.question_id
		WHERE qu.quiz_id = $1`
	rows, err := r.pool.Query(ctx, q, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.QuestionID, &a.UserID, &a.Option, &a.IsCorrect, &a.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
