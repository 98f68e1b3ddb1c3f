package quizlive

import "errors"

var (
	// ErrQuizNotFound is returned when the quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound is returned when no question matches the target
	// order or ID within the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrPresentationMismatch is returned when a quiz does not belong to the
	// stated presentation. Tenant isolation: the operation is rejected with
	// no state change.
	ErrPresentationMismatch = errors.New("quiz does not belong to presentation")
	// ErrQuizNotActive is returned when an answer targets a quiz that is not
	// accepting answers (draft, completed or cancelled).
	ErrQuizNotActive = errors.New("quiz is not active")
	// ErrUnauthenticated is returned when an operation arrives on a
	// connection without a resolved identity.
	ErrUnauthenticated = errors.New("no identity on connection")
)
