package quizlive

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slidepulse/backend/internal/models"
)

// Events broadcast to presentation rooms.
const (
	EventQuizStarted      = "quiz_started"
	EventQuestionAdvanced = "question_advanced"
	EventQuizEnded        = "quiz_ended"
	EventStatsUpdated     = "stats_updated"
)

// Broadcaster delivers an event to every connection in a presentation room.
// Fire-and-forget: the coordinator never waits for per-recipient delivery.
type Broadcaster interface {
	BroadcastToRoom(presentationID uuid.UUID, event string, payload interface{})
}

// QuizStartedEvent is the quiz_started room broadcast. It carries the full
// quiz payload so clients can render questions locally on advance; correct
// answers are never serialized.
type QuizStartedEvent struct {
	Quiz             *models.Quiz `json:"quiz"`
	TimeLimitSeconds int          `json:"time_limit_seconds"`
	QuestionIndex    int          `json:"question_index"`
}

// QuestionAdvancedEvent is the question_advanced room broadcast. Clients
// already hold question content from quiz_started; only the identifier moves.
type QuestionAdvancedEvent struct {
	QuizID        uuid.UUID `json:"quiz_id"`
	QuestionIndex int       `json:"question_index"`
	QuestionID    uuid.UUID `json:"question_id"`
}

// QuizEndedEvent is the quiz_ended room broadcast.
type QuizEndedEvent struct {
	QuizID uuid.UUID `json:"quiz_id"`
}

// QuizState is the reply to a state query or late-joiner resync.
type QuizState struct {
	QuizID        uuid.UUID `json:"quiz_id"`
	QuestionIndex int       `json:"question_index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SubmitAnswerInput is one audience answer submission.
type SubmitAnswerInput struct {
	QuizID         uuid.UUID
	QuestionID     uuid.UUID
	PresentationID uuid.UUID
	Option         string // empty = client-side timeout, recorded as sentinel
}

// Coordinator implements the live quiz session use cases: progression,
// answer intake and statistics fan-out. Handlers for many connections call
// it concurrently; the only in-process shared state is the progress tracker.
type Coordinator struct {
	store    Store
	progress *ProgressTracker
	rooms    Broadcaster
	logger   *zap.Logger
}

// NewCoordinator creates a coordinator.
func NewCoordinator(store Store, progress *ProgressTracker, rooms Broadcaster, logger *zap.Logger) *Coordinator {
	return &Coordinator{store: store, progress: progress, rooms: rooms, logger: logger}
}

// loadQuiz fetches a quiz and enforces tenant scoping against the stated
// presentation.
func (co *Coordinator) loadQuiz(ctx context.Context, quizID, presentationID uuid.UUID) (*models.Quiz, error) {
	quiz, err := co.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	if quiz.PresentationID != presentationID {
		return nil, ErrPresentationMismatch
	}
	return quiz, nil
}

// StartQuiz creates the progress pointer for a quiz and broadcasts
// quiz_started with the full quiz payload to the presentation room.
func (co *Coordinator) StartQuiz(ctx context.Context, quizID, presentationID uuid.UUID, startOrder int) (QuizState, error) {
	quiz, err := co.loadQuiz(ctx, quizID, presentationID)
	if err != nil {
		return QuizState{}, err
	}
	if quiz.QuestionByOrder(startOrder) == nil {
		return QuizState{}, ErrQuestionNotFound
	}

	entry := co.progress.Set(quizID, startOrder)
	co.rooms.BroadcastToRoom(presentationID, EventQuizStarted, QuizStartedEvent{
		Quiz:             quiz,
		TimeLimitSeconds: quiz.TimeLimitSeconds,
		QuestionIndex:    startOrder,
	})
	co.logger.Info("quiz started",
		zap.String("quiz_id", quizID.String()),
		zap.String("presentation_id", presentationID.String()),
		zap.Int("question_index", startOrder))
	return QuizState{QuizID: quizID, QuestionIndex: entry.CurrentQuestionOrder, UpdatedAt: entry.UpdatedAt}, nil
}

// AdvanceQuestion moves the pointer to the question with the target order
// and broadcasts question_advanced. The broadcast is the sole push by which
// connected clients learn which question is live.
func (co *Coordinator) AdvanceQuestion(ctx context.Context, quizID, presentationID uuid.UUID, targetOrder int) (QuizState, error) {
	quiz, err := co.loadQuiz(ctx, quizID, presentationID)
	if err != nil {
		return QuizState{}, err
	}
	question := quiz.QuestionByOrder(targetOrder)
	if question == nil {
		return QuizState{}, ErrQuestionNotFound
	}

	entry := co.progress.Set(quizID, targetOrder)
	co.rooms.BroadcastToRoom(presentationID, EventQuestionAdvanced, QuestionAdvancedEvent{
		QuizID:        quizID,
		QuestionIndex: targetOrder,
		QuestionID:    question.ID,
	})
	co.logger.Debug("question advanced",
		zap.String("quiz_id", quizID.String()),
		zap.Int("question_index", targetOrder))
	return QuizState{QuizID: quizID, QuestionIndex: entry.CurrentQuestionOrder, UpdatedAt: entry.UpdatedAt}, nil
}

// EndQuiz clears the progress pointer and broadcasts quiz_ended.
func (co *Coordinator) EndQuiz(ctx context.Context, quizID, presentationID uuid.UUID) error {
	if _, err := co.loadQuiz(ctx, quizID, presentationID); err != nil {
		return err
	}
	co.progress.Clear(quizID)
	co.rooms.BroadcastToRoom(presentationID, EventQuizEnded, QuizEndedEvent{QuizID: quizID})
	co.logger.Info("quiz ended", zap.String("quiz_id", quizID.String()))
	return nil
}

// QueryState returns the current pointer for a quiz, if one exists. Also the
// resync path for late joiners: a client that (re)connects after missing an
// advance broadcast calls this to repair its view. After a process restart
// there is nothing to recover until the speaker starts the quiz again.
func (co *Coordinator) QueryState(quizID uuid.UUID) (QuizState, bool) {
	entry, ok := co.progress.Get(quizID)
	if !ok {
		return QuizState{}, false
	}
	return QuizState{QuizID: quizID, QuestionIndex: entry.CurrentQuestionOrder, UpdatedAt: entry.UpdatedAt}, true
}

// SubmitAnswer validates and persists one answer as an idempotent upsert,
// then recomputes quiz statistics from the store and broadcasts them to the
// room. onRecorded, when non-nil, is called with the recorded answer before
// the stats broadcast so the submitter's ack always precedes stats_updated
// on its connection. Returns the recorded answer and the fresh statistics.
func (co *Coordinator) SubmitAnswer(ctx context.Context, identity Identity, in SubmitAnswerInput, onRecorded func(*models.Answer)) (*models.Answer, QuizStats, error) {
	if !identity.Resolved() {
		return nil, QuizStats{}, ErrUnauthenticated
	}

	quiz, err := co.loadQuiz(ctx, in.QuizID, in.PresentationID)
	if err != nil {
		return nil, QuizStats{}, err
	}
	if quiz.Status != models.QuizActive {
		return nil, QuizStats{}, ErrQuizNotActive
	}
	question := quiz.QuestionByID(in.QuestionID)
	if question == nil {
		return nil, QuizStats{}, ErrQuestionNotFound
	}

	option := strings.ToUpper(strings.TrimSpace(in.Option))
	isCorrect := option != models.OptionNone && option == question.CorrectAnswer

	answer, err := co.store.UpsertAnswer(ctx, question.ID, identity.UserID, option, isCorrect)
	if err != nil {
		return nil, QuizStats{}, err
	}
	if onRecorded != nil {
		onRecorded(answer)
	}

	stats, err := co.Stats(ctx, quiz)
	if err != nil {
		// The answer is durable; report the stats failure to the submitter
		// rather than pretending the whole submission failed silently.
		return answer, QuizStats{}, err
	}
	co.rooms.BroadcastToRoom(quiz.PresentationID, EventStatsUpdated, stats)

	co.logger.Debug("answer recorded",
		zap.String("quiz_id", in.QuizID.String()),
		zap.String("question_id", question.ID.String()),
		zap.String("user_id", identity.UserID.String()),
		zap.Bool("correct", isCorrect))
	return answer, stats, nil
}

// Stats recomputes aggregate statistics for a loaded quiz from the store.
// Always a full pass over durable answers: correctness over throughput.
func (co *Coordinator) Stats(ctx context.Context, quiz *models.Quiz) (QuizStats, error) {
	answers, err := co.store.QuizAnswers(ctx, quiz.ID)
	if err != nil {
		return QuizStats{}, err
	}
	return ComputeStats(quiz, answers), nil
}

// StatsByID loads the quiz and recomputes its statistics. Used by the HTTP
// read endpoint.
func (co *Coordinator) StatsByID(ctx context.Context, quizID uuid.UUID) (QuizStats, error) {
	quiz, err := co.store.GetQuiz(ctx, quizID)
	if err != nil {
		return QuizStats{}, err
	}
	if quiz == nil {
		return QuizStats{}, ErrQuizNotFound
	}
	return co.Stats(ctx, quiz)
}

// GetQuiz exposes the stored quiz for read endpoints.
func (co *Coordinator) GetQuiz(ctx context.Context, quizID uuid.UUID) (*models.Quiz, error) {
	quiz, err := co.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}
