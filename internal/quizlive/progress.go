package quizlive

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProgressEntry is the in-memory pointer to the question currently live for
// a quiz.
type ProgressEntry struct {
	CurrentQuestionOrder int       `json:"question_index"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ProgressTracker holds the current question pointer for every quiz being
// advanced. It is deliberately volatile: entries exist only while a quiz is
// between start and end, and all pointers are lost on process restart. A
// restarted coordinator cannot resync clients until the speaker starts the
// quiz again.
type ProgressTracker struct {
	mu     sync.RWMutex
	byQuiz map[uuid.UUID]ProgressEntry
	now    func() time.Time
}

// NewProgressTracker creates an empty tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		byQuiz: make(map[uuid.UUID]ProgressEntry),
		now:    time.Now,
	}
}

// Set records the current question order for a quiz, overwriting any prior
// entry. Concurrent setters race on which value wins; last write wins with
// no merge.
func (t *ProgressTracker) Set(quizID uuid.UUID, order int) ProgressEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry := ProgressEntry{CurrentQuestionOrder: order, UpdatedAt: t.now()}
	t.byQuiz[quizID] = entry
	return entry
}

// Get returns the pointer entry for a quiz, if any.
func (t *ProgressTracker) Get(quizID uuid.UUID) (ProgressEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.byQuiz[quizID]
	return entry, ok
}

// Clear removes the pointer entry for a quiz.
func (t *ProgressTracker) Clear(quizID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byQuiz, quizID)
}

// ActiveCount returns the number of quizzes currently being advanced.
func (t *ProgressTracker) ActiveCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byQuiz)
}
