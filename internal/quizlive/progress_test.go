package quizlive_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidepulse/backend/internal/quizlive"
)

func TestProgressTrackerLifecycle(t *testing.T) {
	tracker := quizlive.NewProgressTracker()
	quizID := uuid.New()

	_, ok := tracker.Get(quizID)
	require.False(t, ok)

	tracker.Set(quizID, 0)
	entry, ok := tracker.Get(quizID)
	require.True(t, ok)
	assert.Equal(t, 0, entry.CurrentQuestionOrder)
	assert.False(t, entry.UpdatedAt.IsZero())

	tracker.Set(quizID, 4)
	entry, ok = tracker.Get(quizID)
	require.True(t, ok)
	assert.Equal(t, 4, entry.CurrentQuestionOrder)

	tracker.Clear(quizID)
	_, ok = tracker.Get(quizID)
	assert.False(t, ok)
	assert.Equal(t, 0, tracker.ActiveCount())
}

func TestProgressTrackerPerQuizCells(t *testing.T) {
	tracker := quizlive.NewProgressTracker()
	a, b := uuid.New(), uuid.New()

	tracker.Set(a, 1)
	tracker.Set(b, 7)
	tracker.Clear(a)

	_, ok := tracker.Get(a)
	assert.False(t, ok)
	entry, ok := tracker.Get(b)
	require.True(t, ok)
	assert.Equal(t, 7, entry.CurrentQuestionOrder)
}

func TestProgressTrackerConcurrentAccess(t *testing.T) {
	tracker := quizlive.NewProgressTracker()
	quizID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(order int) {
			defer wg.Done()
			tracker.Set(quizID, order)
			tracker.Get(quizID)
		}(i)
	}
	wg.Wait()

	// Last write wins; any of the written orders is a valid final value.
	entry, ok := tracker.Get(quizID)
	require.True(t, ok)
	assert.GreaterOrEqual(t, entry.CurrentQuestionOrder, 0)
	assert.Less(t, entry.CurrentQuestionOrder, 32)
}
