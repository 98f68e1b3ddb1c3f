package quizlive_test

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidepulse/backend/internal/models"
	"github.com/slidepulse/backend/internal/quizlive"
)

func TestComputeStatsEmptyQuiz(t *testing.T) {
	quiz := testQuiz(models.QuizActive, 2)
	stats := quizlive.ComputeStats(quiz, nil)

	assert.Equal(t, 0, stats.TotalParticipants)
	assert.Equal(t, 0, stats.TotalAnswers)
	assert.Equal(t, 0, stats.AccuracyPercent) // zero denominator guard
	require.Len(t, stats.Questions, 2)
	for _, qs := range stats.Questions {
		assert.Equal(t, 0, qs.AccuracyPercent)
	}
}

func TestComputeStatsIsOrderIndependent(t *testing.T) {
	quiz := testQuiz(models.QuizActive, 3)
	var answers []models.Answer
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	options := []string{"A", "B", "C", "D", ""}
	for _, q := range quiz.Questions {
		for i, u := range users {
			option := options[(i+q.Order)%len(options)]
			answers = append(answers, models.Answer{
				QuestionID: q.ID,
				UserID:     u,
				Option:     option,
				IsCorrect:  option != "" && option == q.CorrectAnswer,
			})
		}
	}

	want := quizlive.ComputeStats(quiz, answers)
	for i := 0; i < 10; i++ {
		shuffled := make([]models.Answer, len(answers))
		copy(shuffled, answers)
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, quizlive.ComputeStats(quiz, shuffled))
	}
}

func TestComputeStatsSentinelExcludedFromTallies(t *testing.T) {
	quiz := testQuiz(models.QuizActive, 1)
	q := quiz.Questions[0]
	answers := []models.Answer{
		{QuestionID: q.ID, UserID: uuid.New(), Option: "A", IsCorrect: true},
		{QuestionID: q.ID, UserID: uuid.New(), Option: "", IsCorrect: false},
		{QuestionID: q.ID, UserID: uuid.New(), Option: "", IsCorrect: false},
	}

	stats := quizlive.ComputeStats(quiz, answers)
	qs := stats.Questions[0]
	assert.Equal(t, quizlive.OptionCounts{A: 1}, qs.OptionCounts)
	assert.Equal(t, 3, qs.TotalAnswers) // sentinels still count toward totals
	assert.Equal(t, 3, stats.TotalParticipants)
	assert.Equal(t, 1, qs.CorrectCount)
	assert.Equal(t, 33, qs.AccuracyPercent)
}

func TestComputeStatsDistinctParticipants(t *testing.T) {
	quiz := testQuiz(models.QuizActive, 2)
	user := uuid.New()
	answers := []models.Answer{
		{QuestionID: quiz.Questions[0].ID, UserID: user, Option: "A", IsCorrect: true},
		{QuestionID: quiz.Questions[1].ID, UserID: user, Option: "C", IsCorrect: true},
	}

	stats := quizlive.ComputeStats(quiz, answers)
	assert.Equal(t, 1, stats.TotalParticipants)
	assert.Equal(t, 2, stats.TotalAnswers)
	assert.Equal(t, 100, stats.AccuracyPercent)
}

func TestComputeStatsIgnoresAnswersToRemovedQuestions(t *testing.T) {
	quiz := testQuiz(models.QuizActive, 1)
	answers := []models.Answer{
		{QuestionID: uuid.New(), UserID: uuid.New(), Option: "A", IsCorrect: true},
	}

	stats := quizlive.ComputeStats(quiz, answers)
	assert.Equal(t, 0, stats.TotalAnswers)
	assert.Equal(t, 0, stats.TotalParticipants)
}
