package quizlive

import (
	"math"

	"github.com/google/uuid"

	"github.com/slidepulse/backend/internal/models"
)

// OptionCounts tallies submitted options for one question. The timeout
// sentinel is excluded from tallies but still counts toward totals.
type OptionCounts struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
}

// QuestionStats holds per-question aggregates.
type QuestionStats struct {
	QuestionID      uuid.UUID    `json:"question_id"`
	Order           int          `json:"order"`
	OptionCounts    OptionCounts `json:"option_counts"`
	CorrectCount    int          `json:"correct_count"`
	TotalAnswers    int          `json:"total_answers"`
	AccuracyPercent int          `json:"accuracy_percent"`
}

// QuizStats is the full aggregate broadcast to the room after every accepted
// answer. It is always recomputed from persisted answers, never maintained
// incrementally, so it cannot drift from the store.
type QuizStats struct {
	QuizID            uuid.UUID       `json:"quiz_id"`
	TotalParticipants int             `json:"total_participants"`
	TotalAnswers      int             `json:"total_answers"`
	CorrectAnswers    int             `json:"correct_answers"`
	AccuracyPercent   int             `json:"accuracy_percent"`
	Questions         []QuestionStats `json:"questions"`
}

// ComputeStats derives aggregate statistics for a quiz from its persisted
// answers. Pure function: the result depends only on the final answer set,
// not on submission order.
func ComputeStats(quiz *models.Quiz, answers []models.Answer) QuizStats {
	stats := QuizStats{
		QuizID:    quiz.ID,
		Questions: make([]QuestionStats, len(quiz.Questions)),
	}

	index := make(map[uuid.UUID]int, len(quiz.Questions))
	for i, q := range quiz.Questions {
		index[q.ID] = i
		stats.Questions[i] = QuestionStats{QuestionID: q.ID, Order: q.Order}
	}

	participants := make(map[uuid.UUID]struct{})
	for _, a := range answers {
		i, ok := index[a.QuestionID]
		if !ok {
			continue // answer to a question no longer in the quiz
		}
		participants[a.UserID] = struct{}{}
		stats.TotalAnswers++

		qs := &stats.Questions[i]
		qs.TotalAnswers++
		switch a.Option {
		case models.OptionA:
			qs.OptionCounts.A++
		case models.OptionB:
			qs.OptionCounts.B++
		case models.OptionC:
			qs.OptionCounts.C++
		case models.OptionD:
			qs.OptionCounts.D++
		}
		if a.IsCorrect {
			qs.CorrectCount++
			stats.CorrectAnswers++
		}
	}

	stats.TotalParticipants = len(participants)
	stats.AccuracyPercent = percent(stats.CorrectAnswers, stats.TotalAnswers)
	for i := range stats.Questions {
		qs := &stats.Questions[i]
		qs.AccuracyPercent = percent(qs.CorrectCount, qs.TotalAnswers)
	}
	return stats
}

// percent rounds correct/total to a whole percentage, 0 when total is zero.
func percent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
