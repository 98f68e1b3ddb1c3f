package quizlive

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slidepulse/backend/pkg/response"
)

// Handler exposes read-side quiz endpoints for clients that poll over HTTP
// instead of (or in addition to) the realtime push.
type Handler struct {
	coordinator *Coordinator
}

// NewHandler creates a quiz read handler.
func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// GetByID handles GET /quizzes/:id. Correct answers are never serialized.
func (h *Handler) GetByID(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
		return
	}
	quiz, err := h.coordinator.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			response.NotFound(c, "quiz not found")
			return
		}
		response.Internal(c, "failed to load quiz")
		return
	}
	response.OK(c, quiz)
}

// GetState handles GET /quizzes/:id/state. Polling alternative to the
// question_advanced push; an absent pointer is reported explicitly.
func (h *Handler) GetState(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
		return
	}
	state, ok := h.coordinator.QueryState(quizID)
	if !ok {
		response.OK(c, gin.H{"quiz_id": quizID, "has_state": false})
		return
	}
	response.OK(c, gin.H{"quiz_id": state.QuizID, "has_state": true, "question_index": state.QuestionIndex, "updated_at": state.UpdatedAt})
}

// GetStats handles GET /quizzes/:id/stats.
func (h *Handler) GetStats(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
		return
	}
	stats, err := h.coordinator.StatsByID(c.Request.Context(), quizID)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			response.NotFound(c, "quiz not found")
			return
		}
		response.Internal(c, "failed to compute stats")
		return
	}
	response.OK(c, stats)
}
