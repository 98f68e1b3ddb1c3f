package feedback

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slidepulse/backend/internal/middleware"
	"github.com/slidepulse/backend/internal/models"
	"github.com/slidepulse/backend/internal/realtime"
	"github.com/slidepulse/backend/pkg/response"
)

// CreateRequest is the body for POST /presentations/:id/feedback.
type CreateRequest struct {
	Kind    string `json:"kind" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Handler handles feedback HTTP endpoints and room fan-out.
type Handler struct {
	repo *Repository
	hub  *realtime.Hub
}

// NewHandler creates a feedback handler.
func NewHandler(repo *Repository, hub *realtime.Hub) *Handler {
	return &Handler{repo: repo, hub: hub}
}

// Create handles POST /presentations/:id/feedback. The created record is
// broadcast to the presentation room; only the kind tag is validated here.
func (h *Handler) Create(c *gin.Context) {
	presentationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid presentation id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	kind := models.FeedbackKind(req.Kind)
	if !kind.Valid() {
		response.BadRequest(c, "unknown feedback kind")
		return
	}

	f := &models.Feedback{
		PresentationID: presentationID,
		UserID:         userID,
		Kind:           kind,
		Content:        req.Content,
	}
	if err := h.repo.Create(c.Request.Context(), f); err != nil {
		response.Internal(c, "failed to create feedback")
		return
	}

	h.hub.BroadcastToRoom(presentationID, "feedback_created", f)
	response.Created(c, f)
}

// ListByPresentation handles GET /presentations/:id/feedback.
func (h *Handler) ListByPresentation(c *gin.Context) {
	presentationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid presentation id")
		return
	}
	list, err := h.repo.ListByPresentation(c.Request.Context(), presentationID)
	if err != nil {
		response.Internal(c, "failed to list feedback")
		return
	}
	response.OK(c, gin.H{"feedback": list})
}
