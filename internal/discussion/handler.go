package discussion

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slidepulse/backend/internal/middleware"
	"github.com/slidepulse/backend/internal/models"
	"github.com/slidepulse/backend/internal/realtime"
	"github.com/slidepulse/backend/pkg/response"
)

// CreateRequest is the body for POST /presentations/:id/comments.
type CreateRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdateRequest is the body for PATCH /comments/:id.
type UpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

// Handler handles discussion HTTP endpoints and room fan-out.
type Handler struct {
	repo *Repository
	hub  *realtime.Hub
}

// NewHandler creates a discussion handler.
func NewHandler(repo *Repository, hub *realtime.Hub) *Handler {
	return &Handler{repo: repo, hub: hub}
}

// Create handles POST /presentations/:id/comments.
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

	d := &models.DiscussionComment{
		PresentationID: presentationID,
		UserID:         userID,
		Content:        req.Content,
	}
	if err := h.repo.Create(c.Request.Context(), d); err != nil {
		response.Internal(c, "failed to create comment")
		return
	}

	h.hub.BroadcastToRoom(presentationID, "discussion_created", d)
	response.Created(c, d)
}

// Update handles PATCH /comments/:id (author only).
func (h *Handler) Update(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	d, err := h.repo.GetByID(c.Request.Context(), commentID)
	if err != nil || d == nil {
		response.NotFound(c, "comment not found")
		return
	}
	if d.UserID != userID {
		response.Forbidden(c, "only the author can edit a comment")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.Update(c.Request.Context(), commentID, req.Content); err != nil {
		response.Internal(c, "failed to update comment")
		return
	}
	d.Content = req.Content
	d.Edited = true

	h.hub.BroadcastToRoom(d.PresentationID, "discussion_updated", d)
	response.OK(c, d)
}

// Delete handles DELETE /comments/:id (author or organizer).
func (h *Handler) Delete(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)

	d, err := h.repo.GetByID(c.Request.Context(), commentID)
	if err != nil || d == nil {
		response.NotFound(c, "comment not found")
		return
	}
	if d.UserID != userID && models.Role(role) != models.RoleOrganizer {
		response.Forbidden(c, "only the author or an organizer can delete a comment")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), commentID); err != nil {
		response.Internal(c, "failed to delete comment")
		return
	}

	h.hub.BroadcastToRoom(d.PresentationID, "discussion_deleted", gin.H{"id": commentID, "presentation_id": d.PresentationID})
	response.NoContent(c)
}

// ListByPresentation handles GET /presentations/:id/comments.
func (h *Handler) ListByPresentation(c *gin.Context) {
	presentationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid presentation id")
		return
	}
	list, err := h.repo.ListByPresentation(c.Request.Context(), presentationID)
	if err != nil {
		response.Internal(c, "failed to list comments")
		return
	}
	response.OK(c, gin.H{"comments": list})
}
