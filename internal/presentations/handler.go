package presentations

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slidepulse/backend/internal/realtime"
	"github.com/slidepulse/backend/pkg/response"
)

// Handler handles presentation read endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a presentations handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /presentations.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list presentations")
		return
	}
	response.OK(c, gin.H{"presentations": list})
}

// GetByID handles GET /presentations/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid presentation id")
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load presentation")
		return
	}
	if p == nil {
		response.NotFound(c, "presentation not found")
		return
	}
	response.OK(c, p)
}

// AudienceCount handles GET /presentations/:id/audience_count. Room size is
// diagnostic only.
func (h *Handler) AudienceCount(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid presentation id")
			return
		}
		response.OK(c, gin.H{"presentation_id": id, "count": hub.RoomSize(id)})
	}
}
