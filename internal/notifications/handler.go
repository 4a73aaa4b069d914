package notifications

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/pkg/response"
)

// Handler handles notification HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /notifications?limit=.
func (h *Handler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.repo.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		response.Internal(c, "failed to list notifications")
		return
	}
	unread, err := h.repo.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to count notifications")
		return
	}
	response.OK(c, gin.H{"notifications": list, "unread": unread})
}

// MarkRead handles PATCH /notifications/:id/read.
func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if err := h.repo.MarkRead(c.Request.Context(), id, userID); err != nil {
		response.Internal(c, "failed to mark notification read")
		return
	}
	response.OK(c, gin.H{"id": id})
}

// MarkAllRead handles POST /notifications/read-all.
func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if err := h.repo.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.Internal(c, "failed to mark notifications read")
		return
	}
	response.NoContent(c)
}
