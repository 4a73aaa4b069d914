package events

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/response"
)

// ContextEvent is the context key for the resolved event when staff access is enforced.
const ContextEvent = "event"

// RequireEventStaffAccess validates that the caller manages the event in :id.
// Call after JWT. Admins and overall heads always pass; organizers and event
// representatives pass only when listed on the event.
func RequireEventStaffAccess(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid event id")
			c.Abort()
			return
		}
		e, err := repo.GetByID(c.Request.Context(), eventID)
		if err != nil {
			response.NotFound(c, "event not found")
			c.Abort()
			return
		}
		role, _ := c.MustGet(middleware.ContextUserRole).(string)
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		if role != string(models.RoleAdmin) && role != string(models.RoleOverallHead) && !e.IsStaff(userID) {
			response.Forbidden(c, "not authorized for this event")
			c.Abort()
			return
		}
		c.Set(ContextEvent, e)
		c.Next()
	}
}
