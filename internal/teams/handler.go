package teams

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/auth"
	"github.com/campus-events/backend/internal/events"
	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/internal/realtime"
	"github.com/campus-events/backend/internal/registrations"
	"github.com/campus-events/backend/pkg/queue"
	"github.com/campus-events/backend/pkg/response"
)

// CreateTeamRequest is the body for POST /events/:id/teams.
type CreateTeamRequest struct {
	Name            string `json:"name" binding:"required"`
	FeeAcknowledged bool   `json:"fee_acknowledged"`
}

// Handler handles team HTTP endpoints.
type Handler struct {
	repo      *Repository
	eventRepo *events.Repository
	userRepo  *auth.Repository
	regRepo   *registrations.Repository
	hub       *realtime.Hub
	jobs      *queue.Queue
	logger    *zap.Logger
}

// NewHandler creates a teams handler.
func NewHandler(repo *Repository, eventRepo *events.Repository, userRepo *auth.Repository,
	regRepo *registrations.Repository, hub *realtime.Hub, jobs *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, eventRepo: eventRepo, userRepo: userRepo, regRepo: regRepo,
		hub: hub, jobs: jobs, logger: logger}
}

// Create handles POST /events/:id/teams. The creator becomes leader and is
// registered atomically with the team row.
func (h *Handler) Create(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.eventRepo.GetByID(c.Request.Context(), eventID)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)

	if err := registrations.ValidateTeamCreate(e, role, req.FeeAcknowledged, time.Now()); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	existing, err := h.regRepo.GetByEventAndUser(c.Request.Context(), eventID, userID)
	if err != nil {
		response.Internal(c, "failed to check registration")
		return
	}
	if existing != nil {
		response.Conflict(c, registrations.ErrAlreadyRegistered.Error())
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}

	team, reg, err := h.repo.CreateWithLeader(c.Request.Context(), eventID, userID, req.Name, registrations.SnapshotOf(user))
	if err != nil {
		h.logger.Error("create team failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to create team")
		return
	}

	h.hub.Publish(realtime.EventTopic(eventID), "team_created", team)
	response.Created(c, gin.H{
		"team":         team,
		"registration": reg,
		"state":        registrations.StateTeamLeader,
	})
}

// Search handles GET /events/:id/teams?search=prefix. Only teams the caller
// can still join are returned: open slots, caller not already a member.
func (h *Handler) Search(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	prefix := c.Query("search")
	list, err := h.repo.Search(c.Request.Context(), eventID, userID, prefix)
	if err != nil {
		response.Internal(c, "failed to search teams")
		return
	}
	response.OK(c, list)
}

// ListByEvent handles GET /events/:id/teams/all (event staff).
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	list, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list teams")
		return
	}
	response.OKList(c, list, len(list), len(list))
}

// Get handles GET /teams/:id.
func (h *Handler) Get(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid team id")
		return
	}
	team, err := h.repo.GetByID(c.Request.Context(), teamID)
	if err != nil {
		response.NotFound(c, "team not found")
		return
	}
	response.OK(c, team)
}

// Join handles POST /teams/:id/join. Capacity is rechecked under a row lock
// inside the repository so concurrent joins cannot overfill a team.
func (h *Handler) Join(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid team id")
		return
	}
	team, err := h.repo.GetByID(c.Request.Context(), teamID)
	if err != nil {
		response.NotFound(c, "team not found")
		return
	}
	e, err := h.eventRepo.GetByID(c.Request.Context(), team.EventID)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}

	var req struct {
		FeeAcknowledged bool `json:"fee_acknowledged"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)

	if err := registrations.ValidateTeamCreate(e, role, req.FeeAcknowledged, time.Now()); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	existing, err := h.regRepo.GetByEventAndUser(c.Request.Context(), team.EventID, userID)
	if err != nil {
		response.Internal(c, "failed to check registration")
		return
	}
	if existing != nil {
		response.Conflict(c, registrations.ErrAlreadyRegistered.Error())
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}

	joined, reg, err := h.repo.Join(c.Request.Context(), teamID, userID, e, registrations.SnapshotOf(user))
	if err != nil {
		switch {
		case errors.Is(err, ErrTeamFull):
			response.Conflict(c, err.Error())
		case errors.Is(err, ErrAlreadyMember):
			response.Conflict(c, err.Error())
		default:
			h.logger.Error("team join failed", zap.Error(err), zap.String("team_id", teamID.String()))
			response.Internal(c, "failed to join team")
		}
		return
	}

	h.hub.Publish(realtime.EventTopic(team.EventID), "team_updated", joined)
	if h.jobs != nil {
		if err := h.jobs.EnqueueNotification(c.Request.Context(), queue.NotificationPayload{
			UserID: joined.LeaderID,
			Kind:   models.NotifyTeamJoin,
			Title:  "New team member",
			Body:   user.FullName + " joined your team " + joined.Name + ".",
		}); err != nil {
			h.logger.Warn("enqueue notification failed", zap.Error(err))
		}
	}
	response.Created(c, gin.H{
		"team":         joined,
		"registration": reg,
		"state":        registrations.StateTeamMember,
	})
}
