package registrations

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/auth"
	"github.com/campus-events/backend/internal/events"
	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/internal/realtime"
	"github.com/campus-events/backend/pkg/queue"
	"github.com/campus-events/backend/pkg/response"
	"github.com/campus-events/backend/pkg/storage"
)

// TeamGetter resolves team rows for state resolution without importing the teams package.
type TeamGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
}

// RegisterRequest is the body for POST /events/:id/register.
// FeeAcknowledged must be true for events with a non-zero registration fee;
// clients set it after the payment-acknowledgement dialog is confirmed.
type RegisterRequest struct {
	FeeAcknowledged bool `json:"fee_acknowledged"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	repo      *Repository
	eventRepo *events.Repository
	userRepo  *auth.Repository
	teamRepo  TeamGetter
	hub       *realtime.Hub
	jobs      *queue.Queue
	s3        *storage.S3
	logger    *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(repo *Repository, eventRepo *events.Repository, userRepo *auth.Repository,
	teamRepo TeamGetter, hub *realtime.Hub, jobs *queue.Queue, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, eventRepo: eventRepo, userRepo: userRepo, teamRepo: teamRepo,
		hub: hub, jobs: jobs, s3: s3, logger: logger}
}

// Status handles GET /events/:id/registration-status. Returns the resolved
// state plus the registration and team rows when present.
func (h *Handler) Status(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	reg, err := h.repo.GetByEventAndUser(c.Request.Context(), eventID, userID)
	if err != nil {
		response.Internal(c, "failed to resolve registration")
		return
	}
	var team *models.Team
	if reg != nil && reg.IsTeamRegistration && reg.TeamID != nil {
		team, _ = h.teamRepo.GetByID(c.Request.Context(), *reg.TeamID)
	}
	state := ResolveState(reg, team, userID)
	response.OK(c, gin.H{
		"state":        state,
		"registration": reg,
		"team":         team,
	})
}

// Register handles POST /events/:id/register (students; individual events only).
func (h *Handler) Register(c *gin.Context) {
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

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)

	if err := ValidateIndividual(e, role, req.FeeAcknowledged, time.Now()); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	existing, err := h.repo.GetByEventAndUser(c.Request.Context(), eventID, userID)
	if err != nil {
		response.Internal(c, "failed to check registration")
		return
	}
	if existing != nil {
		response.Conflict(c, ErrAlreadyRegistered.Error())
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}

	reg, err := h.repo.CreateIndividual(c.Request.Context(), eventID, userID, SnapshotOf(user))
	if err != nil {
		h.logger.Error("create registration failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to register")
		return
	}

	h.hub.Publish(realtime.EventTopic(eventID), "registration_created", reg)
	response.Created(c, gin.H{
		"registration": reg,
		"state":        StateIndividual,
	})
}

// ListByEvent handles GET /events/:id/registrations (event staff).
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	list, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list registrations")
		return
	}
	response.OKList(c, list, len(list), len(list))
}

// ListMine handles GET /registrations (any signed-in user).
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list registrations")
		return
	}
	response.OK(c, list)
}

// UpdateStatus handles PATCH /events/:id/registrations/:rid/status (event staff).
// Notifies the participant through the dispatch queue.
func (h *Handler) UpdateStatus(c *gin.Context) {
	regID, err := uuid.Parse(c.Param("rid"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidRegistrationStatus(req.Status) {
		response.BadRequest(c, "invalid status")
		return
	}
	reg, err := h.repo.GetByID(c.Request.Context(), regID)
	if err != nil {
		response.NotFound(c, "registration not found")
		return
	}
	if err := h.repo.UpdateStatus(c.Request.Context(), regID, models.RegistrationStatus(req.Status)); err != nil {
		response.Internal(c, "failed to update status")
		return
	}
	updated, _ := h.repo.GetByID(c.Request.Context(), regID)

	h.hub.Publish(realtime.EventTopic(reg.EventID), "registration_updated", updated)
	if h.jobs != nil {
		if err := h.jobs.EnqueueNotification(c.Request.Context(), queue.NotificationPayload{
			UserID: reg.UserID,
			Kind:   models.NotifyRegistrationStatus,
			Title:  "Registration " + req.Status,
			Body:   "Your registration status changed to " + req.Status + ".",
		}); err != nil {
			h.logger.Warn("enqueue notification failed", zap.Error(err))
		}
	}
	response.OK(c, updated)
}

// SetPresentee handles PATCH /events/:id/registrations/:rid/presentee (event staff).
func (h *Handler) SetPresentee(c *gin.Context) {
	regID, err := uuid.Parse(c.Param("rid"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return
	}
	var req struct {
		Presentee *bool `json:"presentee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.SetPresentee(c.Request.Context(), regID, *req.Presentee); err != nil {
		response.Internal(c, "failed to update presentee")
		return
	}
	updated, err := h.repo.GetByID(c.Request.Context(), regID)
	if err != nil {
		response.NotFound(c, "registration not found")
		return
	}
	h.hub.Publish(realtime.EventTopic(updated.EventID), "registration_updated", updated)
	response.OK(c, updated)
}

// UploadAdmitCard handles POST /events/:id/registrations/:rid/admit-card (event staff).
// Stores to S3 under admit_cards/{event_id}/{uid}_{filename}.
func (h *Handler) UploadAdmitCard(c *gin.Context) {
	regID, err := uuid.Parse(c.Param("rid"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return
	}
	reg, err := h.repo.GetByID(c.Request.Context(), regID)
	if err != nil {
		response.NotFound(c, "registration not found")
		return
	}
	if h.s3 == nil {
		response.Internal(c, "file storage not configured")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file required")
		return
	}
	defer file.Close()
	if header.Size > storage.MaxImageFileSize {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidateImageFileType(contentType) {
		response.BadRequest(c, "unsupported file type")
		return
	}

	key := storage.AdmitCardKey(reg.EventID.String(), reg.UserID.String(), header.Filename)
	url, err := h.s3.Upload(c.Request.Context(), key, contentType, file, header.Size)
	if err != nil {
		h.logger.Error("admit card upload failed", zap.Error(err), zap.String("registration_id", regID.String()))
		response.Internal(c, "failed to upload admit card")
		return
	}
	if err := h.repo.SetAdmitCardURL(c.Request.Context(), regID, url); err != nil {
		response.Internal(c, "failed to save admit card url")
		return
	}
	response.OK(c, gin.H{"admit_card_url": url})
}
