package events

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/response"
	"github.com/campus-events/backend/pkg/storage"
)

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Slug               string   `json:"slug" binding:"required"`
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description"`
	IsTeamBased        bool     `json:"is_team_based"`
	MinTeamMembers     int      `json:"min_team_members"`
	MaxTeamMembers     int      `json:"max_team_members"`
	RegistrationFee    int      `json:"registration_fee"`
	Deadline           *string  `json:"deadline"`
	OrganizerUIDs      []string `json:"organizer_uids"`
	RepresentativeUIDs []string `json:"representative_uids"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates an event handler.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, logger: logger}
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseUUIDs(in []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(in))
	for _, s := range in {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Create handles POST /events (any staff role; the route is mounted behind
// the staff-only middleware).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var deadline *time.Time
	if req.Deadline != nil {
		t, err := parseTime(*req.Deadline)
		if err != nil {
			response.BadRequest(c, "invalid deadline")
			return
		}
		deadline = &t
	}
	minMembers, maxMembers := req.MinTeamMembers, req.MaxTeamMembers
	if minMembers <= 0 {
		minMembers = 1
	}
	if maxMembers < minMembers {
		maxMembers = minMembers
	}
	if req.IsTeamBased && maxMembers < 2 {
		response.BadRequest(c, "team-based event needs max_team_members >= 2")
		return
	}

	e := &models.Event{
		Slug:               req.Slug,
		Title:              req.Title,
		Description:        req.Description,
		IsTeamBased:        req.IsTeamBased,
		MinTeamMembers:     minMembers,
		MaxTeamMembers:     maxMembers,
		RegistrationFee:    req.RegistrationFee,
		Deadline:           deadline,
		Status:             models.EventPlanning,
		OrganizerUIDs:      parseUUIDs(req.OrganizerUIDs),
		RepresentativeUIDs: parseUUIDs(req.RepresentativeUIDs),
		CreatedBy:          userID,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("create event failed", zap.Error(err), zap.String("slug", req.Slug))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, e)
}

// List handles GET /events. Query ?status= filters; ?mine=1 returns events the caller staffs.
func (h *Handler) List(c *gin.Context) {
	if c.Query("mine") == "1" {
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		list, err := h.repo.ListForStaff(c.Request.Context(), userID)
		if err != nil {
			response.Internal(c, "failed to list events")
			return
		}
		response.OK(c, list)
		return
	}
	status := c.Query("status")
	if status != "" && !models.ValidEventStatus(status) {
		response.BadRequest(c, "invalid status")
		return
	}
	list, err := h.repo.List(c.Request.Context(), status)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /events/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// fall back to slug lookup for browse pages
		e, serr := h.repo.GetBySlug(c.Request.Context(), c.Param("id"))
		if serr != nil {
			response.NotFound(c, "event not found")
			return
		}
		response.OK(c, e)
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, e)
}

// Update handles PATCH /events/:id (event staff).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		Status          *string `json:"status"`
		RegistrationFee *int    `json:"registration_fee"`
		MinTeamMembers  *int    `json:"min_team_members"`
		MaxTeamMembers  *int    `json:"max_team_members"`
		Deadline        *string `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if req.Status != nil && !models.ValidEventStatus(*req.Status) {
		response.BadRequest(c, "invalid status")
		return
	}
	var deadline *time.Time
	if req.Deadline != nil {
		t, err := parseTime(*req.Deadline)
		if err != nil {
			response.BadRequest(c, "invalid deadline")
			return
		}
		deadline = &t
	}
	if err := h.repo.Update(c.Request.Context(), id, req.Title, req.Description, req.Status,
		req.RegistrationFee, req.MinTeamMembers, req.MaxTeamMembers, deadline); err != nil {
		response.Internal(c, "failed to update event")
		return
	}
	updated, _ := h.repo.GetByID(c.Request.Context(), id)
	response.OK(c, updated)
}

// SetStaff handles PUT /events/:id/staff (admin or overall head).
func (h *Handler) SetStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req struct {
		OrganizerUIDs      []string `json:"organizer_uids"`
		RepresentativeUIDs []string `json:"representative_uids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if err := h.repo.SetStaff(c.Request.Context(), id, parseUUIDs(req.OrganizerUIDs), parseUUIDs(req.RepresentativeUIDs)); err != nil {
		response.Internal(c, "failed to update event staff")
		return
	}
	updated, _ := h.repo.GetByID(c.Request.Context(), id)
	response.OK(c, updated)
}

// UploadImage handles POST /events/:id/image (event staff). Stores to S3 under event_images/{slug}/.
func (h *Handler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
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

	key := storage.EventImageKey(e.Slug, header.Filename)
	url, err := h.s3.Upload(c.Request.Context(), key, contentType, file, header.Size)
	if err != nil {
		h.logger.Error("event image upload failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to upload image")
		return
	}
	if err := h.repo.SetImageURL(c.Request.Context(), id, url); err != nil {
		response.Internal(c, "failed to save image url")
		return
	}
	response.OK(c, gin.H{"image_url": url})
}

// Delete handles DELETE /events/:id (admin only; destructive).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}
