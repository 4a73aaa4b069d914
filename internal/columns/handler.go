package columns

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/internal/registrations"
	"github.com/campus-events/backend/pkg/response"
)

// CreateColumnRequest is the body for POST /columns.
type CreateColumnRequest struct {
	Name             string   `json:"name" binding:"required"`
	DataType         string   `json:"data_type" binding:"required"`
	Target           string   `json:"target" binding:"required"`
	Options          []string `json:"options"`
	DefaultValue     string   `json:"default_value"`
	Scope            string   `json:"scope"`
	EditableByOthers bool     `json:"editable_by_others"`
}

// Handler handles custom column and filter endpoints.
type Handler struct {
	repo    *Repository
	regRepo *registrations.Repository
	logger  *zap.Logger
}

// NewHandler creates a columns handler.
func NewHandler(repo *Repository, regRepo *registrations.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, regRepo: regRepo, logger: logger}
}

// Create handles POST /columns (staff). Dropdown columns with no options
// are rejected before anything is written.
func (h *Handler) Create(c *gin.Context) {
	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := ValidateDefinition(req.Name, req.DataType, req.Target, req.Options); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	scope := models.ColumnScope(req.Scope)
	if scope != models.ScopeAllAdmins {
		scope = models.ScopeMeOnly
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	col, err := h.repo.Create(c.Request.Context(), &models.CustomColumn{
		OwnerID:          userID,
		Target:           models.ColumnTarget(req.Target),
		Name:             req.Name,
		DataType:         models.ColumnType(req.DataType),
		Options:          req.Options,
		DefaultValue:     req.DefaultValue,
		Scope:            scope,
		EditableByOthers: req.EditableByOthers,
	})
	if err != nil {
		h.logger.Error("create column failed", zap.Error(err))
		response.Internal(c, "failed to create column")
		return
	}
	response.Created(c, col)
}

// List handles GET /columns?target= (staff). Returns the caller's own
// definitions plus shared ones.
func (h *Handler) List(c *gin.Context) {
	target := c.Query("target")
	if !models.ValidColumnTarget(target) {
		response.BadRequest(c, "invalid target")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	cols, err := h.repo.ListVisible(c.Request.Context(), models.ColumnTarget(target), userID)
	if err != nil {
		response.Internal(c, "failed to list columns")
		return
	}
	response.OK(c, cols)
}

// SetCell handles PATCH /columns/:id/cells/:rowID (staff). Writes through a
// single custom cell; checkbox toggles and inline edits land here.
func (h *Handler) SetCell(c *gin.Context) {
	colID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid column id")
		return
	}
	rowID, err := uuid.Parse(c.Param("rowID"))
	if err != nil {
		response.BadRequest(c, "invalid row id")
		return
	}
	col, err := h.repo.GetByID(c.Request.Context(), colID)
	if err != nil {
		response.NotFound(c, "column not found")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	if !VisibleTo(col, userID, role) {
		response.Forbidden(c, "column not visible")
		return
	}
	if col.OwnerID != userID && !col.EditableByOthers {
		response.Forbidden(c, "column is not editable by others")
		return
	}

	var req struct {
		Value any `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	// validate against the definition before writing
	if req.Value != nil {
		if _, err := Parse(col, req.Value); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	if err := h.repo.SetCell(c.Request.Context(), col.Target, rowID, colID, req.Value); err != nil {
		h.logger.Error("set cell failed", zap.Error(err), zap.String("column_id", colID.String()))
		response.Internal(c, "failed to set cell")
		return
	}
	response.OK(c, gin.H{"column_id": colID, "row_id": rowID, "value": req.Value})
}

// FilterParticipants handles POST /events/:id/registrations/filter (event
// staff). Applies the active filter list and reports both filtered and total
// counts so clients can show "N of M".
func (h *Handler) FilterParticipants(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req struct {
		Filters []Filter `json:"filters"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	for _, f := range req.Filters {
		if !ValidOperator(string(f.Operator)) {
			response.BadRequest(c, "unknown operator "+string(f.Operator))
			return
		}
	}

	regs, err := h.regRepo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list registrations")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	defs, err := h.repo.ListVisible(c.Request.Context(), models.TargetParticipants, userID)
	if err != nil {
		response.Internal(c, "failed to list columns")
		return
	}

	rows := make([]Row, len(regs))
	for i := range regs {
		rows[i] = ParticipantRow(&regs[i])
	}
	filtered := Apply(regs, rows, req.Filters, defs)
	response.OKList(c, filtered, len(filtered), len(regs))
}

// ParticipantRow flattens a registration into its filterable view.
func ParticipantRow(reg *models.Registration) Row {
	custom := map[string]any{}
	if len(reg.CustomData) > 0 {
		_ = json.Unmarshal(reg.CustomData, &custom)
	}
	return Row{
		Fields: map[string]string{
			"name":      reg.ParticipantName,
			"email":     reg.ParticipantEmail,
			"school":    reg.ParticipantSchool,
			"status":    string(reg.Status),
			"presentee": strconv.FormatBool(reg.Presentee),
		},
		CustomData: custom,
	}
}
