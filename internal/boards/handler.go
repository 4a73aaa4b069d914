package boards

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/middleware"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/internal/realtime"
	"github.com/campus-events/backend/pkg/queue"
	"github.com/campus-events/backend/pkg/response"
)

// CreateBoardRequest is the body for POST /boards.
type CreateBoardRequest struct {
	Name      string   `json:"name" binding:"required"`
	BoardType string   `json:"board_type"`
	EventID   string   `json:"event_id"`
	Members   []string `json:"member_uids"`
}

// CreateTaskRequest is the body for POST /boards/:id/tasks.
type CreateTaskRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	Priority    string           `json:"priority"`
	AssignedTo  []string         `json:"assigned_to"`
	DueDate     *time.Time       `json:"due_date"`
	Subtasks    []models.Subtask `json:"subtasks"`
}

// Handler handles board and task HTTP endpoints.
type Handler struct {
	repo   *Repository
	hub    *realtime.Hub
	jobs   *queue.Queue
	logger *zap.Logger
}

// NewHandler creates a boards handler.
func NewHandler(repo *Repository, hub *realtime.Hub, jobs *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, hub: hub, jobs: jobs, logger: logger}
}

// requireBoardMember loads the board and checks membership. Writes the error
// response itself and returns nil when access is denied.
func (h *Handler) requireBoardMember(c *gin.Context, boardID uuid.UUID) *models.Board {
	board, err := h.repo.GetBoard(c.Request.Context(), boardID)
	if err != nil {
		response.NotFound(c, "board not found")
		return nil
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	if models.Role(role) == models.RoleAdmin || models.Role(role) == models.RoleOverallHead {
		return board
	}
	if !board.HasMember(userID) {
		response.Forbidden(c, ErrNotBoardMember.Error())
		return nil
	}
	return board
}

// CreateBoard handles POST /boards (staff).
func (h *Handler) CreateBoard(c *gin.Context) {
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	boardType := models.BoardType(req.BoardType)
	if boardType != models.BoardEvent {
		boardType = models.BoardGeneral
	}
	var eventID *uuid.UUID
	if boardType == models.BoardEvent {
		id, err := uuid.Parse(req.EventID)
		if err != nil {
			response.BadRequest(c, "event board requires a valid event_id")
			return
		}
		eventID = &id
	}
	members, err := parseUUIDs(req.Members)
	if err != nil {
		response.BadRequest(c, "invalid member id: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	board, err := h.repo.CreateBoard(c.Request.Context(), &models.Board{
		Name:       req.Name,
		Type:       boardType,
		EventID:    eventID,
		MemberUIDs: members,
		CreatedBy:  userID,
	})
	if err != nil {
		h.logger.Error("create board failed", zap.Error(err))
		response.Internal(c, "failed to create board")
		return
	}
	response.Created(c, board)
}

// ListBoards handles GET /boards (staff). Returns the caller's boards.
func (h *Handler) ListBoards(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	boards, err := h.repo.ListBoardsForUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list boards")
		return
	}
	response.OK(c, boards)
}

// GetBoard handles GET /boards/:id. Returns the board with its tasks grouped
// into kanban columns.
func (h *Handler) GetBoard(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid board id")
		return
	}
	board := h.requireBoardMember(c, boardID)
	if board == nil {
		return
	}
	tasks, err := h.repo.ListTasks(c.Request.Context(), boardID)
	if err != nil {
		response.Internal(c, "failed to list tasks")
		return
	}
	response.OK(c, gin.H{
		"board":   board,
		"tasks":   tasks,
		"columns": GroupByStatus(tasks),
	})
}

// SetMembers handles PUT /boards/:id/members (board members).
func (h *Handler) SetMembers(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid board id")
		return
	}
	board := h.requireBoardMember(c, boardID)
	if board == nil {
		return
	}
	var req struct {
		Members []string `json:"member_uids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	members, err := parseUUIDs(req.Members)
	if err != nil {
		response.BadRequest(c, "invalid member id: "+err.Error())
		return
	}
	updated, err := h.repo.SetBoardMembers(c.Request.Context(), boardID, members)
	if err != nil {
		response.Internal(c, "failed to update members")
		return
	}
	h.hub.Publish(realtime.BoardTopic(boardID), "board_updated", updated)
	response.OK(c, updated)
}

// DeleteBoard handles DELETE /boards/:id (creator or admin).
func (h *Handler) DeleteBoard(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid board id")
		return
	}
	board, err := h.repo.GetBoard(c.Request.Context(), boardID)
	if err != nil {
		response.NotFound(c, "board not found")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	if board.CreatedBy != userID && models.Role(role) != models.RoleAdmin {
		response.Forbidden(c, "only the board creator may delete it")
		return
	}
	if err := h.repo.DeleteBoard(c.Request.Context(), boardID); err != nil {
		response.Internal(c, "failed to delete board")
		return
	}
	response.NoContent(c)
}

// CreateTask handles POST /boards/:id/tasks (board members).
func (h *Handler) CreateTask(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid board id")
		return
	}
	board := h.requireBoardMember(c, boardID)
	if board == nil {
		return
	}
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status := models.TaskStatus(req.Status)
	if req.Status == "" {
		status = models.TaskNotStarted
	} else if !models.ValidTaskStatus(req.Status) {
		response.BadRequest(c, ErrUnknownStatus.Error())
		return
	}
	priority := models.TaskPriority(req.Priority)
	if req.Priority == "" {
		priority = models.PriorityMedium
	} else if !models.ValidTaskPriority(req.Priority) {
		response.BadRequest(c, "unknown priority")
		return
	}
	assigned, err := parseUUIDs(req.AssignedTo)
	if err != nil {
		response.BadRequest(c, "invalid assignee id: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	task, err := h.repo.CreateTask(c.Request.Context(), &models.Task{
		BoardID:     boardID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		AssignedTo:  assigned,
		DueDate:     req.DueDate,
		Subtasks:    req.Subtasks,
		CreatedBy:   userID,
	})
	if err != nil {
		h.logger.Error("create task failed", zap.Error(err), zap.String("board_id", boardID.String()))
		response.Internal(c, "failed to create task")
		return
	}

	h.hub.Publish(realtime.BoardTopic(boardID), "task_created", task)
	h.notifyAssignees(c, task, userID)
	response.Created(c, task)
}

// UpdateTask handles PATCH /boards/:id/tasks/:tid (board members).
func (h *Handler) UpdateTask(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid board id")
		return
	}
	taskID, err := uuid.Parse(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}
	if h.requireBoardMember(c, boardID) == nil {
		return
	}
	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Priority    *string    `json:"priority"`
		AssignedTo  []string   `json:"assigned_to"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Priority != nil && !models.ValidTaskPriority(*req.Priority) {
		response.BadRequest(c, "unknown priority")
		return
	}
	var assigned []uuid.UUID
	if req.AssignedTo != nil {
		assigned, err = parseUUIDs(req.AssignedTo)
		if err != nil {
			response.BadRequest(c, "invalid assignee id: "+err.Error())
			return
		}
	}
	before, err := h.repo.GetTask(c.Request.Context(), taskID)
	if err != nil {
		response.NotFound(c, "task not found")
		return
	}
	task, err := h.repo.UpdateTask(c.Request.Context(), taskID, req.Title, req.Description, req.Priority, assigned, req.DueDate)
	if err != nil {
		response.Internal(c, "failed to update task")
		return
	}

	h.hub.Publish(realtime.BoardTopic(boardID), "task_updated", task)
	if req.AssignedTo != nil {
		h.notifyNewAssignees(c, before, task)
	}
	response.OK(c, task)
}

// MoveTask handles PATCH /boards/:id/tasks/:tid/move. Only the status column
// changes; a move to the current column is a no-op.
func (h *Handler) MoveTask(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid board id")
		return
	}
	taskID, err := uuid.Parse(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}
	if h.requireBoardMember(c, boardID) == nil {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	task, err := h.repo.GetTask(c.Request.Context(), taskID)
	if err != nil {
		response.NotFound(c, "task not found")
		return
	}
	changed, err := ValidateMove(task, req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !changed {
		response.OK(c, task)
		return
	}
	moved, err := h.repo.MoveTask(c.Request.Context(), taskID, models.TaskStatus(req.Status))
	if err != nil {
		response.Internal(c, "failed to move task")
		return
	}
	h.hub.Publish(realtime.BoardTopic(boardID), "task_moved", moved)
	response.OK(c, moved)
}

// ToggleSubtask handles PATCH /boards/:id/tasks/:tid/subtasks/:sid/toggle.
func (h *Handler) ToggleSubtask(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid board id")
		return
	}
	taskID, err := uuid.Parse(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}
	if h.requireBoardMember(c, boardID) == nil {
		return
	}
	task, err := h.repo.GetTask(c.Request.Context(), taskID)
	if err != nil {
		response.NotFound(c, "task not found")
		return
	}
	if !ToggleSubtask(task, c.Param("sid")) {
		response.NotFound(c, "subtask not found")
		return
	}
	updated, err := h.repo.SetSubtasks(c.Request.Context(), taskID, task.Subtasks)
	if err != nil {
		response.Internal(c, "failed to update subtasks")
		return
	}
	h.hub.Publish(realtime.BoardTopic(boardID), "task_updated", updated)
	response.OK(c, updated)
}

// DeleteTask handles DELETE /boards/:id/tasks/:tid (board members).
func (h *Handler) DeleteTask(c *gin.Context) {
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid board id")
		return
	}
	taskID, err := uuid.Parse(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}
	if h.requireBoardMember(c, boardID) == nil {
		return
	}
	if err := h.repo.DeleteTask(c.Request.Context(), taskID); err != nil {
		response.Internal(c, "failed to delete task")
		return
	}
	h.hub.Publish(realtime.BoardTopic(boardID), "task_deleted", gin.H{"id": taskID})
	response.NoContent(c)
}

// notifyAssignees queues a task_assigned notification for every assignee
// except the actor.
func (h *Handler) notifyAssignees(c *gin.Context, task *models.Task, actor uuid.UUID) {
	if h.jobs == nil {
		return
	}
	for _, uid := range task.AssignedTo {
		if uid == actor {
			continue
		}
		if err := h.jobs.EnqueueNotification(c.Request.Context(), queue.NotificationPayload{
			UserID: uid,
			Kind:   models.NotifyTaskAssigned,
			Title:  "Task assigned",
			Body:   "You were assigned to " + task.Title + ".",
		}); err != nil {
			h.logger.Warn("enqueue notification failed", zap.Error(err))
		}
	}
}

// notifyNewAssignees notifies only users added by an assignee update.
func (h *Handler) notifyNewAssignees(c *gin.Context, before, after *models.Task) {
	if h.jobs == nil {
		return
	}
	prev := make(map[uuid.UUID]bool, len(before.AssignedTo))
	for _, uid := range before.AssignedTo {
		prev[uid] = true
	}
	actor := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	for _, uid := range after.AssignedTo {
		if prev[uid] || uid == actor {
			continue
		}
		if err := h.jobs.EnqueueNotification(c.Request.Context(), queue.NotificationPayload{
			UserID: uid,
			Kind:   models.NotifyTaskAssigned,
			Title:  "Task assigned",
			Body:   "You were assigned to " + after.Title + ".",
		}); err != nil {
			h.logger.Warn("enqueue notification failed", zap.Error(err))
		}
	}
}

func parseUUIDs(in []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(in))
	for _, s := range in {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errors.New(s)
		}
		out = append(out, id)
	}
	return out, nil
}
