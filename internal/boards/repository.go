package boards

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
)

// Repository persists boards and tasks.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const boardColumns = `id, name, board_type, event_id, member_uids, created_by, created_at, updated_at`

func scanBoard(row interface{ Scan(...any) error }) (*models.Board, error) {
	var b models.Board
	err := row.Scan(&b.ID, &b.Name, &b.Type, &b.EventID, &b.MemberUIDs, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBoard inserts a board; the creator is always part of the member list.
func (r *Repository) CreateBoard(ctx context.Context, b *models.Board) (*models.Board, error) {
	members := b.MemberUIDs
	found := false
	for _, id := range members {
		if id == b.CreatedBy {
			found = true
			break
		}
	}
	if !found {
		members = append(members, b.CreatedBy)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO boards (name, board_type, event_id, member_uids, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+boardColumns,
		b.Name, b.Type, b.EventID, members, b.CreatedBy)
	return scanBoard(row)
}

// GetBoard fetches a single board.
func (r *Repository) GetBoard(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = $1`, id)
	return scanBoard(row)
}

// ListBoardsForUser returns boards the user is a member of.
func (r *Repository) ListBoardsForUser(ctx context.Context, userID uuid.UUID) ([]models.Board, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+boardColumns+` FROM boards
		WHERE $1 = ANY(member_uids)
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// SetBoardMembers replaces the member list.
func (r *Repository) SetBoardMembers(ctx context.Context, id uuid.UUID, members []uuid.UUID) (*models.Board, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE boards SET member_uids = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+boardColumns, members, id)
	return scanBoard(row)
}

// DeleteBoard removes a board and, via cascade, its tasks.
func (r *Repository) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	return err
}

const taskColumns = `id, board_id, title, description, status, priority, assigned_to, due_date, subtasks, custom_data, created_by, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	var subtasks []byte
	err := row.Scan(&t.ID, &t.BoardID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.AssignedTo, &t.DueDate, &subtasks, &t.CustomData, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(subtasks) > 0 {
		if err := json.Unmarshal(subtasks, &t.Subtasks); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// CreateTask inserts a task on a board.
func (r *Repository) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	subtasks, err := json.Marshal(t.Subtasks)
	if err != nil {
		return nil, err
	}
	if t.Subtasks == nil {
		subtasks = []byte(`[]`)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (board_id, title, description, status, priority, assigned_to, due_date, subtasks, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+taskColumns,
		t.BoardID, t.Title, t.Description, t.Status, t.Priority, t.AssignedTo, t.DueDate, subtasks, t.CreatedBy)
	return scanTask(row)
}

// GetTask fetches a single task.
func (r *Repository) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// ListTasks returns all tasks on a board, oldest first.
func (r *Repository) ListTasks(ctx context.Context, boardID uuid.UUID) ([]models.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE board_id = $1
		ORDER BY created_at ASC`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// UpdateTask patches the editable fields of a task. Nil fields are left as-is.
func (r *Repository) UpdateTask(ctx context.Context, id uuid.UUID, title, description, priority *string,
	assignedTo []uuid.UUID, dueDate *time.Time) (*models.Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks SET
			title       = COALESCE($1, title),
			description = COALESCE($2, description),
			priority    = COALESCE($3, priority),
			assigned_to = COALESCE($4, assigned_to),
			due_date    = COALESCE($5, due_date),
			updated_at  = NOW()
		WHERE id = $6
		RETURNING `+taskColumns,
		title, description, priority, assignedTo, dueDate, id)
	return scanTask(row)
}

// MoveTask sets only the status column of one task.
func (r *Repository) MoveTask(ctx context.Context, id uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+taskColumns, status, id)
	return scanTask(row)
}

// SetSubtasks replaces the subtask list of a task.
func (r *Repository) SetSubtasks(ctx context.Context, id uuid.UUID, subtasks []models.Subtask) (*models.Task, error) {
	if subtasks == nil {
		subtasks = []models.Subtask{}
	}
	raw, err := json.Marshal(subtasks)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks SET subtasks = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+taskColumns, raw, id)
	return scanTask(row)
}

// DeleteTask removes a task.
func (r *Repository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}
