package columns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
)

// Repository persists column definitions and row-level custom cells.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columnColumns = `id, owner_id, target, name, data_type, options, default_value, scope, editable_by_others, created_at`

func scanColumn(row interface{ Scan(...any) error }) (*models.CustomColumn, error) {
	var c models.CustomColumn
	err := row.Scan(&c.ID, &c.OwnerID, &c.Target, &c.Name, &c.DataType, &c.Options,
		&c.DefaultValue, &c.Scope, &c.EditableByOthers, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create appends a new column definition. Definitions are never updated or
// deleted afterwards.
func (r *Repository) Create(ctx context.Context, c *models.CustomColumn) (*models.CustomColumn, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO custom_columns (owner_id, target, name, data_type, options, default_value, scope, editable_by_others)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+columnColumns,
		c.OwnerID, c.Target, c.Name, c.DataType, c.Options, c.DefaultValue, c.Scope, c.EditableByOthers)
	return scanColumn(row)
}

// GetByID fetches a single column definition.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomColumn, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columnColumns+` FROM custom_columns WHERE id = $1`, id)
	return scanColumn(row)
}

// ListVisible returns the definitions a user can see for a target: their own
// plus everything shared allAdmins.
func (r *Repository) ListVisible(ctx context.Context, target models.ColumnTarget, userID uuid.UUID) ([]models.CustomColumn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+columnColumns+`
		FROM custom_columns
		WHERE target = $1 AND (owner_id = $2 OR scope = $3)
		ORDER BY created_at ASC`,
		target, userID, models.ScopeAllAdmins)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CustomColumn
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// cellTable maps a column target to the table and key column holding its rows.
func cellTable(target models.ColumnTarget) (table string, err error) {
	switch target {
	case models.TargetParticipants, models.TargetStudents:
		return "event_registrations", nil
	case models.TargetTasks:
		return "tasks", nil
	}
	return "", fmt.Errorf("unknown column target %q", target)
}

// SetCell writes one custom cell on a row, merging into the existing
// custom_data map inside a transaction so concurrent writers to different
// columns do not clobber each other.
func (r *Repository) SetCell(ctx context.Context, target models.ColumnTarget, rowID, columnID uuid.UUID, value any) error {
	table, err := cellTable(target)
	if err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT COALESCE(custom_data, '{}'::jsonb) FROM `+table+` WHERE id = $1 FOR UPDATE`, rowID).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("row not found")
		}
		return err
	}

	data := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to decode custom data: %w", err)
		}
	}
	data[columnID.String()] = value

	merged, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode custom data: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE `+table+` SET custom_data = $1, updated_at = NOW() WHERE id = $2`, merged, rowID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
