package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
)

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `id, slug, title, description, is_team_based, min_team_members, max_team_members,
	registration_fee, deadline, status, organizer_uids, representative_uids, registered_count,
	image_url, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Slug, &e.Title, &e.Description, &e.IsTeamBased, &e.MinTeamMembers,
		&e.MaxTeamMembers, &e.RegistrationFee, &e.Deadline, &e.Status, &e.OrganizerUIDs,
		&e.RepresentativeUIDs, &e.RegisteredCount, &e.ImageURL, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (id, slug, title, description, is_team_based, min_team_members, max_team_members,
			registration_fee, deadline, status, organizer_uids, representative_uids, image_url, created_by)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, registered_count, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Slug, e.Title, e.Description, e.IsTeamBased, e.MinTeamMembers,
		e.MaxTeamMembers, e.RegistrationFee, e.Deadline, e.Status, e.OrganizerUIDs,
		e.RepresentativeUIDs, e.ImageURL, e.CreatedBy).
		Scan(&e.ID, &e.RegisteredCount, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.pool.QueryRow(ctx, q, id))
}

// GetBySlug returns an event by slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`
	return scanEvent(r.pool.QueryRow(ctx, q, slug))
}

// List returns all events, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string) ([]models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events`
	var args []interface{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// ListForStaff returns events where the user appears in the organizer or representative lists.
func (r *Repository) ListForStaff(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events
		WHERE $1 = ANY(organizer_uids) OR $1 = ANY(representative_uids)
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Update updates mutable event fields. Nil pointers leave the current value.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, title, description *string, status *string,
	fee, minMembers, maxMembers *int, deadline *time.Time) error {
	const q = `UPDATE events SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			status = COALESCE($3, status),
			registration_fee = COALESCE($4, registration_fee),
			min_team_members = COALESCE($5, min_team_members),
			max_team_members = COALESCE($6, max_team_members),
			deadline = COALESCE($7, deadline),
			updated_at = NOW()
		WHERE id = $8`
	_, err := r.pool.Exec(ctx, q, title, description, status, fee, minMembers, maxMembers, deadline, id)
	return err
}

// SetStaff replaces the organizer and representative UID lists.
func (r *Repository) SetStaff(ctx context.Context, id uuid.UUID, organizers, representatives []uuid.UUID) error {
	const q = `UPDATE events SET organizer_uids = $1, representative_uids = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.pool.Exec(ctx, q, organizers, representatives, id)
	return err
}

// SetImageURL updates the event image URL.
func (r *Repository) SetImageURL(ctx context.Context, id uuid.UUID, url string) error {
	const q = `UPDATE events SET image_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, url, id)
	return err
}

// Delete removes an event. Explicit destructive action; registrations and teams cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM events WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
