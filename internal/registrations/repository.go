package registrations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
)

// Repository handles registration persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const regColumns = `id, event_id, user_id, is_team_registration, team_id, status, presentee,
	admit_card_url, participant_name, participant_email, participant_school, custom_data, created_at, updated_at`

func scanRegistration(row interface{ Scan(...any) error }) (*models.Registration, error) {
	var reg models.Registration
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.IsTeamRegistration, &reg.TeamID,
		&reg.Status, &reg.Presentee, &reg.AdmitCardURL, &reg.ParticipantName, &reg.ParticipantEmail,
		&reg.ParticipantSchool, &reg.CustomData, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// CreateIndividual inserts a pending individual registration and increments the
// event's registered counter in the same transaction.
func (r *Repository) CreateIndividual(ctx context.Context, eventID, userID uuid.UUID, snap Snapshot) (*models.Registration, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `INSERT INTO event_registrations
			(id, event_id, user_id, is_team_registration, participant_name, participant_email, participant_school)
		VALUES (gen_random_uuid(), $1, $2, FALSE, $3, $4, $5)
		RETURNING ` + regColumns
	reg, err := scanRegistration(tx.QueryRow(ctx, insert, eventID, userID, snap.Name, snap.Email, snap.School))
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	const bump = `UPDATE events SET registered_count = registered_count + 1, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, bump, eventID); err != nil {
		return nil, fmt.Errorf("increment registered count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return reg, nil
}

// GetByEventAndUser returns the registration for (event, user) or nil when none exists.
func (r *Repository) GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*models.Registration, error) {
	const q = `SELECT ` + regColumns + ` FROM event_registrations WHERE event_id = $1 AND user_id = $2`
	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, eventID, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// GetByID returns a registration by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	const q = `SELECT ` + regColumns + ` FROM event_registrations WHERE id = $1`
	return scanRegistration(r.pool.QueryRow(ctx, q, id))
}

// ListByEvent returns all registrations for an event, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error) {
	const q = `SELECT ` + regColumns + ` FROM event_registrations WHERE event_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *reg)
	}
	return list, rows.Err()
}

// ListByUser returns a user's registrations across events.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error) {
	const q = `SELECT ` + regColumns + ` FROM event_registrations WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *reg)
	}
	return list, rows.Err()
}

// UpdateStatus sets the registration status. The participant snapshot fields are never touched.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RegistrationStatus) error {
	const q = `UPDATE event_registrations SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, status, id)
	return err
}

// SetPresentee toggles the presentee flag.
func (r *Repository) SetPresentee(ctx context.Context, id uuid.UUID, presentee bool) error {
	const q = `UPDATE event_registrations SET presentee = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, presentee, id)
	return err
}

// SetAdmitCardURL stores the uploaded admit card URL.
func (r *Repository) SetAdmitCardURL(ctx context.Context, id uuid.UUID, url string) error {
	const q = `UPDATE event_registrations SET admit_card_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, q, url, id)
	return err
}
