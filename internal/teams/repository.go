package teams

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/internal/registrations"
)

// Repository handles team persistence. Team membership writes run inside a
// single transaction with a row lock so team_size always equals
// len(member_uids) and a full team can never be joined.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a teams repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const teamColumns = `id, event_id, name, leader_id, member_uids, team_size, status, created_at`

func scanTeam(row interface{ Scan(...any) error }) (*models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.EventID, &t.Name, &t.LeaderID, &t.MemberUIDs, &t.TeamSize, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID returns a team by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	const q = `SELECT ` + teamColumns + ` FROM event_teams WHERE id = $1`
	return scanTeam(r.pool.QueryRow(ctx, q, id))
}

// Search returns teams in an event whose name starts with prefix, excluding
// teams the user is already on and teams at the event's maximum size.
func (r *Repository) Search(ctx context.Context, eventID, userID uuid.UUID, prefix string) ([]models.Team, error) {
	const q = `SELECT t.id, t.event_id, t.name, t.leader_id, t.member_uids, t.team_size, t.status, t.created_at
		FROM event_teams t
		JOIN events e ON e.id = t.event_id
		WHERE t.event_id = $1
		  AND t.name ILIKE $2 || '%'
		  AND NOT ($3 = ANY(t.member_uids))
		  AND t.team_size < e.max_team_members
		ORDER BY t.name`
	rows, err := r.pool.Query(ctx, q, eventID, prefix, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// ListByEvent returns all teams for an event.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Team, error) {
	const q = `SELECT ` + teamColumns + ` FROM event_teams WHERE event_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// CreateWithLeader creates a team with the creator as sole member and leader,
// plus the leader's pending team registration and the event counter bump, all
// in one transaction. Either everything lands or nothing does; no orphan teams.
func (r *Repository) CreateWithLeader(ctx context.Context, eventID, leaderID uuid.UUID, name string, snap registrations.Snapshot) (*models.Team, *models.Registration, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertTeam = `INSERT INTO event_teams (id, event_id, name, leader_id, member_uids, team_size)
		VALUES (gen_random_uuid(), $1, $2, $3, ARRAY[$3]::uuid[], 1)
		RETURNING ` + teamColumns
	team, err := scanTeam(tx.QueryRow(ctx, insertTeam, eventID, name, leaderID))
	if err != nil {
		return nil, nil, fmt.Errorf("insert team: %w", err)
	}

	reg, err := insertTeamRegistration(ctx, tx, eventID, leaderID, team.ID, snap)
	if err != nil {
		return nil, nil, err
	}

	if err := bumpRegisteredCount(ctx, tx, eventID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return team, reg, nil
}

// Join adds a user to a team: locks the team row, re-checks capacity and
// membership, appends the member, increments team_size, writes the user's
// registration and bumps the event counter. Returns the updated team and the
// new registration.
func (r *Repository) Join(ctx context.Context, teamID, userID uuid.UUID, event *models.Event, snap registrations.Snapshot) (*models.Team, *models.Registration, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const lock = `SELECT ` + teamColumns + ` FROM event_teams WHERE id = $1 FOR UPDATE`
	team, err := scanTeam(tx.QueryRow(ctx, lock, teamID))
	if err != nil {
		return nil, nil, fmt.Errorf("lock team: %w", err)
	}
	if err := CanJoin(team, event, userID); err != nil {
		return nil, nil, err
	}

	const update = `UPDATE event_teams
		SET member_uids = array_append(member_uids, $1), team_size = team_size + 1
		WHERE id = $2
		RETURNING ` + teamColumns
	team, err = scanTeam(tx.QueryRow(ctx, update, userID, teamID))
	if err != nil {
		return nil, nil, fmt.Errorf("append member: %w", err)
	}

	reg, err := insertTeamRegistration(ctx, tx, team.EventID, userID, teamID, snap)
	if err != nil {
		return nil, nil, err
	}

	if err := bumpRegisteredCount(ctx, tx, team.EventID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return team, reg, nil
}

func insertTeamRegistration(ctx context.Context, tx pgx.Tx, eventID, userID, teamID uuid.UUID, snap registrations.Snapshot) (*models.Registration, error) {
	const q = `INSERT INTO event_registrations
			(id, event_id, user_id, is_team_registration, team_id, participant_name, participant_email, participant_school)
		VALUES (gen_random_uuid(), $1, $2, TRUE, $3, $4, $5, $6)
		RETURNING id, event_id, user_id, is_team_registration, team_id, status, presentee,
			admit_card_url, participant_name, participant_email, participant_school, custom_data, created_at, updated_at`
	var reg models.Registration
	err := tx.QueryRow(ctx, q, eventID, userID, teamID, snap.Name, snap.Email, snap.School).
		Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.IsTeamRegistration, &reg.TeamID,
			&reg.Status, &reg.Presentee, &reg.AdmitCardURL, &reg.ParticipantName, &reg.ParticipantEmail,
			&reg.ParticipantSchool, &reg.CustomData, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return &reg, nil
}

func bumpRegisteredCount(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) error {
	const q = `UPDATE events SET registered_count = registered_count + 1, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, q, eventID); err != nil {
		return fmt.Errorf("increment registered count: %w", err)
	}
	return nil
}
