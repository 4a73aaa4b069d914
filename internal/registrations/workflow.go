package registrations

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/campus-events/backend/internal/models"
)

// State is a user's resolved relationship to an event.
type State string

const (
	StateNotRegistered State = "not_registered"
	StateIndividual    State = "registered_individual"
	StateTeamLeader    State = "registered_team_leader"
	StateTeamMember    State = "registered_team_member"
)

var (
	ErrNotStudent         = errors.New("only students may register")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrEventNotOpen       = errors.New("event is not open for registration")
	ErrDeadlinePassed     = errors.New("registration deadline has passed")
	ErrFeeNotAcknowledged = errors.New("registration fee must be acknowledged")
	ErrNotTeamBased       = errors.New("event is not team-based")
	ErrTeamBasedOnly      = errors.New("team-based event requires a team registration")
)

// ResolveState determines the registration state for a user. A registration
// with no team link is individual; a team-linked one is leader or member
// depending on the team's leader UID.
func ResolveState(reg *models.Registration, team *models.Team, userID uuid.UUID) State {
	if reg == nil {
		return StateNotRegistered
	}
	if !reg.IsTeamRegistration || team == nil {
		return StateIndividual
	}
	if team.LeaderID == userID {
		return StateTeamLeader
	}
	return StateTeamMember
}

// ValidateRegistration checks the common gates for any registration path:
// student role, open event, deadline, and the fee acknowledgement for paid
// events. Free events skip the fee gate entirely.
func ValidateRegistration(e *models.Event, role string, feeAcknowledged bool, now time.Time) error {
	if role != string(models.RoleStudent) {
		return ErrNotStudent
	}
	switch e.Status {
	case models.EventPlanning, models.EventActive:
	default:
		return ErrEventNotOpen
	}
	if e.Deadline != nil && now.After(*e.Deadline) {
		return ErrDeadlinePassed
	}
	if e.RegistrationFee > 0 && !feeAcknowledged {
		return ErrFeeNotAcknowledged
	}
	return nil
}

// ValidateIndividual checks gates for an individual (non-team) registration.
func ValidateIndividual(e *models.Event, role string, feeAcknowledged bool, now time.Time) error {
	if e.IsTeamBased {
		return ErrTeamBasedOnly
	}
	return ValidateRegistration(e, role, feeAcknowledged, now)
}

// ValidateTeamCreate checks gates for creating a team.
func ValidateTeamCreate(e *models.Event, role string, feeAcknowledged bool, now time.Time) error {
	if !e.IsTeamBased {
		return ErrNotTeamBased
	}
	return ValidateRegistration(e, role, feeAcknowledged, now)
}

// Snapshot captures the participant fields denormalized onto a registration
// row at creation time.
type Snapshot struct {
	Name   string
	Email  string
	School string
}

// SnapshotOf builds the immutable participant snapshot from a user.
func SnapshotOf(u *models.User) Snapshot {
	return Snapshot{Name: u.FullName, Email: u.Email, School: u.School}
}
