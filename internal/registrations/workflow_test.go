package registrations

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/campus-events/backend/internal/models"
)

func TestResolveState(t *testing.T) {
	user := uuid.New()
	leader := uuid.New()
	teamID := uuid.New()

	individual := &models.Registration{UserID: user}
	teamReg := &models.Registration{UserID: user, IsTeamRegistration: true, TeamID: &teamID}

	tests := []struct {
		name string
		reg  *models.Registration
		team *models.Team
		want State
	}{
		{name: "no registration", want: StateNotRegistered},
		{name: "individual", reg: individual, want: StateIndividual},
		{name: "team reg without team row", reg: teamReg, want: StateIndividual},
		{name: "team leader", reg: teamReg, team: &models.Team{ID: teamID, LeaderID: user}, want: StateTeamLeader},
		{name: "team member", reg: teamReg, team: &models.Team{ID: teamID, LeaderID: leader}, want: StateTeamMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveState(tt.reg, tt.team, user))
		})
	}
}

func TestValidateIndividual(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	base := func() *models.Event {
		return &models.Event{Status: models.EventActive, RegistrationFee: 0}
	}

	tests := []struct {
		name    string
		mutate  func(*models.Event)
		role    string
		feeAck  bool
		wantErr error
	}{
		{name: "free event, student", role: "student"},
		{name: "staff cannot register", role: "organizer", wantErr: ErrNotStudent},
		{name: "admin cannot register", role: "admin", wantErr: ErrNotStudent},
		{name: "completed event closed", role: "student", mutate: func(e *models.Event) { e.Status = models.EventCompleted }, wantErr: ErrEventNotOpen},
		{name: "cancelled event closed", role: "student", mutate: func(e *models.Event) { e.Status = models.EventCancelled }, wantErr: ErrEventNotOpen},
		{name: "planning still open", role: "student", mutate: func(e *models.Event) { e.Status = models.EventPlanning }},
		{name: "deadline passed", role: "student", mutate: func(e *models.Event) { e.Deadline = &past }, wantErr: ErrDeadlinePassed},
		{name: "deadline ahead", role: "student", mutate: func(e *models.Event) { e.Deadline = &future }},
		{name: "fee without acknowledgement", role: "student", mutate: func(e *models.Event) { e.RegistrationFee = 500 }, wantErr: ErrFeeNotAcknowledged},
		{name: "fee acknowledged", role: "student", feeAck: true, mutate: func(e *models.Event) { e.RegistrationFee = 500 }},
		{name: "team-based rejects individual", role: "student", mutate: func(e *models.Event) { e.IsTeamBased = true }, wantErr: ErrTeamBasedOnly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base()
			if tt.mutate != nil {
				tt.mutate(e)
			}
			err := ValidateIndividual(e, tt.role, tt.feeAck, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTeamCreate(t *testing.T) {
	now := time.Now()
	e := &models.Event{Status: models.EventActive, IsTeamBased: true, RegistrationFee: 500}

	assert.ErrorIs(t, ValidateTeamCreate(e, "student", false, now), ErrFeeNotAcknowledged)
	assert.NoError(t, ValidateTeamCreate(e, "student", true, now))

	solo := &models.Event{Status: models.EventActive, IsTeamBased: false}
	assert.ErrorIs(t, ValidateTeamCreate(solo, "student", false, now), ErrNotTeamBased)
}

func TestSnapshotOf(t *testing.T) {
	u := &models.User{FullName: "Ada L", Email: "ada@school.test", School: "Central High"}
	snap := SnapshotOf(u)
	assert.Equal(t, Snapshot{Name: "Ada L", Email: "ada@school.test", School: "Central High"}, snap)
}
