package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RegistrationStatus is the staff-controlled status of a registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationApproved  RegistrationStatus = "approved"
	RegistrationDeclined  RegistrationStatus = "declined"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// ValidRegistrationStatus reports whether s names a known registration status.
func ValidRegistrationStatus(s string) bool {
	switch RegistrationStatus(s) {
	case RegistrationPending, RegistrationApproved, RegistrationDeclined, RegistrationCancelled:
		return true
	}
	return false
}

// Registration links a user to an event, individually or via a team.
// ParticipantName/Email/School are a snapshot taken at registration time and
// are never updated afterwards.
type Registration struct {
	ID                 uuid.UUID          `json:"id"`
	EventID            uuid.UUID          `json:"event_id"`
	UserID             uuid.UUID          `json:"user_id"`
	IsTeamRegistration bool               `json:"is_team_registration"`
	TeamID             *uuid.UUID         `json:"team_id,omitempty"`
	Status             RegistrationStatus `json:"registration_status"`
	Presentee          bool               `json:"presentee"`
	AdmitCardURL       string             `json:"admit_card_url"`
	ParticipantName    string             `json:"participant_name"`
	ParticipantEmail   string             `json:"participant_email"`
	ParticipantSchool  string             `json:"participant_school"`
	CustomData         json.RawMessage    `json:"custom_data,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
