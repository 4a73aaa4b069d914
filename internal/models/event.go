package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle status of an event.
type EventStatus string

const (
	EventPlanning  EventStatus = "Planning"
	EventActive    EventStatus = "Active"
	EventCompleted EventStatus = "Completed"
	EventCancelled EventStatus = "Cancelled"
	EventClosed    EventStatus = "closed"
)

// ValidEventStatus reports whether s names a known event status.
func ValidEventStatus(s string) bool {
	switch EventStatus(s) {
	case EventPlanning, EventActive, EventCompleted, EventCancelled, EventClosed:
		return true
	}
	return false
}

// Event represents a registerable event (individual or team-based).
type Event struct {
	ID                 uuid.UUID   `json:"id"`
	Slug               string      `json:"slug"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	IsTeamBased        bool        `json:"is_team_based"`
	MinTeamMembers     int         `json:"min_team_members"`
	MaxTeamMembers     int         `json:"max_team_members"`
	RegistrationFee    int         `json:"registration_fee"`
	Deadline           *time.Time  `json:"deadline,omitempty"`
	Status             EventStatus `json:"status"`
	OrganizerUIDs      []uuid.UUID `json:"organizer_uids"`
	RepresentativeUIDs []uuid.UUID `json:"representative_uids"`
	RegisteredCount    int         `json:"registered_count"`
	ImageURL           string      `json:"image_url"`
	CreatedBy          uuid.UUID   `json:"created_by"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// IsStaff reports whether the user appears in the event's organizer or representative lists.
func (e *Event) IsStaff(userID uuid.UUID) bool {
	for _, id := range e.OrganizerUIDs {
		if id == userID {
			return true
		}
	}
	for _, id := range e.RepresentativeUIDs {
		if id == userID {
			return true
		}
	}
	return false
}
