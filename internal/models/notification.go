package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	NotifyRegistrationStatus = "registration_status"
	NotifyTeamJoin           = "team_join"
	NotifyTaskAssigned       = "task_assigned"
)

// Notification is a per-user message written by the dispatch worker.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
