package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is a group of students registered together for a team-based event.
// Invariants: TeamSize == len(MemberUIDs), the leader is always a member.
// Teams never shrink: there is no leave or kick operation.
type Team struct {
	ID         uuid.UUID   `json:"id"`
	EventID    uuid.UUID   `json:"event_id"`
	Name       string      `json:"name"`
	LeaderID   uuid.UUID   `json:"team_leader_id"`
	MemberUIDs []uuid.UUID `json:"member_uids"`
	TeamSize   int         `json:"team_size"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// HasMember reports whether the user is already on the team.
func (t *Team) HasMember(userID uuid.UUID) bool {
	for _, id := range t.MemberUIDs {
		if id == userID {
			return true
		}
	}
	return false
}
