package teams

import (
	"errors"

	"github.com/google/uuid"

	"github.com/campus-events/backend/internal/models"
)

var (
	ErrTeamFull      = errors.New("team is already at maximum size")
	ErrAlreadyMember = errors.New("user is already on this team")
	ErrWrongEvent    = errors.New("team does not belong to this event")
)

// CanJoin checks whether a user may join a team for an event. Joining a full
// team or a team the user is already on is rejected before any write.
func CanJoin(team *models.Team, event *models.Event, userID uuid.UUID) error {
	if team.EventID != event.ID {
		return ErrWrongEvent
	}
	if team.HasMember(userID) {
		return ErrAlreadyMember
	}
	if team.TeamSize >= event.MaxTeamMembers {
		return ErrTeamFull
	}
	return nil
}
