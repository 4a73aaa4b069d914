package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role in the platform.
type Role string

const (
	RoleStudent     Role = "student"
	RoleOrganizer   Role = "organizer"
	RoleEventRep    Role = "event_rep"
	RoleOverallHead Role = "overall_head"
	RoleAdmin       Role = "admin"
)

// StaffRoles are the roles allowed to manage events, participants and boards.
var StaffRoles = []string{string(RoleOrganizer), string(RoleEventRep), string(RoleOverallHead), string(RoleAdmin)}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleStudent, RoleOrganizer, RoleEventRep, RoleOverallHead, RoleAdmin:
		return true
	}
	return false
}

// User represents a platform user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	School    string    `json:"school"`
	Grade     string    `json:"grade"`
	ContactNo string    `json:"contact_no"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	School    string    `json:"school"`
	Grade     string    `json:"grade"`
	ContactNo string    `json:"contact_no"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		School:    u.School,
		Grade:     u.Grade,
		ContactNo: u.ContactNo,
		CreatedAt: u.CreatedAt,
	}
}
