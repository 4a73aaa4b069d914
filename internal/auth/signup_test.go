package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-events/backend/internal/models"
)

func TestSignupRole(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		want      models.Role
		wantErr   error
	}{
		{"empty defaults to student", "", models.RoleStudent, nil},
		{"student accepted", "student", models.RoleStudent, nil},
		{"admin rejected", "admin", "", ErrStaffSignup},
		{"organizer rejected", "organizer", "", ErrStaffSignup},
		{"event rep rejected", "event_rep", "", ErrStaffSignup},
		{"overall head rejected", "overall_head", "", ErrStaffSignup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignupRole(tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignupRoleUnknown(t *testing.T) {
	_, err := SignupRole("superuser")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrStaffSignup)
}
