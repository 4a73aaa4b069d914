package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTGenerateValidate(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	userID := uuid.New()

	token, err := svc.Generate(userID, "a@test.dev", "student")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@test.dev", claims.Email)
	assert.Equal(t, "student", claims.Role)
}

func TestJWTValidateRejects(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	other := NewJWTService("other-secret", 1)

	token, err := other.Generate(uuid.New(), "a@test.dev", "admin")
	assert.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong secret", token: token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
