package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/response"
	"github.com/campus-events/backend/pkg/utils"
)

// SignupRequest is the body for POST /auth/signup.
type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FullName  string `json:"full_name" binding:"required"`
	Role      string `json:"role"` // "student" or empty; staff roles come only from PATCH /users/:id/role
	School    string `json:"school"`
	Grade     string `json:"grade"`
	ContactNo string `json:"contact_no"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo   *Repository
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, jwt: jwt, logger: logger}
}

// ErrStaffSignup rejects self-service signup with a staff role.
var ErrStaffSignup = errors.New("staff roles cannot be self-assigned at signup")

// SignupRole resolves the role for a public signup. Only the student role can
// be taken at signup; every staff role is granted later by an admin through
// the role-update endpoint.
func SignupRole(requested string) (models.Role, error) {
	switch models.Role(requested) {
	case "", models.RoleStudent:
		return models.RoleStudent, nil
	}
	if !models.ValidRole(requested) {
		return "", errors.New("invalid role")
	}
	return "", ErrStaffSignup
}

// Signup handles POST /auth/signup. Accounts always start as students.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	role, err := SignupRole(req.Role)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.repo.GetByEmail(c.Request.Context(), req.Email); err == nil {
		response.BadRequest(c, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.repo.Create(c.Request.Context(), req.Email, hash, req.FullName, role, req.School, req.Grade, req.ContactNo)
	if err != nil {
		h.logger.Error("create user failed", zap.Error(err), zap.String("email", req.Email))
		response.Internal(c, "failed to create user")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Me handles GET /auth/me.
func (h *Handler) Me(c *gin.Context) {
	userID := c.MustGet(ContextUserID).(uuid.UUID)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, user.ToPublic())
}

// UpdateMe handles PATCH /auth/me.
func (h *Handler) UpdateMe(c *gin.Context) {
	userID := c.MustGet(ContextUserID).(uuid.UUID)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	var req struct {
		FullName  *string `json:"full_name"`
		School    *string `json:"school"`
		Grade     *string `json:"grade"`
		ContactNo *string `json:"contact_no"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	fullName, school, grade, contactNo := user.FullName, user.School, user.Grade, user.ContactNo
	if req.FullName != nil {
		fullName = *req.FullName
	}
	if req.School != nil {
		school = *req.School
	}
	if req.Grade != nil {
		grade = *req.Grade
	}
	if req.ContactNo != nil {
		contactNo = *req.ContactNo
	}
	if err := h.repo.UpdateProfile(c.Request.Context(), userID, fullName, school, grade, contactNo); err != nil {
		response.Internal(c, "failed to update profile")
		return
	}
	updated, _ := h.repo.GetByID(c.Request.Context(), userID)
	response.OK(c, updated.ToPublic())
}

// List handles GET /users (staff). Query ?role= filters by role.
func (h *Handler) List(c *gin.Context) {
	role := c.Query("role")
	if role != "" && !models.ValidRole(role) {
		response.BadRequest(c, "invalid role")
		return
	}
	users, err := h.repo.List(c.Request.Context(), role)
	if err != nil {
		response.Internal(c, "failed to list users")
		return
	}
	out := make([]models.UserPublic, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToPublic())
	}
	response.OK(c, out)
}

// UpdateRole handles PATCH /users/:id/role (admin only).
func (h *Handler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidRole(req.Role) {
		response.BadRequest(c, "invalid role")
		return
	}
	if err := h.repo.UpdateRole(c.Request.Context(), id, models.Role(req.Role)); err != nil {
		response.Internal(c, "failed to update role")
		return
	}
	response.OK(c, gin.H{"id": id, "role": req.Role})
}
