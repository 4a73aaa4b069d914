package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-events/backend/internal/auth"
	"github.com/campus-events/backend/pkg/response"
)

// Context keys are owned by the auth package (they belong to the claims);
// re-exported here so feature handlers keep importing only middleware.
const (
	ContextUserID    = auth.ContextUserID
	ContextUserRole  = auth.ContextUserRole
	ContextUserEmail = auth.ContextUserEmail
)

// JWT returns a middleware that validates JWT and sets user claims in context.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}
