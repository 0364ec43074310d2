package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homequest/internal/dto"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Middleware rejects requests without a valid bearer token and stores the
// caller's id and role in the gin context.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "missing authorization header"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := ValidateToken(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole guards a route group for one role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated user's id from the context.
func CallerID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}
