package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sahaaya/sahaaya_server/internal/pkg/jwt"
	"github.com/sahaaya/sahaaya_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"
	RoleKey   = "role"
)

// Auth requires a valid Bearer token and stores the caller's identity on the
// context.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "authentication required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// AdminOnly rejects callers without the admin role. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok || role != "admin" {
			response.PermissionError(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID reads the authenticated user ID from the context.
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// GetRole reads the authenticated role from the context.
func GetRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(RoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}
