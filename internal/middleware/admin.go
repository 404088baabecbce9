package middleware

import (
	"pm-go/internal/models"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// UserLookup loads the account behind a session
type UserLookup interface {
	GetUser(id uint) (*models.User, error)
}

// RequireRole admits only users holding role; must run after AuthMiddleware
func RequireRole(users UserLookup, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		user, err := users.GetUser(userID)
		if err != nil || user.Role != role {
			utils.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminMiddleware admits administrators only
func AdminMiddleware(users UserLookup) gin.HandlerFunc {
	return RequireRole(users, models.RoleAdmin)
}
