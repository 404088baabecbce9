package middleware

import (
	"errors"
	"net/http"

	"pm-go/internal/session"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const userIDKey = "user_id"

// resolveSession returns the user id behind the request cookie, if any
func resolveSession(c *gin.Context, sessions *session.Manager, cookieName string) (uint, bool) {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return 0, false
	}
	userID, err := sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) && !errors.Is(err, session.ErrInvalidToken) {
			logrus.WithError(err).Error("session lookup failed")
		}
		return 0, false
	}
	return userID, true
}

// AuthMiddleware rejects requests without a live session
func AuthMiddleware(sessions *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveSession(c, sessions, cookieName)
		if !ok {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalAuth attaches the session user when present and never rejects
func OptionalAuth(sessions *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := resolveSession(c, sessions, cookieName); ok {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

// PageAuth sends browsers without a session to the login page
func PageAuth(sessions *session.Manager, cookieName, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveSession(c, sessions, cookieName)
		if !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user id
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// OptionalUserID returns the authenticated user id or nil
func OptionalUserID(c *gin.Context) *uint {
	if id, ok := GetUserID(c); ok {
		return &id
	}
	return nil
}
