package handler

import (
	"context"

	"pm-go/internal/dto"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionTerminator ends every session of an account
type SessionTerminator interface {
	EndUser(ctx context.Context, userID uint) error
}

// UserHandler profile and user directory
type UserHandler struct {
	userService *service.UserService
	sessions    SessionTerminator
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userService *service.UserService, sessions SessionTerminator) *UserHandler {
	return &UserHandler{userService: userService, sessions: sessions}
}

// GetProfile returns the signed-in user
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	resp, err := h.userService.Profile(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// UpdateProfile applies a partial update to the signed-in user
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindUpdate(c, &req) {
		return
	}
	resp, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// ListUsers returns user summaries
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.userService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// GetUser returns one user summary
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.userService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// DeleteUser removes an account, admin only
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	// the row is gone; its cookies must stop resolving too
	if err := h.sessions.EndUser(c.Request.Context(), id); err != nil {
		logrus.WithError(err).WithField("user_id", id).Error("end sessions of deleted user")
	}
	utils.NoContent(c)
}
