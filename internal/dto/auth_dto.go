package dto

import (
	"pm-go/internal/models"
)

// RegisterRequest account creation payload
type RegisterRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Role     *string `json:"role"`
}

// LoginRequest credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse reply to a successful login
type LoginResponse struct {
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}

// UserInfo user without team and task details
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// NewUserInfo serializes u
func NewUserInfo(u *models.User) UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
	}
}

// RegisterResponse reply to a successful registration
type RegisterResponse struct {
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}
