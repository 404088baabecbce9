package dto

import (
	"pm-go/internal/models"
)

// UserSummary public view of a user
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// NewUserSummary serializes u
func NewUserSummary(u models.User) UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
	}
}

// UserProfile full view of the signed-in user
type UserProfile struct {
	ID                 uint   `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	Teams              []uint `json:"teams"`
	TasksAssignedCount int64  `json:"tasks_assigned_count"`
}

// NewUserProfile serializes u with its team ids and assigned task count
func NewUserProfile(u *models.User, teamIDs []uint, assigned int64) UserProfile {
	return UserProfile{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		Teams:              nonNilIDs(teamIDs),
		TasksAssignedCount: assigned,
	}
}

// UpdateProfileRequest partial profile update
type UpdateProfileRequest struct {
	Name  Optional[string] `json:"name"`
	Email Optional[string] `json:"email"`
	Role  Optional[string] `json:"role"`
}

// HasChanges reports whether any known field was sent
func (r *UpdateProfileRequest) HasChanges() bool {
	return r.Name.Set || r.Email.Set || r.Role.Set
}

func nonNilIDs(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return ids
}
