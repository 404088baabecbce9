package models

import (
	"time"
)

// User account; PasswordHash never leaves the service layer
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:80;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Email        string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Role         string    `gorm:"size:80;not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// RoleAdmin is the role allowed to delete accounts
const RoleAdmin = "admin"

// RoleUser is assigned at registration when no role is given
const RoleUser = "user"
