package models

import (
	"time"
)

// Project default status
const ProjectStatusPending = "Pending"

// Project work for a client carried out by a team
type Project struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Name         string     `gorm:"size:120;not null" json:"name"`
	ClientID     uint       `gorm:"not null;index" json:"client_id"`
	TeamID       uint       `gorm:"not null;index" json:"team_id"`
	Status       string     `gorm:"size:80;not null;default:'Pending';index" json:"status"`
	Deadline     *time.Time `json:"deadline"`
	Description  *string    `gorm:"type:text" json:"description"`
	CreationDate time.Time  `gorm:"autoCreateTime;<-:create" json:"creation_date"`
}

// TableName overrides the table name
func (Project) TableName() string {
	return "projects"
}
