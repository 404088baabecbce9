package models

import (
	"time"
)

// ProjectMilestone dated checkpoint of a project
type ProjectMilestone struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Date      time.Time `gorm:"not null" json:"date"`
}

// TableName overrides the table name
func (ProjectMilestone) TableName() string {
	return "project_milestones"
}
