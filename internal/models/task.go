package models

import (
	"time"
)

// Task default status
const TaskStatusToDo = "To Do"

// Task unit of work inside a project
type Task struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	Name        string     `gorm:"size:120;not null" json:"name"`
	AssigneeID  *uint      `gorm:"index" json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `gorm:"size:80;not null;default:'To Do';index" json:"status"`
	Description *string    `gorm:"type:text" json:"description"`
}

// TableName overrides the table name
func (Task) TableName() string {
	return "tasks"
}
