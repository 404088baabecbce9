package models

import (
	"time"
)

// Feedback message submitted from the feedback page, optionally anonymous
type Feedback struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         *uint     `gorm:"index" json:"user_id"`
	Name           *string   `gorm:"size:100" json:"name"`
	Email          *string   `gorm:"size:100" json:"email"`
	Subject        string    `gorm:"size:200;not null" json:"subject"`
	Message        string    `gorm:"type:text;not null" json:"message"`
	SubmissionDate time.Time `gorm:"not null;autoCreateTime;<-:create" json:"submission_date"`
}

// TableName overrides the table name
func (Feedback) TableName() string {
	return "feedback"
}
