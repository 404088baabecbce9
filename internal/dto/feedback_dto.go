package dto

import (
	"pm-go/internal/models"
	"pm-go/internal/utils"
)

// CreateFeedbackRequest feedback payload; name and email are for anonymous senders
type CreateFeedbackRequest struct {
	Subject string  `json:"subject"`
	Message string  `json:"message"`
	Name    *string `json:"name"`
	Email   *string `json:"email"`
}

// FeedbackResponse serialized feedback
type FeedbackResponse struct {
	ID             uint    `json:"id"`
	UserID         *uint   `json:"user_id"`
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Subject        string  `json:"subject"`
	Message        string  `json:"message"`
	SubmissionDate string  `json:"submission_date"`
}

// NewFeedbackResponse serializes f
func NewFeedbackResponse(f models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:             f.ID,
		UserID:         f.UserID,
		Name:           f.Name,
		Email:          f.Email,
		Subject:        f.Subject,
		Message:        f.Message,
		SubmissionDate: utils.FormatTimestamp(f.SubmissionDate),
	}
}
