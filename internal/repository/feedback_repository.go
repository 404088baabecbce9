package repository

import (
	"pm-go/internal/models"

	"gorm.io/gorm"
)

// FeedbackRepository feedback data access
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a FeedbackRepository
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *FeedbackRepository) WithTx(tx *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: tx}
}

// Create inserts a feedback row
func (r *FeedbackRepository) Create(feedback *models.Feedback) error {
	return r.db.Create(feedback).Error
}

// GetByID loads a feedback row by id
func (r *FeedbackRepository) GetByID(id uint) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := r.db.First(&feedback, id).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}

// List returns feedback newest first
func (r *FeedbackRepository) List() ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := r.db.Order("submission_date DESC, id DESC").Find(&feedback).Error
	return feedback, err
}

// ClearUser detaches every feedback row from userID
func (r *FeedbackRepository) ClearUser(userID uint) error {
	return r.db.Model(&models.Feedback{}).
		Where("user_id = ?", userID).
		Update("user_id", nil).Error
}
