package service

import (
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"

	"gorm.io/gorm"
)

// FeedbackService feedback submission and review
type FeedbackService struct {
	db           *gorm.DB
	feedbackRepo *repository.FeedbackRepository
	userRepo     *repository.UserRepository
}

// NewFeedbackService creates a FeedbackService over db
func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{
		db:           db,
		feedbackRepo: repository.NewFeedbackRepository(db),
		userRepo:     repository.NewUserRepository(db),
	}
}

// Create stores a submission; userID is nil for anonymous senders.
// An author id that no longer resolves is stored as anonymous.
func (s *FeedbackService) Create(userID *uint, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	fields := FeedbackFields{
		Subject: req.Subject,
		Message: req.Message,
		Name:    blankToNil(req.Name),
		Email:   blankToNil(req.Email),
	}
	if err := check(nil, ValidateFeedback(fields)); err != nil {
		return nil, err
	}

	feedback := models.Feedback{
		UserID:  userID,
		Name:    fields.Name,
		Email:   fields.Email,
		Subject: fields.Subject,
		Message: fields.Message,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if userID != nil {
			ok, err := s.userRepo.WithTx(tx).Exists(*userID)
			if err != nil {
				return err
			}
			if !ok {
				feedback.UserID = nil
			}
		}
		return s.feedbackRepo.WithTx(tx).Create(&feedback)
	})
	if err != nil {
		return nil, storeError("create feedback", err, "")
	}
	resp := dto.NewFeedbackResponse(feedback)
	return &resp, nil
}

// List returns all feedback newest first
func (s *FeedbackService) List() ([]dto.FeedbackResponse, error) {
	rows, err := s.feedbackRepo.List()
	if err != nil {
		return nil, storeError("list feedback", err, "")
	}
	resps := make([]dto.FeedbackResponse, 0, len(rows))
	for _, f := range rows {
		resps = append(resps, dto.NewFeedbackResponse(f))
	}
	return resps, nil
}

// Get returns one feedback entry
func (s *FeedbackService) Get(id uint) (*dto.FeedbackResponse, error) {
	feedback, err := s.feedbackRepo.GetByID(id)
	if err != nil {
		return nil, lookupError("get feedback", "Feedback", err)
	}
	resp := dto.NewFeedbackResponse(*feedback)
	return &resp, nil
}
