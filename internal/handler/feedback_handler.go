package handler

import (
	"pm-go/internal/dto"
	"pm-go/internal/middleware"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler feedback endpoints
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler creates a FeedbackHandler
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// SubmitFeedback stores a submission, attaching the session user when present
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req dto.CreateFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.feedbackService.Create(middleware.OptionalUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, resp)
}

// ListFeedback lists submissions newest first
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	resp, err := h.feedbackService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// GetFeedback returns one submission
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.feedbackService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}
