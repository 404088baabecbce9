package dto

import (
	"pm-go/internal/models"
	"pm-go/internal/utils"
)

// CreateMilestoneRequest milestone creation payload
type CreateMilestoneRequest struct {
	Name string  `json:"name"`
	Date *string `json:"date"`
}

// UpdateMilestoneRequest partial milestone update
type UpdateMilestoneRequest struct {
	Name Optional[string] `json:"name"`
	Date Optional[string] `json:"date"`
}

// HasChanges reports whether any known field was sent
func (r *UpdateMilestoneRequest) HasChanges() bool {
	return r.Name.Set || r.Date.Set
}

// MilestoneResponse serialized milestone
type MilestoneResponse struct {
	ID        uint   `json:"id"`
	ProjectID uint   `json:"project_id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
}

// NewMilestoneResponse serializes m
func NewMilestoneResponse(m models.ProjectMilestone) MilestoneResponse {
	return MilestoneResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Name:      m.Name,
		Date:      utils.FormatTimestamp(m.Date),
	}
}
