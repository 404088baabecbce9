package dto

import (
	"pm-go/internal/models"
	"pm-go/internal/utils"
)

// CreateProjectRequest project creation payload
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	ClientID    *uint   `json:"client_id"`
	TeamID      *uint   `json:"team_id"`
	Status      string  `json:"status"`
	Deadline    *string `json:"deadline"`
	Description *string `json:"description"`
}

// UpdateProjectRequest partial project update
type UpdateProjectRequest struct {
	Name        Optional[string] `json:"name"`
	ClientID    Optional[uint]   `json:"client_id"`
	TeamID      Optional[uint]   `json:"team_id"`
	Status      Optional[string] `json:"status"`
	Deadline    Optional[string] `json:"deadline"`
	Description Optional[string] `json:"description"`
}

// HasChanges reports whether any known field was sent
func (r *UpdateProjectRequest) HasChanges() bool {
	return r.Name.Set ||
		r.ClientID.Set ||
		r.TeamID.Set ||
		r.Status.Set ||
		r.Deadline.Set ||
		r.Description.Set
}

// ProjectResponse serialized project
type ProjectResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	ClientID     uint    `json:"client_id"`
	TeamID       uint    `json:"team_id"`
	Status       string  `json:"status"`
	Deadline     *string `json:"deadline"`
	Description  *string `json:"description"`
	CreationDate string  `json:"creation_date"`
	Tasks        []uint  `json:"tasks"`
	Milestones   []uint  `json:"milestones"`
}

// NewProjectResponse serializes p with the ids of its tasks and milestones
func NewProjectResponse(p models.Project, taskIDs, milestoneIDs []uint) ProjectResponse {
	return ProjectResponse{
		ID:           p.ID,
		Name:         p.Name,
		ClientID:     p.ClientID,
		TeamID:       p.TeamID,
		Status:       p.Status,
		Deadline:     utils.FormatOptionalTimestamp(p.Deadline),
		Description:  p.Description,
		CreationDate: utils.FormatTimestamp(p.CreationDate),
		Tasks:        nonNilIDs(taskIDs),
		Milestones:   nonNilIDs(milestoneIDs),
	}
}
