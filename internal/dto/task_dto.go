package dto

import (
	"pm-go/internal/models"
	"pm-go/internal/utils"
)

// CreateTaskRequest task creation payload; ProjectID is read only on the flat route
type CreateTaskRequest struct {
	ProjectID   *uint   `json:"project_id"`
	Name        string  `json:"name"`
	AssigneeID  *uint   `json:"assignee_id"`
	DueDate     *string `json:"due_date"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
}

// UpdateTaskRequest partial task update; the owning project cannot change
type UpdateTaskRequest struct {
	Name        Optional[string] `json:"name"`
	AssigneeID  Optional[uint]   `json:"assignee_id"`
	DueDate     Optional[string] `json:"due_date"`
	Status      Optional[string] `json:"status"`
	Description Optional[string] `json:"description"`
}

// HasChanges reports whether any known field was sent
func (r *UpdateTaskRequest) HasChanges() bool {
	return r.Name.Set ||
		r.AssigneeID.Set ||
		r.DueDate.Set ||
		r.Status.Set ||
		r.Description.Set
}

// TaskResponse serialized task with denormalized project and assignee names
type TaskResponse struct {
	ID           uint    `json:"id"`
	ProjectID    uint    `json:"project_id"`
	ProjectName  string  `json:"project_name"`
	Name         string  `json:"name"`
	AssigneeID   *uint   `json:"assignee_id"`
	AssigneeName *string `json:"assignee_name"`
	DueDate      *string `json:"due_date"`
	Status       string  `json:"status"`
	Description  *string `json:"description"`
}

// NewTaskResponse serializes t; assignee is nil when unassigned or dangling
func NewTaskResponse(t models.Task, projectName string, assignee *models.User) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		ProjectName: projectName,
		Name:        t.Name,
		AssigneeID:  t.AssigneeID,
		DueDate:     utils.FormatOptionalTimestamp(t.DueDate),
		Status:      t.Status,
		Description: t.Description,
	}
	if assignee != nil {
		name := assignee.Name
		resp.AssigneeName = &name
	}
	return resp
}
