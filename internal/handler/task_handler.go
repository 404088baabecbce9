package handler

import (
	"pm-go/internal/dto"
	"pm-go/internal/repository"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// TaskHandler task endpoints, flat and nested under projects
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a TaskHandler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateProjectTask creates a task under the project in the path
func (h *TaskHandler) CreateProjectTask(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.taskService.CreateInProject(projectID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, resp)
}

// ListProjectTasks lists the tasks of the project in the path
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.taskService.ListByProject(projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// CreateTask creates a task for the project_id in the body
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.taskService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, resp)
}

// ListTasks lists tasks, filtered by project_id, assignee_id and status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var filter repository.TaskFilter
	var ok bool
	if filter.ProjectID, ok = parseQueryID(c, "project_id"); !ok {
		return
	}
	if filter.AssigneeID, ok = parseQueryID(c, "assignee_id"); !ok {
		return
	}
	filter.Status = queryString(c, "status")

	resp, err := h.taskService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// GetTask returns one task
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.taskService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// UpdateTask applies a partial update
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !bindUpdate(c, &req) {
		return
	}
	resp, err := h.taskService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.taskService.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	utils.NoContent(c)
}
