package handler

import (
	"pm-go/internal/dto"
	"pm-go/internal/repository"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// ProjectHandler project endpoints
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a ProjectHandler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject creates a project
// @Summary Create project
// @Tags projects
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "project"
// @Success 201 {object} dto.ProjectResponse
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.projectService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, resp)
}

// ListProjects lists projects, filtered by client_id, team_id and status
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var filter repository.ProjectFilter
	var ok bool
	if filter.ClientID, ok = parseQueryID(c, "client_id"); !ok {
		return
	}
	if filter.TeamID, ok = parseQueryID(c, "team_id"); !ok {
		return
	}
	filter.Status = queryString(c, "status")

	resp, err := h.projectService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// GetProject returns one project
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.projectService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// UpdateProject applies a partial update
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if !bindUpdate(c, &req) {
		return
	}
	resp, err := h.projectService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// DeleteProject removes a project with its tasks and milestones
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.projectService.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	utils.NoContent(c)
}
