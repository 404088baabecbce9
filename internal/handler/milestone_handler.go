package handler

import (
	"pm-go/internal/dto"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// MilestoneHandler project milestone endpoints
type MilestoneHandler struct {
	milestoneService *service.MilestoneService
}

// NewMilestoneHandler creates a MilestoneHandler
func NewMilestoneHandler(milestoneService *service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestoneService: milestoneService}
}

// CreateMilestone creates a milestone under the project in the path
func (h *MilestoneHandler) CreateMilestone(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateMilestoneRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.milestoneService.Create(projectID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, resp)
}

// ListMilestones lists the milestones of the project in the path
func (h *MilestoneHandler) ListMilestones(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.milestoneService.ListByProject(projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

func (h *MilestoneHandler) GetMilestone(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.milestoneService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

func (h *MilestoneHandler) UpdateMilestone(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMilestoneRequest
	if !bindUpdate(c, &req) {
		return
	}
	resp, err := h.milestoneService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

func (h *MilestoneHandler) DeleteMilestone(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.milestoneService.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	utils.NoContent(c)
}
