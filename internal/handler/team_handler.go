package handler

import (
	"pm-go/internal/dto"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// TeamHandler team and membership endpoints
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler creates a TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeam creates a team with a unique name
// @Summary Create team
// @Tags teams
// @Accept json
// @Produce json
// @Param request body dto.CreateTeamRequest true "team"
// @Success 201 {object} dto.TeamResponse
// @Failure 409 {object} utils.Response
// @Router /api/teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req dto.CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.teamService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, resp)
}

// ListTeams lists every team
func (h *TeamHandler) ListTeams(c *gin.Context) {
	resp, err := h.teamService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// GetTeam returns one team
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.teamService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// UpdateTeam renames a team
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTeamRequest
	if !bindUpdate(c, &req) {
		return
	}
	resp, err := h.teamService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// DeleteTeam removes a team no project references
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.teamService.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	utils.NoContent(c)
}

// AddMember adds the user in the body to the team
func (h *TeamHandler) AddMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.teamService.AddMember(id, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// RemoveMember removes the user in the path from the team
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	resp, err := h.teamService.RemoveMember(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}
