package dto

import (
	"pm-go/internal/models"
)

// CreateTeamRequest team creation payload
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// UpdateTeamRequest partial team update
type UpdateTeamRequest struct {
	Name Optional[string] `json:"name"`
}

// HasChanges reports whether any known field was sent
func (r *UpdateTeamRequest) HasChanges() bool {
	return r.Name.Set
}

// AddMemberRequest membership payload
type AddMemberRequest struct {
	UserID *uint `json:"user_id"`
}

// TeamResponse serialized team
type TeamResponse struct {
	ID       uint          `json:"id"`
	Name     string        `json:"name"`
	Projects []uint        `json:"projects"`
	Members  []UserSummary `json:"members"`
}

// NewTeamResponse serializes t with its project ids and member summaries
func NewTeamResponse(t models.Team, projectIDs []uint, members []models.User) TeamResponse {
	summaries := make([]UserSummary, 0, len(members))
	for _, m := range members {
		summaries = append(summaries, NewUserSummary(m))
	}
	return TeamResponse{
		ID:       t.ID,
		Name:     t.Name,
		Projects: nonNilIDs(projectIDs),
		Members:  summaries,
	}
}

// MembershipResponse reply to add/remove member
type MembershipResponse struct {
	Message string       `json:"message"`
	Team    TeamResponse `json:"team"`
}
