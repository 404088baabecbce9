package service

import (
	"fmt"

	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"
	"pm-go/internal/utils"

	"gorm.io/gorm"
)

const (
	teamInUseMessage = "Cannot delete team. Team is linked to existing projects. Please reassign or delete those projects first."
	alreadyMemberMsg = "User is already a member of this team"
	notMemberMsg     = "User is not a member of this team"
	memberAddedMsg   = "User added to team successfully"
	memberRemovedMsg = "User removed from team successfully"
)

// TeamService team and membership operations
type TeamService struct {
	db          *gorm.DB
	teamRepo    *repository.TeamRepository
	userRepo    *repository.UserRepository
	projectRepo *repository.ProjectRepository
}

// NewTeamService creates a TeamService over db
func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{
		db:          db,
		teamRepo:    repository.NewTeamRepository(db),
		userRepo:    repository.NewUserRepository(db),
		projectRepo: repository.NewProjectRepository(db),
	}
}

func teamNameTaken(name string) string {
	return fmt.Sprintf("Team with name %q already exists", name)
}

// Create validates and inserts a team with a unique name
func (s *TeamService) Create(req *dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	if err := check(nil, ValidateTeam(TeamFields{Name: req.Name})); err != nil {
		return nil, err
	}

	team := models.Team{Name: req.Name}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teams := s.teamRepo.WithTx(tx)
		taken, err := teams.ExistsByName(req.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Message: teamNameTaken(req.Name)}
		}
		return teams.Create(&team)
	})
	if err != nil {
		return nil, storeError("create team", err, teamNameTaken(req.Name))
	}
	resp := dto.NewTeamResponse(team, nil, nil)
	return &resp, nil
}

// Get returns one serialized team
func (s *TeamService) Get(id uint) (*dto.TeamResponse, error) {
	return s.load(s.db, id)
}

// List returns every team with projects and members
func (s *TeamService) List() ([]dto.TeamResponse, error) {
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, storeError("list teams", err, "")
	}
	return s.serialize(s.db, teams)
}

// Update renames team id; the new name must stay unique
func (s *TeamService) Update(id uint, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error) {
	var resp *dto.TeamResponse
	fields := TeamFields{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teams := s.teamRepo.WithTx(tx)
		team, err := teams.GetByID(id)
		if err != nil {
			return lookupError("load team", "Team", err)
		}

		fields.Name = team.Name
		if req.Name.Set {
			fields.Name = req.Name.Value
		}
		if err := check(nil, ValidateTeam(fields)); err != nil {
			return err
		}
		taken, err := teams.ExistsByName(fields.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Message: teamNameTaken(fields.Name)}
		}

		team.Name = fields.Name
		if err := teams.Update(team); err != nil {
			return err
		}
		resp, err = s.load(tx, id)
		return err
	})
	if err != nil {
		return nil, storeError("update team", err, teamNameTaken(fields.Name))
	}
	return resp, nil
}

// Delete removes team id unless a project still references it
func (s *TeamService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teams := s.teamRepo.WithTx(tx)
		ok, err := teams.Exists(id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("Team")
		}
		count, err := s.projectRepo.WithTx(tx).CountByTeam(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &ReferentialGuardError{Message: teamInUseMessage}
		}
		return teams.Delete(id)
	})
	return storeError("delete team", err, "")
}

// AddMember adds userID to team id
func (s *TeamService) AddMember(id uint, userID *uint) (*dto.MembershipResponse, error) {
	if userID == nil {
		return nil, &ValidationError{
			Message:    "Missing required field: user_id",
			Violations: []utils.Violation{{Field: "user_id", Message: "user_id is required"}},
		}
	}

	var resp *dto.MembershipResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teams := s.teamRepo.WithTx(tx)
		if err := s.checkMembershipTargets(tx, id, *userID); err != nil {
			return err
		}
		member, err := teams.IsMember(id, *userID)
		if err != nil {
			return err
		}
		if member {
			return &ConflictError{Message: alreadyMemberMsg}
		}
		if err := teams.AddMember(id, *userID); err != nil {
			return err
		}
		team, err := s.load(tx, id)
		if err != nil {
			return err
		}
		resp = &dto.MembershipResponse{Message: memberAddedMsg, Team: *team}
		return nil
	})
	if err != nil {
		return nil, storeError("add team member", err, alreadyMemberMsg)
	}
	return resp, nil
}

// RemoveMember removes userID from team id
func (s *TeamService) RemoveMember(id, userID uint) (*dto.MembershipResponse, error) {
	var resp *dto.MembershipResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teams := s.teamRepo.WithTx(tx)
		if err := s.checkMembershipTargets(tx, id, userID); err != nil {
			return err
		}
		member, err := teams.IsMember(id, userID)
		if err != nil {
			return err
		}
		if !member {
			return &NotFoundError{Message: notMemberMsg}
		}
		if err := teams.RemoveMember(id, userID); err != nil {
			return err
		}
		team, err := s.load(tx, id)
		if err != nil {
			return err
		}
		resp = &dto.MembershipResponse{Message: memberRemovedMsg, Team: *team}
		return nil
	})
	if err != nil {
		return nil, storeError("remove team member", err, "")
	}
	return resp, nil
}

func (s *TeamService) checkMembershipTargets(tx *gorm.DB, teamID, userID uint) error {
	ok, err := s.teamRepo.WithTx(tx).Exists(teamID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("Team")
	}
	ok, err = s.userRepo.WithTx(tx).Exists(userID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("User")
	}
	return nil
}

func (s *TeamService) load(db *gorm.DB, id uint) (*dto.TeamResponse, error) {
	team, err := s.teamRepo.WithTx(db).GetByID(id)
	if err != nil {
		return nil, lookupError("get team", "Team", err)
	}
	resps, err := s.serialize(db, []models.Team{*team})
	if err != nil {
		return nil, err
	}
	return &resps[0], nil
}

func (s *TeamService) serialize(db *gorm.DB, teams []models.Team) ([]dto.TeamResponse, error) {
	ids := make([]uint, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	projectIDs, err := s.projectRepo.WithTx(db).IDsByTeam(ids)
	if err != nil {
		return nil, storeError("load team projects", err, "")
	}
	members, err := s.teamRepo.WithTx(db).MembersByTeam(ids)
	if err != nil {
		return nil, storeError("load team members", err, "")
	}
	resps := make([]dto.TeamResponse, 0, len(teams))
	for _, t := range teams {
		resps = append(resps, dto.NewTeamResponse(t, projectIDs[t.ID], members[t.ID]))
	}
	return resps, nil
}
