package service

import (
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"

	"gorm.io/gorm"
)

// ProjectService project operations
type ProjectService struct {
	db            *gorm.DB
	projectRepo   *repository.ProjectRepository
	clientRepo    *repository.ClientRepository
	teamRepo      *repository.TeamRepository
	taskRepo      *repository.TaskRepository
	milestoneRepo *repository.MilestoneRepository
}

// NewProjectService creates a ProjectService over db
func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{
		db:            db,
		projectRepo:   repository.NewProjectRepository(db),
		clientRepo:    repository.NewClientRepository(db),
		teamRepo:      repository.NewTeamRepository(db),
		taskRepo:      repository.NewTaskRepository(db),
		milestoneRepo: repository.NewMilestoneRepository(db),
	}
}

// Create validates and inserts a project
func (s *ProjectService) Create(req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	var tc timestampCollector
	deadline := tc.parse("deadline", req.Deadline)
	fields := ProjectFields{
		Name:     req.Name,
		ClientID: req.ClientID,
		TeamID:   req.TeamID,
		Status:   req.Status,
	}
	if err := check(tc.violations, ValidateProject(fields)); err != nil {
		return nil, err
	}

	var resp dto.ProjectResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.checkReferences(tx, *req.ClientID, *req.TeamID); err != nil {
			return err
		}
		project := models.Project{
			Name:        req.Name,
			ClientID:    *req.ClientID,
			TeamID:      *req.TeamID,
			Status:      req.Status,
			Deadline:    deadline,
			Description: req.Description,
		}
		if err := s.projectRepo.WithTx(tx).Create(&project); err != nil {
			return storeError("create project", err, "")
		}
		resp = dto.NewProjectResponse(project, nil, nil)
		return nil
	})
	if err != nil {
		return nil, storeError("create project", err, "")
	}
	return &resp, nil
}

// Get returns one serialized project
func (s *ProjectService) Get(id uint) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return nil, lookupError("get project", "Project", err)
	}
	resps, err := s.serialize(s.db, []models.Project{*project})
	if err != nil {
		return nil, err
	}
	return &resps[0], nil
}

// List returns projects matching filter
func (s *ProjectService) List(filter repository.ProjectFilter) ([]dto.ProjectResponse, error) {
	projects, err := s.projectRepo.List(filter)
	if err != nil {
		return nil, storeError("list projects", err, "")
	}
	return s.serialize(s.db, projects)
}

// Update merges the present fields of req into project id
func (s *ProjectService) Update(id uint, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	var resp dto.ProjectResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		projects := s.projectRepo.WithTx(tx)
		project, err := projects.GetByID(id)
		if err != nil {
			return lookupError("load project", "Project", err)
		}

		fields := ProjectFields{
			Name:     project.Name,
			ClientID: &project.ClientID,
			TeamID:   &project.TeamID,
			Status:   project.Status,
		}
		if req.Name.Set {
			fields.Name = req.Name.Value
		}
		if req.ClientID.Set {
			fields.ClientID = optionalID(req.ClientID)
		}
		if req.TeamID.Set {
			fields.TeamID = optionalID(req.TeamID)
		}
		if req.Status.Set {
			fields.Status = req.Status.Value
		}
		var tc timestampCollector
		deadline, keepDeadline := tc.parseOptional("deadline", req.Deadline)
		if err := check(tc.violations, ValidateProject(fields)); err != nil {
			return err
		}
		if err := s.checkReferences(tx, *fields.ClientID, *fields.TeamID); err != nil {
			return err
		}

		project.Name = fields.Name
		project.ClientID = *fields.ClientID
		project.TeamID = *fields.TeamID
		project.Status = fields.Status
		if !keepDeadline {
			project.Deadline = deadline
		}
		if req.Description.Set {
			project.Description = optionalText(req.Description)
		}
		if err := projects.Update(project); err != nil {
			return storeError("update project", err, "")
		}

		resps, err := s.serialize(tx, []models.Project{*project})
		if err != nil {
			return err
		}
		resp = resps[0]
		return nil
	})
	if err != nil {
		return nil, storeError("update project", err, "")
	}
	return &resp, nil
}

// Delete removes project id with its tasks and milestones
func (s *ProjectService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		projects := s.projectRepo.WithTx(tx)
		ok, err := projects.Exists(id)
		if err != nil {
			return storeError("load project", err, "")
		}
		if !ok {
			return notFound("Project")
		}
		return projects.Delete(id)
	})
	return storeError("delete project", err, "")
}

// checkReferences resolves the client and team a project points at
func (s *ProjectService) checkReferences(tx *gorm.DB, clientID, teamID uint) error {
	ok, err := s.clientRepo.WithTx(tx).Exists(clientID)
	if err != nil {
		return storeError("check client", err, "")
	}
	if !ok {
		return missingRef("Client", clientID)
	}
	ok, err = s.teamRepo.WithTx(tx).Exists(teamID)
	if err != nil {
		return storeError("check team", err, "")
	}
	if !ok {
		return missingRef("Team", teamID)
	}
	return nil
}

func (s *ProjectService) serialize(db *gorm.DB, projects []models.Project) ([]dto.ProjectResponse, error) {
	ids := make([]uint, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	taskIDs, err := s.taskRepo.WithTx(db).IDsByProject(ids)
	if err != nil {
		return nil, storeError("load project tasks", err, "")
	}
	milestoneIDs, err := s.milestoneRepo.WithTx(db).IDsByProject(ids)
	if err != nil {
		return nil, storeError("load project milestones", err, "")
	}

	resps := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resps = append(resps, dto.NewProjectResponse(p, taskIDs[p.ID], milestoneIDs[p.ID]))
	}
	return resps, nil
}

// optionalID turns an explicit null into nil
func optionalID(o dto.Optional[uint]) *uint {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

func optionalText(o dto.Optional[string]) *string {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}
