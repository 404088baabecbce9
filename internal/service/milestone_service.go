package service

import (
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"

	"gorm.io/gorm"
)

// MilestoneService project milestone operations
type MilestoneService struct {
	db            *gorm.DB
	milestoneRepo *repository.MilestoneRepository
	projectRepo   *repository.ProjectRepository
}

// NewMilestoneService creates a MilestoneService over db
func NewMilestoneService(db *gorm.DB) *MilestoneService {
	return &MilestoneService{
		db:            db,
		milestoneRepo: repository.NewMilestoneRepository(db),
		projectRepo:   repository.NewProjectRepository(db),
	}
}

// Create inserts a milestone under projectID
func (s *MilestoneService) Create(projectID uint, req *dto.CreateMilestoneRequest) (*dto.MilestoneResponse, error) {
	var tc timestampCollector
	fields := MilestoneFields{Name: req.Name, Date: tc.parse("date", req.Date)}
	if err := check(tc.violations, ValidateMilestone(fields)); err != nil {
		return nil, err
	}

	milestone := models.ProjectMilestone{ProjectID: projectID, Name: fields.Name, Date: *fields.Date}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.projectRepo.WithTx(tx).Exists(projectID)
		if err != nil {
			return err
		}
		if !ok {
			return missingRef("Project", projectID)
		}
		return s.milestoneRepo.WithTx(tx).Create(&milestone)
	})
	if err != nil {
		return nil, storeError("create milestone", err, "")
	}
	resp := dto.NewMilestoneResponse(milestone)
	return &resp, nil
}

// ListByProject returns the milestones of projectID
func (s *MilestoneService) ListByProject(projectID uint) ([]dto.MilestoneResponse, error) {
	ok, err := s.projectRepo.Exists(projectID)
	if err != nil {
		return nil, storeError("load project", err, "")
	}
	if !ok {
		return nil, missingRef("Project", projectID)
	}
	milestones, err := s.milestoneRepo.ListByProject(projectID)
	if err != nil {
		return nil, storeError("list milestones", err, "")
	}
	resps := make([]dto.MilestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		resps = append(resps, dto.NewMilestoneResponse(m))
	}
	return resps, nil
}

// Get returns one serialized milestone
func (s *MilestoneService) Get(id uint) (*dto.MilestoneResponse, error) {
	milestone, err := s.milestoneRepo.GetByID(id)
	if err != nil {
		return nil, lookupError("get milestone", "Milestone", err)
	}
	resp := dto.NewMilestoneResponse(*milestone)
	return &resp, nil
}

// Update merges name and date into milestone id
func (s *MilestoneService) Update(id uint, req *dto.UpdateMilestoneRequest) (*dto.MilestoneResponse, error) {
	var resp dto.MilestoneResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		milestones := s.milestoneRepo.WithTx(tx)
		milestone, err := milestones.GetByID(id)
		if err != nil {
			return lookupError("load milestone", "Milestone", err)
		}

		current := milestone.Date
		fields := MilestoneFields{Name: milestone.Name, Date: &current}
		if req.Name.Set {
			fields.Name = req.Name.Value
		}
		var tc timestampCollector
		if date, keep := tc.parseOptional("date", req.Date); !keep {
			fields.Date = date
		}
		if err := check(tc.violations, ValidateMilestone(fields)); err != nil {
			return err
		}

		milestone.Name = fields.Name
		milestone.Date = *fields.Date
		if err := milestones.Update(milestone); err != nil {
			return err
		}
		resp = dto.NewMilestoneResponse(*milestone)
		return nil
	})
	if err != nil {
		return nil, storeError("update milestone", err, "")
	}
	return &resp, nil
}

// Delete removes milestone id
func (s *MilestoneService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		milestones := s.milestoneRepo.WithTx(tx)
		if _, err := milestones.GetByID(id); err != nil {
			return lookupError("load milestone", "Milestone", err)
		}
		return milestones.Delete(id)
	})
	return storeError("delete milestone", err, "")
}
