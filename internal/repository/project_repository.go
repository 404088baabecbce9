package repository

import (
	"pm-go/internal/models"

	"gorm.io/gorm"
)

// ProjectFilter equality filters for listing projects; nil means unfiltered
type ProjectFilter struct {
	ClientID *uint
	TeamID   *uint
	Status   *string
}

// ProjectRepository project data access
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a ProjectRepository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

// Create inserts a project
func (r *ProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// GetByID loads a project by id
func (r *ProjectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Exists checks a project id
func (r *ProjectRepository) Exists(id uint) (bool, error) {
	return exists(r.db, &models.Project{}, id)
}

// Update saves every mutable column of project
func (r *ProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project together with its tasks and milestones
func (r *ProjectRepository) Delete(id uint) error {
	if err := r.db.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.ProjectMilestone{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Project{}, id).Error
}

// List returns projects matching filter in insertion order
func (r *ProjectRepository) List(filter ProjectFilter) ([]models.Project, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.TeamID != nil {
		query = query.Where("team_id = ?", *filter.TeamID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	err := query.Order("id ASC").Find(&projects).Error
	return projects, err
}

// CountByClient counts projects referencing clientID
func (r *ProjectRepository) CountByClient(clientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("client_id = ?", clientID).Count(&count).Error
	return count, err
}

// CountByTeam counts projects referencing teamID
func (r *ProjectRepository) CountByTeam(teamID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

// IDsByClient returns project ids per client
func (r *ProjectRepository) IDsByClient(clientIDs []uint) (map[uint][]uint, error) {
	return groupIDs(r.db, &models.Project{}, "client_id", clientIDs)
}

// IDsByTeam returns project ids per team
func (r *ProjectRepository) IDsByTeam(teamIDs []uint) (map[uint][]uint, error) {
	return groupIDs(r.db, &models.Project{}, "team_id", teamIDs)
}

// NamesByIDs returns project names keyed by id
func (r *ProjectRepository) NamesByIDs(ids []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var projects []models.Project
	if err := r.db.Select("id", "name").Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, err
	}
	for _, p := range projects {
		result[p.ID] = p.Name
	}
	return result, nil
}
