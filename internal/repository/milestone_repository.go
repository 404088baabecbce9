package repository

import (
	"pm-go/internal/models"

	"gorm.io/gorm"
)

// MilestoneRepository project milestone data access
type MilestoneRepository struct {
	db *gorm.DB
}

// NewMilestoneRepository creates a MilestoneRepository
func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *MilestoneRepository) WithTx(tx *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: tx}
}

// Create inserts a milestone
func (r *MilestoneRepository) Create(milestone *models.ProjectMilestone) error {
	return r.db.Create(milestone).Error
}

// GetByID loads a milestone by id
func (r *MilestoneRepository) GetByID(id uint) (*models.ProjectMilestone, error) {
	var milestone models.ProjectMilestone
	if err := r.db.First(&milestone, id).Error; err != nil {
		return nil, err
	}
	return &milestone, nil
}

// Update saves name and date; project_id is never rewritten
func (r *MilestoneRepository) Update(milestone *models.ProjectMilestone) error {
	return r.db.Model(milestone).Select("name", "date").Updates(milestone).Error
}

// Delete removes a milestone
func (r *MilestoneRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProjectMilestone{}, id).Error
}

// ListByProject returns milestones of projectID in insertion order
func (r *MilestoneRepository) ListByProject(projectID uint) ([]models.ProjectMilestone, error) {
	var milestones []models.ProjectMilestone
	err := r.db.Where("project_id = ?", projectID).Order("id ASC").Find(&milestones).Error
	return milestones, err
}

// IDsByProject returns milestone ids per project
func (r *MilestoneRepository) IDsByProject(projectIDs []uint) (map[uint][]uint, error) {
	return groupIDs(r.db, &models.ProjectMilestone{}, "project_id", projectIDs)
}
