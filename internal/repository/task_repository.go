package repository

import (
	"pm-go/internal/models"

	"gorm.io/gorm"
)

// TaskFilter equality filters for listing tasks; nil means unfiltered
type TaskFilter struct {
	ProjectID  *uint
	AssigneeID *uint
	Status     *string
}

// TaskRepository task data access
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a TaskRepository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{db: tx}
}

// Create inserts a task
func (r *TaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// GetByID loads a task by id
func (r *TaskRepository) GetByID(id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update saves every column of task
func (r *TaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task
func (r *TaskRepository) Delete(id uint) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// List returns tasks matching filter in insertion order
func (r *TaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	err := query.Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// IDsByProject returns task ids per project
func (r *TaskRepository) IDsByProject(projectIDs []uint) (map[uint][]uint, error) {
	return groupIDs(r.db, &models.Task{}, "project_id", projectIDs)
}

// CountByAssignee counts tasks assigned to userID
func (r *TaskRepository) CountByAssignee(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("assignee_id = ?", userID).Count(&count).Error
	return count, err
}

// ClearAssignee unassigns every task of userID
func (r *TaskRepository) ClearAssignee(userID uint) error {
	return r.db.Model(&models.Task{}).
		Where("assignee_id = ?", userID).
		Update("assignee_id", nil).Error
}
