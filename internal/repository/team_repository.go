package repository

import (
	"pm-go/internal/models"

	"gorm.io/gorm"
)

// TeamRepository team and membership data access
type TeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a TeamRepository
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *TeamRepository) WithTx(tx *gorm.DB) *TeamRepository {
	return &TeamRepository{db: tx}
}

// Create inserts a team
func (r *TeamRepository) Create(team *models.Team) error {
	return r.db.Create(team).Error
}

// GetByID loads a team by id
func (r *TeamRepository) GetByID(id uint) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// Exists checks a team id
func (r *TeamRepository) Exists(id uint) (bool, error) {
	return exists(r.db, &models.Team{}, id)
}

// ExistsByName checks for another team named name; excludeID 0 checks all rows
func (r *TeamRepository) ExistsByName(name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&models.Team{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Update saves every column of team
func (r *TeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// Delete removes a team and its memberships
func (r *TeamRepository) Delete(id uint) error {
	if err := r.db.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Team{}, id).Error
}

// List returns all teams in insertion order
func (r *TeamRepository) List() ([]models.Team, error) {
	var teams []models.Team
	err := r.db.Order("id ASC").Find(&teams).Error
	return teams, err
}

// IsMember reports whether userID belongs to teamID
func (r *TeamRepository) IsMember(teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddMember inserts a membership row
func (r *TeamRepository) AddMember(teamID, userID uint) error {
	return r.db.Create(&models.TeamMember{TeamID: teamID, UserID: userID}).Error
}

// RemoveMember deletes a membership row
func (r *TeamRepository) RemoveMember(teamID, userID uint) error {
	return r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{}).Error
}

// RemoveUserFromAll deletes every membership of userID
func (r *TeamRepository) RemoveUserFromAll(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.TeamMember{}).Error
}

// MembersByTeam returns member users per team, ordered by user id
func (r *TeamRepository) MembersByTeam(teamIDs []uint) (map[uint][]models.User, error) {
	result := make(map[uint][]models.User, len(teamIDs))
	if len(teamIDs) == 0 {
		return result, nil
	}

	type memberRow struct {
		TeamID uint
		models.User
	}
	var rows []memberRow
	err := r.db.Table("team_members").
		Select("team_members.team_id, users.*").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id IN ?", teamIDs).
		Order("users.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.TeamID] = append(result[row.TeamID], row.User)
	}
	return result, nil
}

// TeamIDsByUser returns the ids of teams userID belongs to
func (r *TeamRepository) TeamIDsByUser(userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.Model(&models.TeamMember{}).
		Where("user_id = ?", userID).
		Order("team_id ASC").
		Pluck("team_id", &ids).Error
	return ids, err
}
