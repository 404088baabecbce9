package models

// Team groups member users and owns projects
type Team struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;size:120;not null" json:"name"`
}

// TableName overrides the table name
func (Team) TableName() string {
	return "teams"
}

// TeamMember join row of the team_members table
type TeamMember struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false"`
	TeamID uint `gorm:"primaryKey;autoIncrement:false"`
}

// TableName overrides the table name
func (TeamMember) TableName() string {
	return "team_members"
}
