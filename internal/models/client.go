package models

// Client owns projects; cannot be deleted while any project references it
type Client struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `gorm:"size:120;not null" json:"name"`
	ContactInfo *string `gorm:"size:200" json:"contact_info"`
}

// TableName overrides the table name
func (Client) TableName() string {
	return "clients"
}
