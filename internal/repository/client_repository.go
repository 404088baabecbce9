package repository

import (
	"pm-go/internal/models"

	"gorm.io/gorm"
)

// ClientRepository client data access
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a ClientRepository
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// WithTx returns a copy bound to tx
func (r *ClientRepository) WithTx(tx *gorm.DB) *ClientRepository {
	return &ClientRepository{db: tx}
}

// Create inserts a client
func (r *ClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// GetByID loads a client by id
func (r *ClientRepository) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// Exists checks a client id
func (r *ClientRepository) Exists(id uint) (bool, error) {
	return exists(r.db, &models.Client{}, id)
}

// Update saves every column of client
func (r *ClientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete removes a client row
func (r *ClientRepository) Delete(id uint) error {
	return r.db.Delete(&models.Client{}, id).Error
}

// List returns all clients in insertion order
func (r *ClientRepository) List() ([]models.Client, error) {
	var clients []models.Client
	err := r.db.Order("id ASC").Find(&clients).Error
	return clients, err
}
