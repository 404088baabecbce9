package dto

import (
	"pm-go/internal/models"
)

// CreateClientRequest client creation payload
type CreateClientRequest struct {
	Name        string  `json:"name"`
	ContactInfo *string `json:"contact_info"`
}

// UpdateClientRequest partial client update
type UpdateClientRequest struct {
	Name        Optional[string] `json:"name"`
	ContactInfo Optional[string] `json:"contact_info"`
}

// HasChanges reports whether any known field was sent
func (r *UpdateClientRequest) HasChanges() bool {
	return r.Name.Set || r.ContactInfo.Set
}

// ClientResponse serialized client
type ClientResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	ContactInfo *string `json:"contact_info"`
	Projects    []uint  `json:"projects"`
}

// NewClientResponse serializes c with the ids of its projects
func NewClientResponse(c models.Client, projectIDs []uint) ClientResponse {
	return ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		ContactInfo: c.ContactInfo,
		Projects:    nonNilIDs(projectIDs),
	}
}
