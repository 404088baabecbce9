package service

import (
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"

	"gorm.io/gorm"
)

const clientInUseMessage = "Cannot delete client. Client is linked to existing projects. Please reassign or delete those projects first."

// ClientService client operations
type ClientService struct {
	db          *gorm.DB
	clientRepo  *repository.ClientRepository
	projectRepo *repository.ProjectRepository
}

// NewClientService creates a ClientService over db
func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{
		db:          db,
		clientRepo:  repository.NewClientRepository(db),
		projectRepo: repository.NewProjectRepository(db),
	}
}

// Create validates and inserts a client
func (s *ClientService) Create(req *dto.CreateClientRequest) (*dto.ClientResponse, error) {
	fields := ClientFields{Name: req.Name, ContactInfo: blankToNil(req.ContactInfo)}
	if err := check(nil, ValidateClient(fields)); err != nil {
		return nil, err
	}

	client := models.Client{Name: fields.Name, ContactInfo: fields.ContactInfo}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.clientRepo.WithTx(tx).Create(&client)
	})
	if err != nil {
		return nil, storeError("create client", err, "")
	}
	resp := dto.NewClientResponse(client, nil)
	return &resp, nil
}

// Get returns one serialized client
func (s *ClientService) Get(id uint) (*dto.ClientResponse, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		return nil, lookupError("get client", "Client", err)
	}
	resps, err := s.serialize(s.db, []models.Client{*client})
	if err != nil {
		return nil, err
	}
	return &resps[0], nil
}

// List returns every client
func (s *ClientService) List() ([]dto.ClientResponse, error) {
	clients, err := s.clientRepo.List()
	if err != nil {
		return nil, storeError("list clients", err, "")
	}
	return s.serialize(s.db, clients)
}

// Update merges the present fields of req into client id
func (s *ClientService) Update(id uint, req *dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	var resp dto.ClientResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		clients := s.clientRepo.WithTx(tx)
		client, err := clients.GetByID(id)
		if err != nil {
			return lookupError("load client", "Client", err)
		}

		fields := ClientFields{Name: client.Name, ContactInfo: client.ContactInfo}
		if req.Name.Set {
			fields.Name = req.Name.Value
		}
		if req.ContactInfo.Set {
			fields.ContactInfo = blankToNil(optionalText(req.ContactInfo))
		}
		if err := check(nil, ValidateClient(fields)); err != nil {
			return err
		}

		client.Name = fields.Name
		client.ContactInfo = fields.ContactInfo
		if err := clients.Update(client); err != nil {
			return err
		}
		resps, err := s.serialize(tx, []models.Client{*client})
		if err != nil {
			return err
		}
		resp = resps[0]
		return nil
	})
	if err != nil {
		return nil, storeError("update client", err, "")
	}
	return &resp, nil
}

// Delete removes client id unless a project still references it
func (s *ClientService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		clients := s.clientRepo.WithTx(tx)
		ok, err := clients.Exists(id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("Client")
		}
		count, err := s.projectRepo.WithTx(tx).CountByClient(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &ReferentialGuardError{Message: clientInUseMessage}
		}
		return clients.Delete(id)
	})
	return storeError("delete client", err, "")
}

func (s *ClientService) serialize(db *gorm.DB, clients []models.Client) ([]dto.ClientResponse, error) {
	ids := make([]uint, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}
	projectIDs, err := s.projectRepo.WithTx(db).IDsByClient(ids)
	if err != nil {
		return nil, storeError("load client projects", err, "")
	}
	resps := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		resps = append(resps, dto.NewClientResponse(c, projectIDs[c.ID]))
	}
	return resps, nil
}
