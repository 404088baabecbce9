package handler

import (
	"pm-go/internal/dto"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler client endpoints
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a ClientHandler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClient creates a client
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.clientService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, resp)
}

// ListClients lists every client
func (h *ClientHandler) ListClients(c *gin.Context) {
	resp, err := h.clientService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// GetClient returns one client
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.clientService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// UpdateClient applies a partial update
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateClientRequest
	if !bindUpdate(c, &req) {
		return
	}
	resp, err := h.clientService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.OK(c, resp)
}

// DeleteClient removes a client no project references
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.clientService.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	utils.NoContent(c)
}
