package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"pm-go/internal/middleware"
	"pm-go/internal/service"
	"pm-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError maps the service error taxonomy onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var (
		ve *service.ValidationError
		nf *service.NotFoundError
		ce *service.ConflictError
		ae *service.AuthenticationError
		rg *service.ReferentialGuardError
	)
	switch {
	case errors.As(err, &ve):
		utils.ValidationFailed(c, ve.Error(), ve.Violations)
	case errors.As(err, &nf):
		utils.NotFound(c, nf.Error())
	case errors.As(err, &ce):
		utils.Conflict(c, ce.Error())
	case errors.As(err, &ae):
		utils.Unauthorized(c, ae.Error())
	case errors.As(err, &rg):
		utils.BadRequest(c, rg.Error())
	default:
		_ = c.Error(err)
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		utils.InternalError(c, "Internal server error")
	}
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseQueryID reads an optional integer filter; absent yields nil
func parseQueryID(c *gin.Context, name string) (*uint, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	v := uint(id)
	return &v, true
}

func queryString(c *gin.Context, name string) *string {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	return &raw
}

// bindJSON decodes a create payload; a missing or malformed body is a 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			utils.BadRequest(c, "No data provided")
		} else {
			utils.BadRequest(c, "Invalid JSON body")
		}
		return false
	}
	return true
}

// updateRequest a partial-update payload that knows which fields were sent
type updateRequest interface {
	HasChanges() bool
}

// bindUpdate decodes a partial-update payload, which must set at least one known field
func bindUpdate(c *gin.Context, req updateRequest) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequest(c, "Invalid JSON body")
		return false
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		utils.BadRequest(c, "No data provided for update")
		return false
	}
	if err := json.Unmarshal(body, req); err != nil {
		utils.BadRequest(c, "Invalid JSON body")
		return false
	}
	if !req.HasChanges() {
		utils.BadRequest(c, "No data provided for update")
		return false
	}
	return true
}

func currentUserID(c *gin.Context) (uint, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		utils.Unauthorized(c, "Authentication required")
	}
	return id, ok
}
