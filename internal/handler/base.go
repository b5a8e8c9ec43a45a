// Package handler wires HTTP routes to services and translates service
// errors into the response envelope.
package handler

import (
	"net/http"
	"time"

	"backend/internal/apperror"
	"backend/internal/scope"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// tenantInfo builds the envelope's tenant block from the resolved tenant,
// nil when the request ran tenant-less.
func tenantInfo(c *gin.Context) *response.TenantInfo {
	tenant, ok := scope.TenantFrom(c.Request.Context())
	if !ok {
		return nil
	}
	return &response.TenantInfo{
		ID:   tenant.ID.String(),
		Name: tenant.Name,
		Code: tenant.Code,
	}
}

// respondErr maps a service error onto the envelope, carrying the per-field
// map for validation failures.
func respondErr(c *gin.Context, err error) {
	status := apperror.Status(err)
	if fields := apperror.FieldsOf(err); fields != nil {
		c.JSON(status, response.ValidationError(err.Error(), fields, tenantInfo(c)))
		return
	}
	c.JSON(status, response.Error(err.Error(), tenantInfo(c)))
}

// bindJSON binds the request body, answering 400 on malformed payloads.
// Returns false when the request was already answered.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("invalid request payload: "+err.Error(), tenantInfo(c)))
		return false
	}
	return true
}

// pathID parses a uuid path parameter, answering 400 when it is not one.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("invalid "+name, tenantInfo(c)))
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional uuid query parameter
func queryID(c *gin.Context, name string) *uuid.UUID {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// queryTime parses an optional date query parameter, date-only or RFC3339
func queryTime(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	return nil
}
