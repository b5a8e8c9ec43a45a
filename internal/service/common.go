// Package service holds the business logic between handlers and repositories:
// validation, state machines, audit recording and the dashboard rollups.
package service

import (
	"context"

	"backend/internal/scope"

	"github.com/google/uuid"
)

// sortColumn validates a requested sort field against a whitelist so user
// input never reaches the ORDER BY clause directly.
func sortColumn(allowed map[string]bool, requested, fallback string) string {
	if allowed[requested] {
		return requested
	}
	return fallback
}

// auditEntry pre-fills an audit entry with the request's tenant, principal
// and client identity.
func auditEntry(ctx context.Context, action, table string, recordID uuid.UUID) Entry {
	entry := Entry{
		Action:    action,
		TableName: table,
		RecordID:  recordID.String(),
	}
	if tenant, ok := scope.TenantFrom(ctx); ok {
		id := tenant.ID
		entry.TenantID = &id
	}
	if principal, ok := scope.PrincipalFrom(ctx); ok {
		id := principal.ID
		entry.UserID = &id
	}
	client := scope.ClientFrom(ctx)
	entry.IP = client.IP
	entry.UserAgent = client.UserAgent
	return entry
}
