// Package scope carries the per-request tenant and principal and guarantees
// that every tenant-owned query is constrained to the resolved tenant.
package scope

import (
	"context"

	"gorm.io/gorm"
)

// Scoped returns db constrained to the tenant resolved for ctx. Calling it
// without a resolved tenant is a programming error, not a request error, so it
// panics rather than silently returning an unscoped query.
func Scoped(ctx context.Context, db *gorm.DB) *gorm.DB {
	t, ok := TenantFrom(ctx)
	if !ok {
		panic("scope: query on tenant-owned data without a resolved tenant")
	}
	return db.Where("tenant_id = ?", t.ID)
}

// ScopedTable is Scoped with a table-qualified predicate for join queries
// where a bare tenant_id would be ambiguous.
func ScopedTable(ctx context.Context, db *gorm.DB, table string) *gorm.DB {
	t, ok := TenantFrom(ctx)
	if !ok {
		panic("scope: query on tenant-owned data without a resolved tenant")
	}
	return db.Where(table+".tenant_id = ?", t.ID)
}
