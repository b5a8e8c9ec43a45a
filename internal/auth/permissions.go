package auth

import "fmt"

// Permission codes. Dotted strings, case-sensitive, no wildcard matching.
const (
	PermUsersView        = "users.view"
	PermUsersManage      = "users.manage"
	PermRolesView        = "roles.view"
	PermRolesManage      = "roles.manage"
	PermProductsView     = "products.view"
	PermProductsManage   = "products.manage"
	PermCatalogView      = "catalog.view"
	PermCatalogManage    = "catalog.manage"
	PermOrdersView       = "orders.view"
	PermOrdersManage     = "orders.manage"
	PermOrdersPayment    = "orders.manage_payment"
	PermPurchasesView    = "purchases.view"
	PermPurchasesManage  = "purchases.manage"
	PermWarehousesView   = "warehouses.view"
	PermWarehousesManage = "warehouses.manage"
	PermShopsView        = "shops.view"
	PermShopsManage      = "shops.manage"
	PermExpensesView     = "expenses.view"
	PermExpensesManage   = "expenses.manage"
	PermExpensesApprove  = "expenses.approve"
	PermCustomersView    = "customers.view"
	PermCustomersManage  = "customers.manage"
	PermInventoryView    = "inventory.view"
	PermInventoryAdjust  = "inventory.adjust"
	PermNoticesView      = "notices.view"
	PermNoticesManage    = "notices.manage"
	PermAuditView        = "audit.view"
	PermAuditManage      = "audit.manage"
	PermDashboardView    = "dashboard.view"
)

// catalog is the canonical permission set. Gates referencing a code outside it
// fail fast at wire-up instead of silently always-denying.
var catalog = map[string]struct{}{
	PermUsersView: {}, PermUsersManage: {},
	PermRolesView: {}, PermRolesManage: {},
	PermProductsView: {}, PermProductsManage: {},
	PermCatalogView: {}, PermCatalogManage: {},
	PermOrdersView: {}, PermOrdersManage: {}, PermOrdersPayment: {},
	PermPurchasesView: {}, PermPurchasesManage: {},
	PermWarehousesView: {}, PermWarehousesManage: {},
	PermShopsView: {}, PermShopsManage: {},
	PermExpensesView: {}, PermExpensesManage: {}, PermExpensesApprove: {},
	PermCustomersView: {}, PermCustomersManage: {},
	PermInventoryView: {}, PermInventoryAdjust: {},
	PermNoticesView: {}, PermNoticesManage: {},
	PermAuditView: {}, PermAuditManage: {},
	PermDashboardView: {},
}

// Catalog returns all known permission codes
func Catalog() []string {
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	return codes
}

// Known reports whether code is part of the canonical catalog
func Known(code string) bool {
	_, ok := catalog[code]
	return ok
}

// MustKnow panics on any code outside the catalog. Called when permission
// gates are wired so a typo surfaces at startup.
func MustKnow(codes ...string) {
	for _, code := range codes {
		if !Known(code) {
			panic(fmt.Sprintf("auth: unknown permission code %q", code))
		}
	}
}
