package service

import (
	"context"

	"backend/internal/apperror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"

	"github.com/shopspring/decimal"
)

// DashboardSummary is the aggregate snapshot served at /api/dashboard
type DashboardSummary struct {
	Products        int64                   `json:"products"`
	Customers       int64                   `json:"customers"`
	OrdersByStatus  map[string]int64        `json:"orders_by_status"`
	Revenue         decimal.Decimal         `json:"revenue"`
	ExpenseTotal    decimal.Decimal         `json:"expense_total"`
	PendingExpenses int64                   `json:"pending_expenses"`
	TopProducts     []repository.TopProduct `json:"top_products"`
	RecentOrders    []model.Order           `json:"recent_orders"`
}

const (
	topProductLimit  = 5
	recentOrderLimit = 10
)

// DashboardService computes the summary with a per-tenant TTL cache in front.
// Writers to orders, expenses, products and stock invalidate the tenant's entry.
type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	repo  repository.DashboardRepository
	cache *DashboardCache
}

func NewDashboardService(repo repository.DashboardRepository, cache *DashboardCache) DashboardService {
	return &dashboardService{repo: repo, cache: cache}
}

func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(tenant.ID); ok {
		return cached, nil
	}

	summary := &DashboardSummary{}

	if summary.Products, err = s.repo.Count(ctx, &model.Product{}); err != nil {
		return nil, apperror.Internal("failed to count products", err)
	}
	if summary.Customers, err = s.repo.Count(ctx, &model.CustomerProfile{}); err != nil {
		return nil, apperror.Internal("failed to count customers", err)
	}
	if summary.OrdersByStatus, err = s.repo.CountByStatus(ctx, &model.Order{}, "status"); err != nil {
		return nil, apperror.Internal("failed to count orders", err)
	}
	if summary.Revenue, err = s.repo.Revenue(ctx); err != nil {
		return nil, apperror.Internal("failed to compute revenue", err)
	}
	if summary.ExpenseTotal, err = s.repo.ExpenseTotal(ctx); err != nil {
		return nil, apperror.Internal("failed to compute expense total", err)
	}

	expensesByStatus, err := s.repo.CountByStatus(ctx, &model.Expense{}, "approval_status")
	if err != nil {
		return nil, apperror.Internal("failed to count expenses", err)
	}
	summary.PendingExpenses = expensesByStatus[model.ExpenseStatusPending]

	if summary.TopProducts, err = s.repo.TopProducts(ctx, topProductLimit); err != nil {
		return nil, apperror.Internal("failed to rank products", err)
	}
	if summary.RecentOrders, err = s.repo.RecentOrders(ctx, recentOrderLimit); err != nil {
		return nil, apperror.Internal("failed to load recent orders", err)
	}

	s.cache.Set(tenant.ID, summary)
	return summary, nil
}
