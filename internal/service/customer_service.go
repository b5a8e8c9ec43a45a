package service

import (
	"context"

	"backend/internal/apperror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CustomerRequest struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	IsActive    *bool           `json:"is_active"`
}

var customerSortColumns = map[string]bool{
	"created_at": true,
	"name":       true,
}

type CustomerService interface {
	Create(ctx context.Context, req CustomerRequest) (*model.CustomerProfile, error)
	Get(ctx context.Context, id uuid.UUID) (*model.CustomerProfile, error)
	List(ctx context.Context, search string, p pagination.Params) ([]model.CustomerProfile, int64, error)
	Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*model.CustomerProfile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	customers repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) Create(ctx context.Context, req CustomerRequest) (*model.CustomerProfile, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if req.CreditLimit.IsNegative() {
		return nil, apperror.Validation(map[string]string{"credit_limit": "must not be negative"})
	}

	customer := &model.CustomerProfile{
		TenantID:    tenant.ID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
		IsActive:    true,
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperror.Internal("failed to create customer", err)
	}
	return customer, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*model.CustomerProfile, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "customer")
	}
	return customer, nil
}

func (s *customerService) List(ctx context.Context, search string, p pagination.Params) ([]model.CustomerProfile, int64, error) {
	sort := sortColumn(customerSortColumns, p.Sort, "created_at")
	customers, total, err := s.customers.List(ctx, search, p.Offset(), p.PerPage, sort, p.Order)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list customers", err)
	}
	return customers, total, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*model.CustomerProfile, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "customer")
	}
	if req.CreditLimit.IsNegative() {
		return nil, apperror.Validation(map[string]string{"credit_limit": "must not be negative"})
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.CreditLimit = req.CreditLimit
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperror.Internal("failed to update customer", err)
	}
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customers.GetByID(ctx, id); err != nil {
		return apperror.Wrap(err, "customer")
	}
	open, err := s.customers.CountOpenOrders(ctx, id)
	if err != nil {
		return apperror.Internal("failed to check customer orders", err)
	}
	if open > 0 {
		return apperror.BadRequest("customer has undelivered orders")
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return apperror.Internal("failed to delete customer", err)
	}
	return nil
}
