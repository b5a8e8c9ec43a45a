package service

import (
	"context"
	"time"

	"backend/internal/apperror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type ExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate time.Time       `json:"expense_date" binding:"required"`
	ReceiptURL  string          `json:"receipt_url"`
	Description string          `json:"description"`
}

var expenseSortColumns = map[string]bool{
	"created_at":   true,
	"expense_date": true,
	"amount":       true,
	"category":     true,
}

type ExpenseService interface {
	Create(ctx context.Context, req ExpenseRequest) (*model.Expense, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, filter repository.ExpenseFilter, p pagination.Params) ([]model.Expense, int64, error)
	Update(ctx context.Context, id uuid.UUID, req ExpenseRequest) (*model.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Approve(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	Reject(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	Pay(ctx context.Context, id uuid.UUID) (*model.Expense, error)
}

type expenseService struct {
	expenses repository.ExpenseRepository
	audit    AuditService
	cache    *DashboardCache
}

func NewExpenseService(expenses repository.ExpenseRepository, audit AuditService, cache *DashboardCache) ExpenseService {
	return &expenseService{expenses: expenses, audit: audit, cache: cache}
}

func (s *expenseService) Create(ctx context.Context, req ExpenseRequest) (*model.Expense, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation(map[string]string{"amount": "must be positive"})
	}

	expense := &model.Expense{
		TenantID:       tenant.ID,
		Category:       req.Category,
		Amount:         req.Amount,
		ExpenseDate:    req.ExpenseDate,
		ApprovalStatus: model.ExpenseStatusPending,
		ReceiptURL:     req.ReceiptURL,
		Description:    req.Description,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, apperror.Internal("failed to create expense", err)
	}

	entry := auditEntry(ctx, model.ActionExpenseCreated, "expenses", expense.ID)
	entry.NewValues = map[string]interface{}{"category": expense.Category, "amount": expense.Amount}
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(tenant.ID)

	return expense, nil
}

func (s *expenseService) Get(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "expense")
	}
	return expense, nil
}

func (s *expenseService) List(ctx context.Context, filter repository.ExpenseFilter, p pagination.Params) ([]model.Expense, int64, error) {
	sort := sortColumn(expenseSortColumns, p.Sort, "expense_date")
	expenses, total, err := s.expenses.List(ctx, filter, p.Offset(), p.PerPage, sort, p.Order)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list expenses", err)
	}
	return expenses, total, nil
}

// Update only applies to pending expenses; the approval trail would be
// meaningless otherwise.
func (s *expenseService) Update(ctx context.Context, id uuid.UUID, req ExpenseRequest) (*model.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "expense")
	}
	if expense.ApprovalStatus != model.ExpenseStatusPending {
		return nil, apperror.BadRequest("only pending expenses can be edited")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation(map[string]string{"amount": "must be positive"})
	}

	old := *expense
	expense.Category = req.Category
	expense.Amount = req.Amount
	expense.ExpenseDate = req.ExpenseDate
	expense.ReceiptURL = req.ReceiptURL
	expense.Description = req.Description
	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, apperror.Internal("failed to update expense", err)
	}

	entry := auditEntry(ctx, model.ActionExpenseUpdated, "expenses", expense.ID)
	entry.OldValues = old
	entry.NewValues = expense
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(expense.TenantID)

	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return apperror.Wrap(err, "expense")
	}
	if expense.ApprovalStatus != model.ExpenseStatusPending {
		return apperror.BadRequest("only pending expenses can be deleted")
	}
	if err := s.expenses.Delete(ctx, id); err != nil {
		return apperror.Internal("failed to delete expense", err)
	}
	s.cache.Invalidate(expense.TenantID)
	return nil
}

// setApproval moves the expense along the approval state machine
func (s *expenseService) setApproval(ctx context.Context, id uuid.UUID, from []string, to, action string) (*model.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "expense")
	}
	allowed := false
	for _, status := range from {
		if expense.ApprovalStatus == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperror.BadRequestf("cannot move expense from %s to %s", expense.ApprovalStatus, to)
	}

	oldStatus := expense.ApprovalStatus
	now := time.Now()
	expense.ApprovalStatus = to
	switch to {
	case model.ExpenseStatusApproved, model.ExpenseStatusRejected:
		expense.ApprovedAt = &now
		if principal, ok := scope.PrincipalFrom(ctx); ok {
			id := principal.ID
			expense.ApprovedByID = &id
		}
	case model.ExpenseStatusPaid:
		expense.PaidAt = &now
	}
	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, apperror.Internal("failed to update expense status", err)
	}

	entry := auditEntry(ctx, action, "expenses", expense.ID)
	entry.OldValues = map[string]interface{}{"approval_status": oldStatus}
	entry.NewValues = map[string]interface{}{"approval_status": to}
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(expense.TenantID)

	return expense, nil
}

func (s *expenseService) Approve(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	return s.setApproval(ctx, id, []string{model.ExpenseStatusPending}, model.ExpenseStatusApproved, model.ActionExpenseApproved)
}

func (s *expenseService) Reject(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	return s.setApproval(ctx, id, []string{model.ExpenseStatusPending}, model.ExpenseStatusRejected, model.ActionExpenseRejected)
}

func (s *expenseService) Pay(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	return s.setApproval(ctx, id, []string{model.ExpenseStatusApproved}, model.ExpenseStatusPaid, model.ActionExpensePaid)
}
