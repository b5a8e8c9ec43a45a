package service

import (
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newExpenseService(db *gorm.DB) (ExpenseService, AuditService) {
	audit := NewAuditService(repository.NewAuditRepository(db))
	return NewExpenseService(repository.NewExpenseRepository(db), audit, NewDashboardCache(0)), audit
}

func TestExpenseApprovalFlow(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)

	svc, audit := newExpenseService(db)
	defer audit.Close()

	expense, err := svc.Create(ctx, ExpenseRequest{
		Category:    "travel",
		Amount:      decimal.NewFromInt(120),
		ExpenseDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusPending, expense.ApprovalStatus)

	// paying before approval is invalid
	_, err = svc.Pay(ctx, expense.ID)
	require.Error(t, err)

	approved, err := svc.Approve(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusApproved, approved.ApprovalStatus)
	assert.NotNil(t, approved.ApprovedAt)

	// approving twice is invalid
	_, err = svc.Approve(ctx, expense.ID)
	require.Error(t, err)

	paid, err := svc.Pay(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusPaid, paid.ApprovalStatus)
	assert.NotNil(t, paid.PaidAt)
}

func TestExpenseRejectedIsTerminal(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)

	svc, audit := newExpenseService(db)
	defer audit.Close()

	expense, err := svc.Create(ctx, ExpenseRequest{
		Category:    "office",
		Amount:      decimal.NewFromInt(40),
		ExpenseDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, expense.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, expense.ID)
	require.Error(t, err)
	_, err = svc.Pay(ctx, expense.ID)
	require.Error(t, err)

	got, err := svc.Get(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusRejected, got.ApprovalStatus)
}

func TestExpenseEditOnlyWhilePending(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	ctx := tenantCtx(tenant)

	svc, audit := newExpenseService(db)
	defer audit.Close()

	expense, err := svc.Create(ctx, ExpenseRequest{
		Category:    "office",
		Amount:      decimal.NewFromInt(40),
		ExpenseDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, expense.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, expense.ID, ExpenseRequest{
		Category:    "office",
		Amount:      decimal.NewFromInt(50),
		ExpenseDate: time.Now(),
	})
	require.Error(t, err)

	err = svc.Delete(ctx, expense.ID)
	require.Error(t, err)
}
