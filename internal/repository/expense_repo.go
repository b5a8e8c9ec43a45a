package repository

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseFilter narrows expense listings
type ExpenseFilter struct {
	Search   string // matches description or category
	Status   string
	Category string
	From     *time.Time
	To       *time.Time
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, filter ExpenseFilter, offset, limit int, sort, order string) ([]model.Expense, int64, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := scope.Scoped(ctx, GetDB(ctx, r.db)).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, filter ExpenseFilter, offset, limit int, sort, order string) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Expense{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("description LIKE ? OR category LIKE ?", like, like)
	}
	if filter.Status != "" {
		q = q.Where("approval_status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		q = q.Where("expense_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("expense_date <= ?", *filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order(sort + " " + order).Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Delete(&model.Expense{}, "id = ?", id).Error
}
