package repository

import (
	"context"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.CustomerProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CustomerProfile, error)
	List(ctx context.Context, search string, offset, limit int, sort, order string) ([]model.CustomerProfile, int64, error)
	Update(ctx context.Context, customer *model.CustomerProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountOpenOrders(ctx context.Context, customerID uuid.UUID) (int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.CustomerProfile) error {
	return GetDB(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CustomerProfile, error) {
	var customer model.CustomerProfile
	if err := scope.Scoped(ctx, GetDB(ctx, r.db)).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, search string, offset, limit int, sort, order string) ([]model.CustomerProfile, int64, error) {
	var customers []model.CustomerProfile
	var total int64

	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.CustomerProfile{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order(sort + " " + order).Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *model.CustomerProfile) error {
	return GetDB(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Delete(&model.CustomerProfile{}, "id = ?", id).Error
}

func (r *customerRepository) CountOpenOrders(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Order{}).
		Where("customer_id = ? AND status IN ?", customerID,
			[]string{model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusShipped}).
		Count(&count).Error
	return count, err
}
