package repository

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings
type OrderFilter struct {
	Search     string // matches order_no
	Status     string
	CustomerID *uuid.UUID
	ShopID     *uuid.UUID
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter, offset, limit int, sort, order string) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdatePayment(ctx context.Context, order *model.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order with its items in a single insert chain. Callers
// wrap it in RunInTx together with the inventory movements.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		Preload("Shop").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter, offset, limit int, sort, order string) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Order{})
	if filter.Search != "" {
		q = q.Where("order_no LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ShopID != nil {
		q = q.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Preload("Items").Order(sort + " " + order).Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) UpdatePayment(ctx context.Context, order *model.Order) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"paid_amount":    order.PaidAmount,
			"payment_status": order.PaymentStatus,
		}).Error
}
