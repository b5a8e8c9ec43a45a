package repository

import (
	"context"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TopProduct is a delivered-quantity ranking row
type TopProduct struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// DashboardRepository runs the aggregate rollups behind the summary view.
// Every query is tenant-scoped.
type DashboardRepository interface {
	CountByStatus(ctx context.Context, entity interface{}, statusColumn string) (map[string]int64, error)
	Count(ctx context.Context, entity interface{}) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
	ExpenseTotal(ctx context.Context) (decimal.Decimal, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	RecentOrders(ctx context.Context, limit int) ([]model.Order, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

type statusCount struct {
	Status string
	Count  int64
}

func (r *dashboardRepository) CountByStatus(ctx context.Context, entity interface{}, statusColumn string) (map[string]int64, error) {
	var rows []statusCount
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(entity).
		Select(statusColumn + " AS status, COUNT(*) AS count").
		Group(statusColumn).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *dashboardRepository) Count(ctx context.Context, entity interface{}) (int64, error) {
	var count int64
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(entity).Count(&count).Error
	return count, err
}

// Revenue sums the totals of delivered orders
func (r *dashboardRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Order{}).
		Where("status = ?", model.OrderStatusDelivered).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// ExpenseTotal sums approved and paid expenses
func (r *dashboardRepository) ExpenseTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Expense{}).
		Where("approval_status IN ?", []string{model.ExpenseStatusApproved, model.ExpenseStatusPaid}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *dashboardRepository) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := scope.ScopedTable(ctx, GetDB(ctx, r.db), "order_items").Model(&model.OrderItem{}).
		Select(`order_items.product_id AS product_id,
			products.name AS product_name,
			products.sku AS product_sku,
			SUM(order_items.quantity) AS quantity,
			SUM(order_items.subtotal) AS revenue`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.status = ?", model.OrderStatusDelivered).
		Group("order_items.product_id, products.name, products.sku").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) RecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).
		Order("created_at desc").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
