package repository

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings
type ProductFilter struct {
	Search     string // matches name or sku
	Status     string
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	SupplierID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter, offset, limit int, sort, order string) ([]model.Product, int64, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPendingOrderItems(ctx context.Context, productID uuid.UUID) (int64, error)
	UpdateStock(ctx context.Context, productID uuid.UUID, newStock int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).
		Preload("Category").Preload("Brand").Preload("Supplier").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter, offset, limit int, sort, order string) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	// tenant scope first, the most selective predicate
	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Product{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR sku LIKE ?", like, like)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.BrandID != nil {
		q = q.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.SupplierID != nil {
		q = q.Where("supplier_id = ?", *filter.SupplierID)
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
	if err := q.Order(sort + " " + order).Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Delete(&model.Product{}, "id = ?", id).Error
}

// CountPendingOrderItems backs the delete guard: products referenced by
// undelivered orders cannot be removed.
func (r *productRepository) CountPendingOrderItems(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := scope.ScopedTable(ctx, GetDB(ctx, r.db), "order_items").Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ?", productID).
		Where("orders.status IN ?", []string{model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusShipped}).
		Count(&count).Error
	return count, err
}

func (r *productRepository) UpdateStock(ctx context.Context, productID uuid.UUID, newStock int) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("current_stock", newStock).Error
}
