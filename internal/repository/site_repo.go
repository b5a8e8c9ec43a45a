package repository

import (
	"context"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SiteRepository covers warehouses and shops: the tenant's physical locations.
type SiteRepository interface {
	CreateWarehouse(ctx context.Context, w *model.Warehouse) error
	GetWarehouse(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	ListWarehouses(ctx context.Context, search string, offset, limit int) ([]model.Warehouse, int64, error)
	UpdateWarehouse(ctx context.Context, w *model.Warehouse) error
	DeleteWarehouse(ctx context.Context, id uuid.UUID) error
	CountWarehouseMovements(ctx context.Context, id uuid.UUID) (int64, error)

	CreateShop(ctx context.Context, s *model.Shop) error
	GetShop(ctx context.Context, id uuid.UUID) (*model.Shop, error)
	ListShops(ctx context.Context, search string, offset, limit int) ([]model.Shop, int64, error)
	UpdateShop(ctx context.Context, s *model.Shop) error
	DeleteShop(ctx context.Context, id uuid.UUID) error
	CountShopOrders(ctx context.Context, id uuid.UUID) (int64, error)
}

type siteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) CreateWarehouse(ctx context.Context, w *model.Warehouse) error {
	return GetDB(ctx, r.db).Create(w).Error
}

func (r *siteRepository) GetWarehouse(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var w model.Warehouse
	if err := scope.Scoped(ctx, GetDB(ctx, r.db)).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *siteRepository) ListWarehouses(ctx context.Context, search string, offset, limit int) ([]model.Warehouse, int64, error) {
	var out []model.Warehouse
	var total int64
	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Warehouse{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("name asc").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *siteRepository) UpdateWarehouse(ctx context.Context, w *model.Warehouse) error {
	return GetDB(ctx, r.db).Save(w).Error
}

func (r *siteRepository) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Delete(&model.Warehouse{}, "id = ?", id).Error
}

func (r *siteRepository) CountWarehouseMovements(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.InventoryMovement{}).
		Where("warehouse_id = ?", id).Count(&count).Error
	return count, err
}

func (r *siteRepository) CreateShop(ctx context.Context, s *model.Shop) error {
	return GetDB(ctx, r.db).Create(s).Error
}

func (r *siteRepository) GetShop(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	var s model.Shop
	if err := scope.Scoped(ctx, GetDB(ctx, r.db)).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *siteRepository) ListShops(ctx context.Context, search string, offset, limit int) ([]model.Shop, int64, error) {
	var out []model.Shop
	var total int64
	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Shop{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("name asc").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *siteRepository) UpdateShop(ctx context.Context, s *model.Shop) error {
	return GetDB(ctx, r.db).Save(s).Error
}

func (r *siteRepository) DeleteShop(ctx context.Context, id uuid.UUID) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Delete(&model.Shop{}, "id = ?", id).Error
}

func (r *siteRepository) CountShopOrders(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Order{}).
		Where("shop_id = ? AND status IN ?", id,
			[]string{model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusShipped}).
		Count(&count).Error
	return count, err
}
