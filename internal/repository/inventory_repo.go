package repository

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementFilter narrows inventory movement listings
type MovementFilter struct {
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	Direction   string
	From        *time.Time
	To          *time.Time
}

type InventoryRepository interface {
	Create(ctx context.Context, movement *model.InventoryMovement) error
	List(ctx context.Context, filter MovementFilter, offset, limit int) ([]model.InventoryMovement, int64, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, movement *model.InventoryMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *inventoryRepository) List(ctx context.Context, filter MovementFilter, offset, limit int) ([]model.InventoryMovement, int64, error) {
	var movements []model.InventoryMovement
	var total int64

	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.InventoryMovement{})
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		q = q.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Direction != "" {
		q = q.Where("direction = ?", filter.Direction)
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
	if err := q.Preload("Product").Order("created_at desc").Offset(offset).Limit(limit).Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
