package repository

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseFilter narrows purchase listings
type PurchaseFilter struct {
	Search      string // matches purchase_no
	Status      string
	SupplierID  *uuid.UUID
	WarehouseID *uuid.UUID
	From        *time.Time
	To          *time.Time
}

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, filter PurchaseFilter, offset, limit int, sort, order string) ([]model.Purchase, int64, error)
	Update(ctx context.Context, purchase *model.Purchase) error
	ReplaceItems(ctx context.Context, purchase *model.Purchase, items []model.PurchaseItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	return GetDB(ctx, r.db).Create(purchase).Error
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).
		Preload("Items").
		Preload("Items.Product").
		Preload("Supplier").
		Preload("Warehouse").
		First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) List(ctx context.Context, filter PurchaseFilter, offset, limit int, sort, order string) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Purchase{})
	if filter.Search != "" {
		q = q.Where("purchase_no LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.SupplierID != nil {
		q = q.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.WarehouseID != nil {
		q = q.Where("warehouse_id = ?", *filter.WarehouseID)
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
	if err := q.Preload("Items").Order(sort + " " + order).Offset(offset).Limit(limit).Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

func (r *purchaseRepository) Update(ctx context.Context, purchase *model.Purchase) error {
	return GetDB(ctx, r.db).Save(purchase).Error
}

// ReplaceItems swaps a draft's line items. Runs inside the caller's tx.
func (r *purchaseRepository) ReplaceItems(ctx context.Context, purchase *model.Purchase, items []model.PurchaseItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Delete(&model.PurchaseItem{}, "purchase_id = ?", purchase.ID).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].PurchaseID = purchase.ID
		items[i].TenantID = purchase.TenantID
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

func (r *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Delete(&model.PurchaseItem{}, "purchase_id = ?", id).Error; err != nil {
		return err
	}
	return scope.Scoped(ctx, db).Delete(&model.Purchase{}, "id = ?", id).Error
}
