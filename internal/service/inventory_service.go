package service

import (
	"context"

	"backend/internal/apperror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"
	"backend/pkg/pagination"

	"github.com/google/uuid"
)

// --- DTOs ---

type AdjustStockRequest struct {
	ProductID   uuid.UUID  `json:"product_id" binding:"required"`
	WarehouseID *uuid.UUID `json:"warehouse_id"`
	NewStock    int        `json:"new_stock"`
	Reason      string     `json:"reason" binding:"required"`
}

// InventoryService exposes the movement ledger and manual stock corrections.
// Order and purchase flows write their own movements; Adjust is the escape
// hatch for counts and shrinkage.
type InventoryService interface {
	List(ctx context.Context, filter repository.MovementFilter, p pagination.Params) ([]model.InventoryMovement, int64, error)
	Adjust(ctx context.Context, req AdjustStockRequest) (*model.InventoryMovement, error)
}

type inventoryService struct {
	inventory repository.InventoryRepository
	products  repository.ProductRepository
	tx        repository.TransactionManager
	audit     AuditService
	cache     *DashboardCache
}

func NewInventoryService(
	inventory repository.InventoryRepository,
	products repository.ProductRepository,
	tx repository.TransactionManager,
	audit AuditService,
	cache *DashboardCache,
) InventoryService {
	return &inventoryService{
		inventory: inventory,
		products:  products,
		tx:        tx,
		audit:     audit,
		cache:     cache,
	}
}

func (s *inventoryService) List(ctx context.Context, filter repository.MovementFilter, p pagination.Params) ([]model.InventoryMovement, int64, error) {
	movements, total, err := s.inventory.List(ctx, filter, p.Offset(), p.PerPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list inventory movements", err)
	}
	return movements, total, nil
}

// Adjust sets the product's stock to the counted value and records an ADJUST
// movement carrying the delta.
func (s *inventoryService) Adjust(ctx context.Context, req AdjustStockRequest) (*model.InventoryMovement, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if req.NewStock < 0 {
		return nil, apperror.Validation(map[string]string{"new_stock": "must not be negative"})
	}

	var movement *model.InventoryMovement
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		product, err := s.products.GetByID(txCtx, req.ProductID)
		if err != nil {
			return apperror.Wrap(err, "product")
		}
		if product.CurrentStock == req.NewStock {
			return apperror.BadRequest("stock already at requested level")
		}

		delta := req.NewStock - product.CurrentStock
		if delta < 0 {
			delta = -delta
		}
		if err := s.products.UpdateStock(txCtx, product.ID, req.NewStock); err != nil {
			return apperror.Internal("failed to update stock", err)
		}

		movement = &model.InventoryMovement{
			TenantID:    tenant.ID,
			ProductID:   product.ID,
			WarehouseID: req.WarehouseID,
			Direction:   model.MovementAdjust,
			Quantity:    delta,
			StockAfter:  req.NewStock,
			Reason:      req.Reason,
		}
		if err := s.inventory.Create(txCtx, movement); err != nil {
			return apperror.Internal("failed to record inventory movement", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := auditEntry(ctx, model.ActionStockAdjusted, "inventory_movements", movement.ID)
	entry.NewValues = map[string]interface{}{
		"product_id":  req.ProductID,
		"stock_after": req.NewStock,
		"reason":      req.Reason,
	}
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(tenant.ID)

	return movement, nil
}
