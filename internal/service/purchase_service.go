package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/apperror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type PurchaseItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
}

type PurchaseRequest struct {
	SupplierID  *uuid.UUID            `json:"supplier_id"`
	WarehouseID *uuid.UUID            `json:"warehouse_id"`
	Note        string                `json:"note"`
	Items       []PurchaseItemRequest `json:"items" binding:"required,min=1"`
}

var purchaseSortColumns = map[string]bool{
	"created_at":  true,
	"purchase_no": true,
	"total":       true,
	"status":      true,
}

type PurchaseService interface {
	Create(ctx context.Context, req PurchaseRequest) (*model.Purchase, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, filter repository.PurchaseFilter, p pagination.Params) ([]model.Purchase, int64, error)
	Update(ctx context.Context, id uuid.UUID, req PurchaseRequest) (*model.Purchase, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkOrdered(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	Receive(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	tx        repository.TransactionManager
	audit     AuditService
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	products repository.ProductRepository,
	inventory repository.InventoryRepository,
	tx repository.TransactionManager,
	audit AuditService,
) PurchaseService {
	return &purchaseService{
		purchases: purchases,
		products:  products,
		inventory: inventory,
		tx:        tx,
		audit:     audit,
	}
}

func newPurchaseNo() string {
	return fmt.Sprintf("PUR-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8])
}

func buildPurchaseItems(ctx context.Context, products repository.ProductRepository, tenantID uuid.UUID, reqs []PurchaseItemRequest) ([]model.PurchaseItem, decimal.Decimal, error) {
	total := decimal.Zero
	items := make([]model.PurchaseItem, 0, len(reqs))
	for i, line := range reqs {
		if line.Quantity <= 0 {
			return nil, decimal.Zero, apperror.Validation(map[string]string{
				fmt.Sprintf("items.%d.quantity", i): "must be positive",
			})
		}
		if line.UnitCost.IsNegative() {
			return nil, decimal.Zero, apperror.Validation(map[string]string{
				fmt.Sprintf("items.%d.unit_cost", i): "must not be negative",
			})
		}
		if _, err := products.GetByID(ctx, line.ProductID); err != nil {
			return nil, decimal.Zero, apperror.Wrap(err, "product")
		}
		subtotal := line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)
		items = append(items, model.PurchaseItem{
			TenantID:  tenantID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			Subtotal:  subtotal,
		})
	}
	return items, total, nil
}

func (s *purchaseService) Create(ctx context.Context, req PurchaseRequest) (*model.Purchase, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	items, total, err := buildPurchaseItems(ctx, s.products, tenant.ID, req.Items)
	if err != nil {
		return nil, err
	}

	purchase := &model.Purchase{
		TenantID:    tenant.ID,
		PurchaseNo:  newPurchaseNo(),
		SupplierID:  req.SupplierID,
		WarehouseID: req.WarehouseID,
		Status:      model.PurchaseStatusDraft,
		Items:       items,
		Total:       total,
		Note:        req.Note,
	}
	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, apperror.Internal("failed to create purchase", err)
	}

	entry := auditEntry(ctx, model.ActionPurchaseCreated, "purchases", purchase.ID)
	entry.NewValues = map[string]interface{}{"purchase_no": purchase.PurchaseNo, "total": purchase.Total}
	s.audit.Record(ctx, entry)

	return purchase, nil
}

func (s *purchaseService) Get(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "purchase")
	}
	return purchase, nil
}

func (s *purchaseService) List(ctx context.Context, filter repository.PurchaseFilter, p pagination.Params) ([]model.Purchase, int64, error) {
	sort := sortColumn(purchaseSortColumns, p.Sort, "created_at")
	purchases, total, err := s.purchases.List(ctx, filter, p.Offset(), p.PerPage, sort, p.Order)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list purchases", err)
	}
	return purchases, total, nil
}

// Update edits a draft in place, swapping its items
func (s *purchaseService) Update(ctx context.Context, id uuid.UUID, req PurchaseRequest) (*model.Purchase, error) {
	purchase, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "purchase")
	}
	if purchase.Status != model.PurchaseStatusDraft {
		return nil, apperror.BadRequest("only draft purchases can be edited")
	}
	items, total, err := buildPurchaseItems(ctx, s.products, purchase.TenantID, req.Items)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.purchases.ReplaceItems(txCtx, purchase, items); err != nil {
			return apperror.Internal("failed to replace purchase items", err)
		}
		purchase.SupplierID = req.SupplierID
		purchase.WarehouseID = req.WarehouseID
		purchase.Note = req.Note
		purchase.Total = total
		purchase.Items = nil
		if err := s.purchases.Update(txCtx, purchase); err != nil {
			return apperror.Internal("failed to update purchase", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	purchase.Items = items

	entry := auditEntry(ctx, model.ActionPurchaseUpdated, "purchases", purchase.ID)
	entry.NewValues = map[string]interface{}{"total": purchase.Total, "items": len(items)}
	s.audit.Record(ctx, entry)

	return purchase, nil
}

func (s *purchaseService) Delete(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return apperror.Wrap(err, "purchase")
	}
	if purchase.Status != model.PurchaseStatusDraft {
		return apperror.BadRequest("only draft purchases can be deleted")
	}
	if err := s.purchases.Delete(ctx, id); err != nil {
		return apperror.Internal("failed to delete purchase", err)
	}
	s.audit.Record(ctx, auditEntry(ctx, model.ActionPurchaseDeleted, "purchases", purchase.ID))
	return nil
}

func (s *purchaseService) MarkOrdered(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "purchase")
	}
	if purchase.Status != model.PurchaseStatusDraft {
		return nil, apperror.BadRequestf("cannot order a %s purchase", purchase.Status)
	}

	purchase.Status = model.PurchaseStatusOrdered
	purchase.Items = nil
	if err := s.purchases.Update(ctx, purchase); err != nil {
		return nil, apperror.Internal("failed to update purchase status", err)
	}

	entry := auditEntry(ctx, model.ActionPurchaseOrdered, "purchases", purchase.ID)
	entry.OldValues = map[string]interface{}{"status": model.PurchaseStatusDraft}
	entry.NewValues = map[string]interface{}{"status": model.PurchaseStatusOrdered}
	s.audit.Record(ctx, entry)

	return s.Get(ctx, id)
}

// Receive books the incoming stock: one IN movement per line, product stock
// updated, all inside a single transaction.
func (s *purchaseService) Receive(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "purchase")
	}
	if purchase.Status != model.PurchaseStatusOrdered {
		return nil, apperror.BadRequestf("cannot receive a %s purchase", purchase.Status)
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, item := range purchase.Items {
			product, err := s.products.GetByID(txCtx, item.ProductID)
			if err != nil {
				return apperror.Wrap(err, "product")
			}
			newStock := product.CurrentStock + item.Quantity
			if err := s.products.UpdateStock(txCtx, product.ID, newStock); err != nil {
				return apperror.Internal("failed to update stock", err)
			}
			movement := &model.InventoryMovement{
				TenantID:    purchase.TenantID,
				ProductID:   product.ID,
				WarehouseID: purchase.WarehouseID,
				Direction:   model.MovementIn,
				Quantity:    item.Quantity,
				StockAfter:  newStock,
				ReferenceID: &purchase.ID,
			}
			if err := s.inventory.Create(txCtx, movement); err != nil {
				return apperror.Internal("failed to record inventory movement", err)
			}
		}
		now := time.Now()
		purchase.Status = model.PurchaseStatusReceived
		purchase.ReceivedAt = &now
		purchase.Items = nil
		if err := s.purchases.Update(txCtx, purchase); err != nil {
			return apperror.Internal("failed to update purchase status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := auditEntry(ctx, model.ActionPurchaseReceived, "purchases", purchase.ID)
	entry.OldValues = map[string]interface{}{"status": model.PurchaseStatusOrdered}
	entry.NewValues = map[string]interface{}{"status": model.PurchaseStatusReceived}
	s.audit.Record(ctx, entry)

	return s.Get(ctx, id)
}

func (s *purchaseService) Cancel(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "purchase")
	}
	if purchase.Status != model.PurchaseStatusDraft && purchase.Status != model.PurchaseStatusOrdered {
		return nil, apperror.BadRequestf("cannot cancel a %s purchase", purchase.Status)
	}

	oldStatus := purchase.Status
	purchase.Status = model.PurchaseStatusCancelled
	purchase.Items = nil
	if err := s.purchases.Update(ctx, purchase); err != nil {
		return nil, apperror.Internal("failed to update purchase status", err)
	}

	entry := auditEntry(ctx, model.ActionPurchaseCancelled, "purchases", purchase.ID)
	entry.OldValues = map[string]interface{}{"status": oldStatus}
	entry.NewValues = map[string]interface{}{"status": model.PurchaseStatusCancelled}
	s.audit.Record(ctx, entry)

	return s.Get(ctx, id)
}
