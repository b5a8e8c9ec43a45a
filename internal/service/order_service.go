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

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"`
}

type OrderRequest struct {
	CustomerID  *uuid.UUID         `json:"customer_id"`
	ShopID      *uuid.UUID         `json:"shop_id"`
	WarehouseID *uuid.UUID         `json:"warehouse_id"`
	Discount    decimal.Decimal    `json:"discount"`
	Note        string             `json:"note"`
	Items       []OrderItemRequest `json:"items" binding:"required,min=1"`
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

var orderSortColumns = map[string]bool{
	"created_at": true,
	"order_no":   true,
	"total":      true,
	"status":     true,
}

// validNextOrderStatus is the order state machine. Cancellation is handled
// separately because it restores stock for already-confirmed orders.
var validNextOrderStatus = map[string]string{
	model.OrderStatusPending:   model.OrderStatusConfirmed,
	model.OrderStatusConfirmed: model.OrderStatusShipped,
	model.OrderStatusShipped:   model.OrderStatusDelivered,
}

type OrderService interface {
	Create(ctx context.Context, req OrderRequest) (*model.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter repository.OrderFilter, p pagination.Params) ([]model.Order, int64, error)
	Confirm(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Ship(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Deliver(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Order, error)
	RecordPayment(ctx context.Context, id uuid.UUID, req PaymentRequest) (*model.Order, error)
}

type orderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	tx        repository.TransactionManager
	audit     AuditService
	cache     *DashboardCache
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	inventory repository.InventoryRepository,
	tx repository.TransactionManager,
	audit AuditService,
	cache *DashboardCache,
) OrderService {
	return &orderService{
		orders:    orders,
		products:  products,
		inventory: inventory,
		tx:        tx,
		audit:     audit,
		cache:     cache,
	}
}

func newOrderNo() string {
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8])
}

// Create persists the order, its items and the outgoing inventory movements
// atomically. Insufficient stock on any line aborts the whole order.
func (s *orderService) Create(ctx context.Context, req OrderRequest) (*model.Order, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if req.Discount.IsNegative() {
		return nil, apperror.Validation(map[string]string{"discount": "must not be negative"})
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperror.Validation(map[string]string{
				fmt.Sprintf("items.%d.quantity", i): "must be positive",
			})
		}
	}

	var order *model.Order
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		subtotal := decimal.Zero
		items := make([]model.OrderItem, 0, len(req.Items))
		movements := make([]*model.InventoryMovement, 0, len(req.Items))

		for _, line := range req.Items {
			product, err := s.products.GetByID(txCtx, line.ProductID)
			if err != nil {
				return apperror.Wrap(err, "product")
			}
			if product.Status != model.ProductStatusActive {
				return apperror.BadRequestf("product %s is inactive", product.SKU)
			}
			if product.CurrentStock < line.Quantity {
				return apperror.BadRequestf("insufficient stock for %s (have %d, need %d)",
					product.SKU, product.CurrentStock, line.Quantity)
			}

			price := product.SellingPrice
			if !product.DiscountPrice.IsZero() {
				price = product.DiscountPrice
			}
			lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			subtotal = subtotal.Add(lineTotal)

			items = append(items, model.OrderItem{
				TenantID:  tenant.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: price,
				Subtotal:  lineTotal,
			})

			newStock := product.CurrentStock - line.Quantity
			if err := s.products.UpdateStock(txCtx, product.ID, newStock); err != nil {
				return apperror.Internal("failed to update stock", err)
			}
			movements = append(movements, &model.InventoryMovement{
				TenantID:    tenant.ID,
				ProductID:   product.ID,
				WarehouseID: req.WarehouseID,
				Direction:   model.MovementOut,
				Quantity:    line.Quantity,
				StockAfter:  newStock,
			})
		}

		if req.Discount.GreaterThan(subtotal) {
			return apperror.Validation(map[string]string{"discount": "must not exceed subtotal"})
		}

		order = &model.Order{
			TenantID:      tenant.ID,
			OrderNo:       newOrderNo(),
			CustomerID:    req.CustomerID,
			ShopID:        req.ShopID,
			WarehouseID:   req.WarehouseID,
			Status:        model.OrderStatusPending,
			Items:         items,
			Subtotal:      subtotal,
			Discount:      req.Discount,
			Total:         subtotal.Sub(req.Discount),
			PaymentStatus: model.PaymentStatusUnpaid,
			Note:          req.Note,
		}
		if err := s.orders.Create(txCtx, order); err != nil {
			return apperror.Internal("failed to create order", err)
		}

		for _, m := range movements {
			m.ReferenceID = &order.ID
			if err := s.inventory.Create(txCtx, m); err != nil {
				return apperror.Internal("failed to record inventory movement", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := auditEntry(ctx, model.ActionOrderCreated, "orders", order.ID)
	entry.NewValues = map[string]interface{}{"order_no": order.OrderNo, "total": order.Total, "items": len(order.Items)}
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(tenant.ID)

	return order, nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "order")
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, filter repository.OrderFilter, p pagination.Params) ([]model.Order, int64, error) {
	sort := sortColumn(orderSortColumns, p.Sort, "created_at")
	orders, total, err := s.orders.List(ctx, filter, p.Offset(), p.PerPage, sort, p.Order)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list orders", err)
	}
	return orders, total, nil
}

// transition advances the order along the forward state machine
func (s *orderService) transition(ctx context.Context, id uuid.UUID, target, action string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "order")
	}
	if validNextOrderStatus[order.Status] != target {
		return nil, apperror.BadRequestf("cannot move order from %s to %s", order.Status, target)
	}
	if err := s.orders.UpdateStatus(ctx, id, target); err != nil {
		return nil, apperror.Internal("failed to update order status", err)
	}

	entry := auditEntry(ctx, action, "orders", order.ID)
	entry.OldValues = map[string]interface{}{"status": order.Status}
	entry.NewValues = map[string]interface{}{"status": target}
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(order.TenantID)

	order.Status = target
	return order, nil
}

func (s *orderService) Confirm(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, id, model.OrderStatusConfirmed, model.ActionOrderConfirmed)
}

func (s *orderService) Ship(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, id, model.OrderStatusShipped, model.ActionOrderShipped)
}

func (s *orderService) Deliver(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, id, model.OrderStatusDelivered, model.ActionOrderDelivered)
}

// Cancel is allowed from any pre-delivery state and puts the reserved stock
// back, reversing each line with an IN movement.
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "order")
	}
	switch order.Status {
	case model.OrderStatusDelivered:
		return nil, apperror.BadRequest("delivered orders cannot be cancelled")
	case model.OrderStatusCancelled:
		return nil, apperror.BadRequest("order is already cancelled")
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, item := range order.Items {
			product, err := s.products.GetByID(txCtx, item.ProductID)
			if err != nil {
				return apperror.Wrap(err, "product")
			}
			newStock := product.CurrentStock + item.Quantity
			if err := s.products.UpdateStock(txCtx, product.ID, newStock); err != nil {
				return apperror.Internal("failed to restore stock", err)
			}
			movement := &model.InventoryMovement{
				TenantID:    order.TenantID,
				ProductID:   product.ID,
				WarehouseID: order.WarehouseID,
				Direction:   model.MovementIn,
				Quantity:    item.Quantity,
				StockAfter:  newStock,
				ReferenceID: &order.ID,
				Reason:      "order cancelled",
			}
			if err := s.inventory.Create(txCtx, movement); err != nil {
				return apperror.Internal("failed to record inventory movement", err)
			}
		}
		if err := s.orders.UpdateStatus(txCtx, id, model.OrderStatusCancelled); err != nil {
			return apperror.Internal("failed to update order status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := auditEntry(ctx, model.ActionOrderCancelled, "orders", order.ID)
	entry.OldValues = map[string]interface{}{"status": order.Status}
	entry.NewValues = map[string]interface{}{"status": model.OrderStatusCancelled}
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(order.TenantID)

	order.Status = model.OrderStatusCancelled
	return order, nil
}

// RecordPayment adds to paid_amount and derives the payment status
func (s *orderService) RecordPayment(ctx context.Context, id uuid.UUID, req PaymentRequest) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "order")
	}
	if order.Status == model.OrderStatusCancelled {
		return nil, apperror.BadRequest("cancelled orders cannot take payments")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation(map[string]string{"amount": "must be positive"})
	}

	newPaid := order.PaidAmount.Add(req.Amount)
	if newPaid.GreaterThan(order.Total) {
		return nil, apperror.BadRequest("payment exceeds order total")
	}

	oldPaid := order.PaidAmount
	order.PaidAmount = newPaid
	if newPaid.Equal(order.Total) {
		order.PaymentStatus = model.PaymentStatusPaid
	} else {
		order.PaymentStatus = model.PaymentStatusPartial
	}
	if err := s.orders.UpdatePayment(ctx, order); err != nil {
		return nil, apperror.Internal("failed to record payment", err)
	}

	entry := auditEntry(ctx, model.ActionOrderPayment, "orders", order.ID)
	entry.OldValues = map[string]interface{}{"paid_amount": oldPaid}
	entry.NewValues = map[string]interface{}{"paid_amount": newPaid, "payment_status": order.PaymentStatus}
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(order.TenantID)

	return order, nil
}
