package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order status constants. Transitions are enforced by the order service:
// pending → confirmed → shipped → delivered, cancellable at any pre-delivery point.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment status constants
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Order is a tenant-scoped sales order. Creation persists the order, its items
// and the outgoing inventory movements in one transaction.
type Order struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID      uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_tenant_no" json:"tenant_id"`
	OrderNo       string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_orders_tenant_no" json:"order_no"`
	CustomerID    *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id"`
	Customer      *CustomerProfile `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ShopID        *uuid.UUID       `gorm:"type:uuid;index" json:"shop_id"`
	Shop          *Shop            `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	WarehouseID   *uuid.UUID       `gorm:"type:uuid;index" json:"warehouse_id"`
	Status        string           `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Items         []OrderItem      `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal      decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	Discount      decimal.Decimal  `gorm:"type:decimal(18,4);default:0" json:"discount"`
	Total         decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total"`
	PaidAmount    decimal.Decimal  `gorm:"type:decimal(18,4);default:0" json:"paid_amount"`
	PaymentStatus string           `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	Note          string           `gorm:"type:text" json:"note"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a line item within an order
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
