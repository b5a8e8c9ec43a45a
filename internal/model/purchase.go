package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase status constants: draft → ordered → received, cancel from
// draft/ordered. Only drafts may be edited or deleted.
const (
	PurchaseStatusDraft     = "draft"
	PurchaseStatusOrdered   = "ordered"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)

// Purchase is a tenant-scoped procurement document. Receiving creates incoming
// inventory movements for every item in one transaction.
type Purchase struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_purchases_tenant_no" json:"tenant_id"`
	PurchaseNo  string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_purchases_tenant_no" json:"purchase_no"`
	SupplierID  *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier    *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	WarehouseID *uuid.UUID      `gorm:"type:uuid;index" json:"warehouse_id"`
	Warehouse   *Warehouse      `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Status      string          `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Items       []PurchaseItem  `gorm:"foreignKey:PurchaseID" json:"items"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
	Note        string          `gorm:"type:text" json:"note"`
	ReceivedAt  *time.Time      `json:"received_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *Purchase) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PurchaseItem is a line item within a purchase
type PurchaseItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_cost"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
}

func (i *PurchaseItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
