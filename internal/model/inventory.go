package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movement direction constants
const (
	MovementIn     = "IN"
	MovementOut    = "OUT"
	MovementAdjust = "ADJUST"
)

// InventoryMovement records every stock change. Rows are append-only; the
// running stock_after makes the ledger auditable without replaying it.
type InventoryMovement struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	WarehouseID *uuid.UUID `gorm:"type:uuid;index" json:"warehouse_id"`
	Direction   string     `gorm:"type:varchar(10);not null" json:"direction"` // IN, OUT, ADJUST
	Quantity    int        `gorm:"not null" json:"quantity"`
	StockAfter  int        `gorm:"not null" json:"stock_after"`
	ReferenceID *uuid.UUID `gorm:"type:uuid;index" json:"reference_id"` // order or purchase id
	Reason      string     `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

func (m *InventoryMovement) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
