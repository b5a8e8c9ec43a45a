package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense approval status constants: pending → approved | rejected,
// approved → paid. No other transitions are valid.
const (
	ExpenseStatusPending  = "pending"
	ExpenseStatusApproved = "approved"
	ExpenseStatusRejected = "rejected"
	ExpenseStatusPaid     = "paid"
)

// Expense is a tenant-scoped cost entry with an approval workflow
type Expense struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Category       string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	ExpenseDate    time.Time       `gorm:"not null;index" json:"expense_date"`
	ApprovalStatus string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"approval_status"`
	ApprovedByID   *uuid.UUID      `gorm:"type:uuid" json:"approved_by_id"`
	ApprovedAt     *time.Time      `json:"approved_at"`
	PaidAt         *time.Time      `json:"paid_at"`
	ReceiptURL     string          `gorm:"type:text" json:"receipt_url"` // URL only, no file storage here
	Description    string          `gorm:"type:text" json:"description"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (e *Expense) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
