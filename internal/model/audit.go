package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit action constants
const (
	ActionUserCreated       = "user_created"
	ActionUserUpdated       = "user_updated"
	ActionUserDisabled      = "user_disabled"
	ActionProductCreated    = "product_created"
	ActionProductUpdated    = "product_updated"
	ActionProductDeleted    = "product_deleted"
	ActionOrderCreated      = "order_created"
	ActionOrderConfirmed    = "order_confirmed"
	ActionOrderShipped      = "order_shipped"
	ActionOrderDelivered    = "order_delivered"
	ActionOrderCancelled    = "order_cancelled"
	ActionOrderPayment      = "order_payment_recorded"
	ActionPurchaseCancelled = "purchase_cancelled"
	ActionPurchaseUpdated   = "purchase_updated"
	ActionPurchaseCreated   = "purchase_created"
	ActionPurchaseOrdered   = "purchase_ordered"
	ActionPurchaseReceived  = "purchase_received"
	ActionPurchaseDeleted   = "purchase_deleted"
	ActionExpenseCreated    = "expense_created"
	ActionExpenseUpdated    = "expense_updated"
	ActionExpenseApproved   = "expense_approved"
	ActionExpenseRejected   = "expense_rejected"
	ActionExpensePaid       = "expense_paid"
	ActionStockAdjusted     = "stock_adjusted"
	ActionTenantCreated     = "tenant_created"
	ActionTenantSuspended   = "tenant_suspended"
	ActionTenantActivated   = "tenant_activated"
	ActionTenantDeleted     = "tenant_deleted"
	ActionRoleCreated       = "role_created"
	ActionRoleUpdated       = "role_updated"
	ActionRoleDeleted       = "role_deleted"
	ActionNoticePublished   = "notice_published"
	ActionLogin             = "login"
	ActionLogout            = "logout"
	ActionPasswordChanged   = "password_changed"
	ActionAuditCleanup      = "audit_cleanup"
)

// AuditLog is an append-only record of a mutating action. TenantID and UserID
// are nullable so entries survive tenant or user deletion.
type AuditLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  *uuid.UUID     `gorm:"type:uuid;index" json:"tenant_id"`
	UserID    *uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action    string         `gorm:"type:varchar(100);not null;index" json:"action"`
	TableName string         `gorm:"type:varchar(100);index" json:"table_name"`
	RecordID  string         `gorm:"type:varchar(100);index" json:"record_id"`
	OldValues datatypes.JSON `gorm:"type:jsonb" json:"old_values"`
	NewValues datatypes.JSON `gorm:"type:jsonb" json:"new_values"`
	IP        string         `gorm:"type:varchar(45)" json:"ip"`
	UserAgent string         `gorm:"type:varchar(512)" json:"user_agent"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
