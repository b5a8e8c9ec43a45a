package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant status constants
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantStatusCancelled = "cancelled"
)

// Subscription plan constants
const (
	TenantPlanStarter    = "starter"
	TenantPlanGrowth     = "growth"
	TenantPlanEnterprise = "enterprise"
)

// Tenant is the isolation boundary: every scoped row carries exactly one tenant id,
// and no request may ever cross it.
type Tenant struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Code          string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // subdomain lookup key
	Status        string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Plan          string         `gorm:"type:varchar(20);not null;default:'starter'" json:"plan"`
	MaxUsers      int            `gorm:"not null;default:10" json:"max_users"`
	MaxProducts   int            `gorm:"not null;default:500" json:"max_products"`
	MaxWarehouses int            `gorm:"not null;default:3" json:"max_warehouses"`
	MaxShops      int            `gorm:"not null;default:3" json:"max_shops"`
	IsTrial       bool           `gorm:"default:false" json:"is_trial"`
	TrialDaysLeft int            `gorm:"default:0" json:"trial_days_left"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Tenant) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether requests may be served under this tenant
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
