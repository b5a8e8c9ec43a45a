package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role name constants. The set is closed: anything else is rejected at validation.
const (
	RoleSuperAdmin       = "super_admin"
	RoleTenantAdmin      = "tenant_admin"
	RoleAdmin            = "admin"
	RoleWarehouseManager = "warehouse_manager"
	RoleShopManager      = "shop_manager"
	RoleEmployee         = "employee"
	RoleCustomer         = "customer"
)

// ValidRole reports whether name is one of the closed role variants
func ValidRole(name string) bool {
	switch name {
	case RoleSuperAdmin, RoleTenantAdmin, RoleAdmin, RoleWarehouseManager,
		RoleShopManager, RoleEmployee, RoleCustomer:
		return true
	}
	return false
}

// User is the authenticated principal. TenantID is nil only for super admins,
// who are exempt from tenant scoping and permission checks.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    *uuid.UUID     `gorm:"type:uuid;index" json:"tenant_id"`
	Username    string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone       string         `gorm:"type:varchar(20)" json:"phone"`
	Password    string         `gorm:"type:varchar(255);not null" json:"-"`
	Role        string         `gorm:"type:varchar(50);not null;index" json:"role"`
	RoleID      *uuid.UUID     `gorm:"type:uuid;index" json:"role_id"` // optional role bundle
	RoleBundle  *Role          `gorm:"foreignKey:RoleID" json:"-"`
	Permissions datatypes.JSON `gorm:"type:jsonb" json:"permissions"` // direct grants, array of strings
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	AccessLevel int            `gorm:"default:0" json:"access_level"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Session represents an authenticated login. Every authenticated request is
// resolved through a session row, so terminating it fails closed immediately.
type Session struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Token        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User      `gorm:"foreignKey:UserID" json:"-"`
	TenantID     *uuid.UUID `gorm:"type:uuid;index" json:"tenant_id"`
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`
	TerminatedAt *time.Time `json:"terminated_at"`
	IP           string     `gorm:"type:varchar(45)" json:"ip"`
	UserAgent    string     `gorm:"type:varchar(512)" json:"user_agent"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (s *Session) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
