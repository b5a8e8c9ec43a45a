package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notice level constants
const (
	NoticeLevelInfo     = "info"
	NoticeLevelWarning  = "warning"
	NoticeLevelCritical = "critical"
)

// NoticeEvent is a tenant-scoped announcement, broadcast over the websocket
// hub on creation.
type NoticeEvent struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Body        string     `gorm:"type:text" json:"body"`
	Level       string     `gorm:"type:varchar(20);not null;default:'info'" json:"level"`
	EffectiveAt *time.Time `json:"effective_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (n *NoticeEvent) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
