package database

import (
	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates all models. Shared with the sqlite test harness.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Session{},
		&model.Role{},
		&model.Product{},
		&model.Category{},
		&model.Brand{},
		&model.Supplier{},
		&model.Order{},
		&model.OrderItem{},
		&model.Purchase{},
		&model.PurchaseItem{},
		&model.Warehouse{},
		&model.Shop{},
		&model.Expense{},
		&model.CustomerProfile{},
		&model.InventoryMovement{},
		&model.NoticeEvent{},
		&model.AuditLog{},
	)
}
