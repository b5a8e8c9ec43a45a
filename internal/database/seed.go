package database

import (
	"encoding/json"
	"errors"
	"os"

	"backend/internal/auth"
	"backend/internal/model"
	"backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed ensures the immutable super_admin role bundle and a bootstrap super
// admin account exist. Idempotent.
func Seed(db *gorm.DB) error {
	allPerms, err := json.Marshal(auth.Catalog())
	if err != nil {
		return err
	}

	var superRole model.Role
	err = db.Where("name = ? AND is_system = ?", model.RoleSuperAdmin, true).First(&superRole).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		superRole = model.Role{
			Name:        model.RoleSuperAdmin,
			Description: "Built-in super administrator bundle",
			IsSystem:    true,
			Permissions: allPerms,
		}
		if err = db.Create(&superRole).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleSuperAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("SUPERADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
		logger.L().Warn("seeding super admin with default password, set SUPERADMIN_PASSWORD")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Username: "superadmin",
		Email:    "superadmin@localhost",
		Password: string(hashed),
		Role:     model.RoleSuperAdmin,
		RoleID:   &superRole.ID,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logger.L().Info("seeded bootstrap super admin", zap.String("username", admin.Username))
	return nil
}
