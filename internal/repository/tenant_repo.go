package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantRepository manages tenant rows. It is the one repository that is not
// tenant-scoped: only super-admin flows and the resolver reach it.
type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	GetByCode(ctx context.Context, code string) (*model.Tenant, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.Tenant, int64, error)
	Update(ctx context.Context, tenant *model.Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountRows(ctx context.Context, tenantID uuid.UUID, entity interface{}) (int64, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	return GetDB(ctx, r.db).Create(tenant).Error
}

func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := GetDB(ctx, r.db).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) GetByCode(ctx context.Context, code string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := GetDB(ctx, r.db).First(&tenant, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) List(ctx context.Context, status string, offset, limit int) ([]model.Tenant, int64, error) {
	var tenants []model.Tenant
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Tenant{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&tenants).Error; err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

func (r *tenantRepository) Update(ctx context.Context, tenant *model.Tenant) error {
	return GetDB(ctx, r.db).Save(tenant).Error
}

func (r *tenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Tenant{}, "id = ?", id).Error
}

// CountRows counts live rows of a tenant-owned entity for resource-limit checks
func (r *tenantRepository) CountRows(ctx context.Context, tenantID uuid.UUID, entity interface{}) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(entity).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}
