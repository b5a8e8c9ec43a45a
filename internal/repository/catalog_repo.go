package repository

import (
	"context"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository covers categories, brands and suppliers: small
// tenant-scoped lookup tables sharing one access pattern.
type CatalogRepository interface {
	CreateCategory(ctx context.Context, c *model.Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	ListCategories(ctx context.Context, search string, offset, limit int) ([]model.Category, int64, error)
	UpdateCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountCategoryChildren(ctx context.Context, id uuid.UUID) (int64, error)
	CountCategoryProducts(ctx context.Context, id uuid.UUID) (int64, error)

	CreateBrand(ctx context.Context, b *model.Brand) error
	GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	ListBrands(ctx context.Context, search string, offset, limit int) ([]model.Brand, int64, error)
	UpdateBrand(ctx context.Context, b *model.Brand) error
	DeleteBrand(ctx context.Context, id uuid.UUID) error
	CountBrandProducts(ctx context.Context, id uuid.UUID) (int64, error)

	CreateSupplier(ctx context.Context, s *model.Supplier) error
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, search string, offset, limit int) ([]model.Supplier, int64, error)
	UpdateSupplier(ctx context.Context, s *model.Supplier) error
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	CountSupplierPurchases(ctx context.Context, id uuid.UUID) (int64, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// --- categories ---

func (r *catalogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	return GetDB(ctx, r.db).Create(c).Error
}

func (r *catalogRepository) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	if err := scope.Scoped(ctx, GetDB(ctx, r.db)).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context, search string, offset, limit int) ([]model.Category, int64, error) {
	var out []model.Category
	var total int64
	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Category{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("name asc").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, c *model.Category) error {
	return GetDB(ctx, r.db).Save(c).Error
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Delete(&model.Category{}, "id = ?", id).Error
}

func (r *catalogRepository) CountCategoryChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Category{}).
		Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *catalogRepository) CountCategoryProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Product{}).
		Where("category_id = ?", id).Count(&count).Error
	return count, err
}

// --- brands ---

func (r *catalogRepository) CreateBrand(ctx context.Context, b *model.Brand) error {
	return GetDB(ctx, r.db).Create(b).Error
}

func (r *catalogRepository) GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	var b model.Brand
	if err := scope.Scoped(ctx, GetDB(ctx, r.db)).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *catalogRepository) ListBrands(ctx context.Context, search string, offset, limit int) ([]model.Brand, int64, error) {
	var out []model.Brand
	var total int64
	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Brand{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("name asc").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *catalogRepository) UpdateBrand(ctx context.Context, b *model.Brand) error {
	return GetDB(ctx, r.db).Save(b).Error
}

func (r *catalogRepository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Delete(&model.Brand{}, "id = ?", id).Error
}

func (r *catalogRepository) CountBrandProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Product{}).
		Where("brand_id = ?", id).Count(&count).Error
	return count, err
}

// --- suppliers ---

func (r *catalogRepository) CreateSupplier(ctx context.Context, s *model.Supplier) error {
	return GetDB(ctx, r.db).Create(s).Error
}

func (r *catalogRepository) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	if err := scope.Scoped(ctx, GetDB(ctx, r.db)).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *catalogRepository) ListSuppliers(ctx context.Context, search string, offset, limit int) ([]model.Supplier, int64, error) {
	var out []model.Supplier
	var total int64
	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Supplier{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("name asc").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *catalogRepository) UpdateSupplier(ctx context.Context, s *model.Supplier) error {
	return GetDB(ctx, r.db).Save(s).Error
}

func (r *catalogRepository) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Delete(&model.Supplier{}, "id = ?", id).Error
}

func (r *catalogRepository) CountSupplierPurchases(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.Purchase{}).
		Where("supplier_id = ? AND status <> ?", id, model.PurchaseStatusCancelled).Count(&count).Error
	return count, err
}
