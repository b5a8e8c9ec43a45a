package service

import (
	"context"

	"backend/internal/apperror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"
	"backend/pkg/pagination"

	"github.com/google/uuid"
)

// --- DTOs ---

type CategoryRequest struct {
	Name     string     `json:"name" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type BrandRequest struct {
	Name string `json:"name" binding:"required"`
}

type SupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CatalogService covers the product reference data: categories, brands and
// suppliers.
type CatalogService interface {
	CreateCategory(ctx context.Context, req CategoryRequest) (*model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	ListCategories(ctx context.Context, search string, p pagination.Params) ([]model.Category, int64, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateBrand(ctx context.Context, req BrandRequest) (*model.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	ListBrands(ctx context.Context, search string, p pagination.Params) ([]model.Brand, int64, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, req BrandRequest) (*model.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	CreateSupplier(ctx context.Context, req SupplierRequest) (*model.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, search string, p pagination.Params) ([]model.Supplier, int64, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req SupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

// --- categories ---

func (s *catalogService) CreateCategory(ctx context.Context, req CategoryRequest) (*model.Category, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.ParentID); err != nil {
			return nil, apperror.Wrap(err, "parent category")
		}
	}
	category := &model.Category{TenantID: tenant.ID, Name: req.Name, ParentID: req.ParentID}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, apperror.Internal("failed to create category", err)
	}
	return category, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "category")
	}
	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context, search string, p pagination.Params) ([]model.Category, int64, error) {
	categories, total, err := s.repo.ListCategories(ctx, search, p.Offset(), p.PerPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list categories", err)
	}
	return categories, total, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req CategoryRequest) (*model.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "category")
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, apperror.BadRequest("category cannot be its own parent")
		}
		if _, err := s.repo.GetCategory(ctx, *req.ParentID); err != nil {
			return nil, apperror.Wrap(err, "parent category")
		}
	}
	category.Name = req.Name
	category.ParentID = req.ParentID
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, apperror.Internal("failed to update category", err)
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetCategory(ctx, id); err != nil {
		return apperror.Wrap(err, "category")
	}
	children, err := s.repo.CountCategoryChildren(ctx, id)
	if err != nil {
		return apperror.Internal("failed to check category children", err)
	}
	if children > 0 {
		return apperror.BadRequest("category has child categories")
	}
	products, err := s.repo.CountCategoryProducts(ctx, id)
	if err != nil {
		return apperror.Internal("failed to check category products", err)
	}
	if products > 0 {
		return apperror.BadRequest("category has assigned products")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return apperror.Internal("failed to delete category", err)
	}
	return nil
}

// --- brands ---

func (s *catalogService) CreateBrand(ctx context.Context, req BrandRequest) (*model.Brand, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	brand := &model.Brand{TenantID: tenant.ID, Name: req.Name}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		return nil, apperror.Internal("failed to create brand", err)
	}
	return brand, nil
}

func (s *catalogService) GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	brand, err := s.repo.GetBrand(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "brand")
	}
	return brand, nil
}

func (s *catalogService) ListBrands(ctx context.Context, search string, p pagination.Params) ([]model.Brand, int64, error) {
	brands, total, err := s.repo.ListBrands(ctx, search, p.Offset(), p.PerPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list brands", err)
	}
	return brands, total, nil
}

func (s *catalogService) UpdateBrand(ctx context.Context, id uuid.UUID, req BrandRequest) (*model.Brand, error) {
	brand, err := s.repo.GetBrand(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "brand")
	}
	brand.Name = req.Name
	if err := s.repo.UpdateBrand(ctx, brand); err != nil {
		return nil, apperror.Internal("failed to update brand", err)
	}
	return brand, nil
}

func (s *catalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetBrand(ctx, id); err != nil {
		return apperror.Wrap(err, "brand")
	}
	products, err := s.repo.CountBrandProducts(ctx, id)
	if err != nil {
		return apperror.Internal("failed to check brand products", err)
	}
	if products > 0 {
		return apperror.BadRequest("brand has assigned products")
	}
	if err := s.repo.DeleteBrand(ctx, id); err != nil {
		return apperror.Internal("failed to delete brand", err)
	}
	return nil
}

// --- suppliers ---

func (s *catalogService) CreateSupplier(ctx context.Context, req SupplierRequest) (*model.Supplier, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	supplier := &model.Supplier{
		TenantID: tenant.ID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, apperror.Internal("failed to create supplier", err)
	}
	return supplier, nil
}

func (s *catalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "supplier")
	}
	return supplier, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context, search string, p pagination.Params) ([]model.Supplier, int64, error) {
	suppliers, total, err := s.repo.ListSuppliers(ctx, search, p.Offset(), p.PerPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list suppliers", err)
	}
	return suppliers, total, nil
}

func (s *catalogService) UpdateSupplier(ctx context.Context, id uuid.UUID, req SupplierRequest) (*model.Supplier, error) {
	supplier, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "supplier")
	}
	supplier.Name = req.Name
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	if err := s.repo.UpdateSupplier(ctx, supplier); err != nil {
		return nil, apperror.Internal("failed to update supplier", err)
	}
	return supplier, nil
}

func (s *catalogService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetSupplier(ctx, id); err != nil {
		return apperror.Wrap(err, "supplier")
	}
	purchases, err := s.repo.CountSupplierPurchases(ctx, id)
	if err != nil {
		return apperror.Internal("failed to check supplier purchases", err)
	}
	if purchases > 0 {
		return apperror.BadRequest("supplier has linked purchases")
	}
	if err := s.repo.DeleteSupplier(ctx, id); err != nil {
		return apperror.Internal("failed to delete supplier", err)
	}
	return nil
}
