package service

import (
	"context"
	"errors"

	"backend/internal/apperror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type ProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	BrandID       *uuid.UUID      `json:"brand_id"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
	Status        string          `json:"status"`
	ImageURL      string          `json:"image_url"`
}

var productSortColumns = map[string]bool{
	"created_at":    true,
	"name":          true,
	"sku":           true,
	"selling_price": true,
	"current_stock": true,
}

type ProductService interface {
	Create(ctx context.Context, req ProductRequest) (*model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter repository.ProductFilter, p pagination.Params) ([]model.Product, int64, error)
	Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	products repository.ProductRepository
	tenants  repository.TenantRepository
	audit    AuditService
	cache    *DashboardCache
}

func NewProductService(products repository.ProductRepository, tenants repository.TenantRepository, audit AuditService, cache *DashboardCache) ProductService {
	return &productService{products: products, tenants: tenants, audit: audit, cache: cache}
}

func validateProductPrices(req ProductRequest) map[string]string {
	fields := map[string]string{}
	if req.PurchasePrice.IsNegative() {
		fields["purchase_price"] = "must not be negative"
	}
	if req.SellingPrice.IsNegative() {
		fields["selling_price"] = "must not be negative"
	}
	if req.DiscountPrice.IsNegative() {
		fields["discount_price"] = "must not be negative"
	}
	if !req.DiscountPrice.IsZero() && req.DiscountPrice.GreaterThanOrEqual(req.SellingPrice) {
		fields["discount_price"] = "must be below selling price"
	}
	if req.Status != "" && req.Status != model.ProductStatusActive && req.Status != model.ProductStatusInactive {
		fields["status"] = "must be active or inactive"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (s *productService) Create(ctx context.Context, req ProductRequest) (*model.Product, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if fields := validateProductPrices(req); fields != nil {
		return nil, apperror.Validation(fields)
	}

	count, err := s.tenants.CountRows(ctx, tenant.ID, &model.Product{})
	if err != nil {
		return nil, apperror.Internal("failed to check product limit", err)
	}
	if count >= int64(tenant.MaxProducts) {
		return nil, apperror.BadRequestf("product limit reached (%d)", tenant.MaxProducts)
	}

	if _, err := s.products.GetBySKU(ctx, req.SKU); err == nil {
		return nil, apperror.Conflict("sku already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal("failed to check sku", err)
	}

	status := req.Status
	if status == "" {
		status = model.ProductStatusActive
	}
	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	product := &model.Product{
		TenantID:      tenant.ID,
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID,
		SupplierID:    req.SupplierID,
		Unit:          unit,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		DiscountPrice: req.DiscountPrice,
		Status:        status,
		ImageURL:      req.ImageURL,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperror.Internal("failed to create product", err)
	}

	entry := auditEntry(ctx, model.ActionProductCreated, "products", product.ID)
	entry.NewValues = product
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(tenant.ID)

	return product, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "product")
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter, p pagination.Params) ([]model.Product, int64, error) {
	sort := sortColumn(productSortColumns, p.Sort, "created_at")
	products, total, err := s.products.List(ctx, filter, p.Offset(), p.PerPage, sort, p.Order)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list products", err)
	}
	return products, total, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "product")
	}
	if fields := validateProductPrices(req); fields != nil {
		return nil, apperror.Validation(fields)
	}

	if req.SKU != product.SKU {
		if _, err := s.products.GetBySKU(ctx, req.SKU); err == nil {
			return nil, apperror.Conflict("sku already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Internal("failed to check sku", err)
		}
	}

	old := *product
	product.SKU = req.SKU
	product.Name = req.Name
	product.Description = req.Description
	product.CategoryID = req.CategoryID
	product.BrandID = req.BrandID
	product.SupplierID = req.SupplierID
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	product.PurchasePrice = req.PurchasePrice
	product.SellingPrice = req.SellingPrice
	product.DiscountPrice = req.DiscountPrice
	if req.Status != "" {
		product.Status = req.Status
	}
	product.ImageURL = req.ImageURL

	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperror.Internal("failed to update product", err)
	}

	entry := auditEntry(ctx, model.ActionProductUpdated, "products", product.ID)
	entry.OldValues = old
	entry.NewValues = product
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(product.TenantID)

	return product, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return apperror.Wrap(err, "product")
	}
	pending, err := s.products.CountPendingOrderItems(ctx, id)
	if err != nil {
		return apperror.Internal("failed to check product references", err)
	}
	if pending > 0 {
		return apperror.BadRequest("product is referenced by undelivered orders")
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return apperror.Internal("failed to delete product", err)
	}

	entry := auditEntry(ctx, model.ActionProductDeleted, "products", product.ID)
	entry.OldValues = product
	s.audit.Record(ctx, entry)
	s.cache.Invalidate(product.TenantID)

	return nil
}
