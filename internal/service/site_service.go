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

type SiteRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

// SiteService manages warehouses and shops. Creation is bound by the tenant's
// max_warehouses and max_shops limits.
type SiteService interface {
	CreateWarehouse(ctx context.Context, req SiteRequest) (*model.Warehouse, error)
	GetWarehouse(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	ListWarehouses(ctx context.Context, search string, p pagination.Params) ([]model.Warehouse, int64, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, req SiteRequest) (*model.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id uuid.UUID) error

	CreateShop(ctx context.Context, req SiteRequest) (*model.Shop, error)
	GetShop(ctx context.Context, id uuid.UUID) (*model.Shop, error)
	ListShops(ctx context.Context, search string, p pagination.Params) ([]model.Shop, int64, error)
	UpdateShop(ctx context.Context, id uuid.UUID, req SiteRequest) (*model.Shop, error)
	DeleteShop(ctx context.Context, id uuid.UUID) error
}

type siteService struct {
	sites   repository.SiteRepository
	tenants repository.TenantRepository
}

func NewSiteService(sites repository.SiteRepository, tenants repository.TenantRepository) SiteService {
	return &siteService{sites: sites, tenants: tenants}
}

// --- warehouses ---

func (s *siteService) CreateWarehouse(ctx context.Context, req SiteRequest) (*model.Warehouse, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.tenants.CountRows(ctx, tenant.ID, &model.Warehouse{})
	if err != nil {
		return nil, apperror.Internal("failed to check warehouse limit", err)
	}
	if count >= int64(tenant.MaxWarehouses) {
		return nil, apperror.BadRequestf("warehouse limit reached (%d)", tenant.MaxWarehouses)
	}

	warehouse := &model.Warehouse{
		TenantID: tenant.ID,
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	}
	if req.IsActive != nil {
		warehouse.IsActive = *req.IsActive
	}
	if err := s.sites.CreateWarehouse(ctx, warehouse); err != nil {
		return nil, apperror.Internal("failed to create warehouse", err)
	}
	return warehouse, nil
}

func (s *siteService) GetWarehouse(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	warehouse, err := s.sites.GetWarehouse(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "warehouse")
	}
	return warehouse, nil
}

func (s *siteService) ListWarehouses(ctx context.Context, search string, p pagination.Params) ([]model.Warehouse, int64, error) {
	warehouses, total, err := s.sites.ListWarehouses(ctx, search, p.Offset(), p.PerPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list warehouses", err)
	}
	return warehouses, total, nil
}

func (s *siteService) UpdateWarehouse(ctx context.Context, id uuid.UUID, req SiteRequest) (*model.Warehouse, error) {
	warehouse, err := s.sites.GetWarehouse(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "warehouse")
	}
	warehouse.Name = req.Name
	warehouse.Address = req.Address
	warehouse.Phone = req.Phone
	if req.IsActive != nil {
		warehouse.IsActive = *req.IsActive
	}
	if err := s.sites.UpdateWarehouse(ctx, warehouse); err != nil {
		return nil, apperror.Internal("failed to update warehouse", err)
	}
	return warehouse, nil
}

func (s *siteService) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sites.GetWarehouse(ctx, id); err != nil {
		return apperror.Wrap(err, "warehouse")
	}
	movements, err := s.sites.CountWarehouseMovements(ctx, id)
	if err != nil {
		return apperror.Internal("failed to check warehouse movements", err)
	}
	if movements > 0 {
		return apperror.BadRequest("warehouse has inventory movements")
	}
	if err := s.sites.DeleteWarehouse(ctx, id); err != nil {
		return apperror.Internal("failed to delete warehouse", err)
	}
	return nil
}

// --- shops ---

func (s *siteService) CreateShop(ctx context.Context, req SiteRequest) (*model.Shop, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.tenants.CountRows(ctx, tenant.ID, &model.Shop{})
	if err != nil {
		return nil, apperror.Internal("failed to check shop limit", err)
	}
	if count >= int64(tenant.MaxShops) {
		return nil, apperror.BadRequestf("shop limit reached (%d)", tenant.MaxShops)
	}

	shop := &model.Shop{
		TenantID: tenant.ID,
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	}
	if req.IsActive != nil {
		shop.IsActive = *req.IsActive
	}
	if err := s.sites.CreateShop(ctx, shop); err != nil {
		return nil, apperror.Internal("failed to create shop", err)
	}
	return shop, nil
}

func (s *siteService) GetShop(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	shop, err := s.sites.GetShop(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "shop")
	}
	return shop, nil
}

func (s *siteService) ListShops(ctx context.Context, search string, p pagination.Params) ([]model.Shop, int64, error) {
	shops, total, err := s.sites.ListShops(ctx, search, p.Offset(), p.PerPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list shops", err)
	}
	return shops, total, nil
}

func (s *siteService) UpdateShop(ctx context.Context, id uuid.UUID, req SiteRequest) (*model.Shop, error) {
	shop, err := s.sites.GetShop(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "shop")
	}
	shop.Name = req.Name
	shop.Address = req.Address
	shop.Phone = req.Phone
	if req.IsActive != nil {
		shop.IsActive = *req.IsActive
	}
	if err := s.sites.UpdateShop(ctx, shop); err != nil {
		return nil, apperror.Internal("failed to update shop", err)
	}
	return shop, nil
}

func (s *siteService) DeleteShop(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sites.GetShop(ctx, id); err != nil {
		return apperror.Wrap(err, "shop")
	}
	orders, err := s.sites.CountShopOrders(ctx, id)
	if err != nil {
		return apperror.Internal("failed to check shop orders", err)
	}
	if orders > 0 {
		return apperror.BadRequest("shop has linked orders")
	}
	if err := s.sites.DeleteShop(ctx, id); err != nil {
		return apperror.Internal("failed to delete shop", err)
	}
	return nil
}
