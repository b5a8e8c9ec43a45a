package service

import (
	"context"
	"regexp"
	"time"

	"backend/internal/apperror"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateTenantRequest struct {
	Name          string `json:"name" binding:"required"`
	Code          string `json:"code" binding:"required"`
	Plan          string `json:"plan"`
	MaxUsers      int    `json:"max_users"`
	MaxProducts   int    `json:"max_products"`
	MaxWarehouses int    `json:"max_warehouses"`
	MaxShops      int    `json:"max_shops"`
	IsTrial       bool   `json:"is_trial"`
	TrialDays     int    `json:"trial_days"`
}

type UpdateTenantRequest struct {
	Name          string `json:"name"`
	Plan          string `json:"plan"`
	MaxUsers      *int   `json:"max_users"`
	MaxProducts   *int   `json:"max_products"`
	MaxWarehouses *int   `json:"max_warehouses"`
	MaxShops      *int   `json:"max_shops"`
}

type TenantResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	Status        string    `json:"status"`
	Plan          string    `json:"plan"`
	MaxUsers      int       `json:"max_users"`
	MaxProducts   int       `json:"max_products"`
	MaxWarehouses int       `json:"max_warehouses"`
	MaxShops      int       `json:"max_shops"`
	IsTrial       bool      `json:"is_trial"`
	TrialDaysLeft int       `json:"trial_days_left"`
	CreatedAt     string    `json:"created_at"`
}

func toTenantResponse(t *model.Tenant) TenantResponse {
	return TenantResponse{
		ID:            t.ID,
		Name:          t.Name,
		Code:          t.Code,
		Status:        t.Status,
		Plan:          t.Plan,
		MaxUsers:      t.MaxUsers,
		MaxProducts:   t.MaxProducts,
		MaxWarehouses: t.MaxWarehouses,
		MaxShops:      t.MaxShops,
		IsTrial:       t.IsTrial,
		TrialDaysLeft: t.TrialDaysLeft,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

// tenant codes become subdomain labels, so they must be DNS-safe
var tenantCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,48}[a-z0-9]$`)

func validPlan(plan string) bool {
	switch plan {
	case model.TenantPlanStarter, model.TenantPlanGrowth, model.TenantPlanEnterprise:
		return true
	}
	return false
}

// TenantService covers super-admin tenant management. All methods run
// tenant-less; routing restricts them to super admins.
type TenantService interface {
	Create(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*TenantResponse, error)
	List(ctx context.Context, status string, page, perPage int) ([]TenantResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error)
	Suspend(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type tenantService struct {
	tenants repository.TenantRepository
	audit   AuditService
}

func NewTenantService(tenants repository.TenantRepository, audit AuditService) TenantService {
	return &tenantService{tenants: tenants, audit: audit}
}

func (s *tenantService) Create(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	fields := make(map[string]string)
	if !tenantCodePattern.MatchString(req.Code) {
		fields["code"] = "must be a DNS-safe label of 3-50 characters"
	}
	if req.Plan != "" && !validPlan(req.Plan) {
		fields["plan"] = "unknown plan"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation(fields)
	}
	if _, err := s.tenants.GetByCode(ctx, req.Code); err == nil {
		return nil, apperror.Validation(map[string]string{"code": "already in use"})
	}

	tenant := &model.Tenant{
		Name:          req.Name,
		Code:          req.Code,
		Status:        model.TenantStatusActive,
		Plan:          req.Plan,
		MaxUsers:      req.MaxUsers,
		MaxProducts:   req.MaxProducts,
		MaxWarehouses: req.MaxWarehouses,
		MaxShops:      req.MaxShops,
		IsTrial:       req.IsTrial,
		TrialDaysLeft: req.TrialDays,
	}
	if tenant.Plan == "" {
		tenant.Plan = model.TenantPlanStarter
	}
	if tenant.MaxUsers == 0 {
		tenant.MaxUsers = 10
	}
	if tenant.MaxProducts == 0 {
		tenant.MaxProducts = 500
	}
	if tenant.MaxWarehouses == 0 {
		tenant.MaxWarehouses = 3
	}
	if tenant.MaxShops == 0 {
		tenant.MaxShops = 3
	}

	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, apperror.Internal("failed to create tenant", err)
	}

	entry := auditEntry(ctx, model.ActionTenantCreated, "tenants", tenant.ID)
	entry.TenantID = &tenant.ID
	entry.NewValues = map[string]string{"name": tenant.Name, "code": tenant.Code}
	s.audit.Record(ctx, entry)

	resp := toTenantResponse(tenant)
	return &resp, nil
}

func (s *tenantService) Get(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "tenant")
	}
	resp := toTenantResponse(tenant)
	return &resp, nil
}

func (s *tenantService) List(ctx context.Context, status string, page, perPage int) ([]TenantResponse, int64, error) {
	tenants, total, err := s.tenants.List(ctx, status, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list tenants", err)
	}
	out := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		out = append(out, toTenantResponse(&tenants[i]))
	}
	return out, total, nil
}

func (s *tenantService) Update(ctx context.Context, id uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "tenant")
	}

	if req.Name != "" {
		tenant.Name = req.Name
	}
	if req.Plan != "" {
		if !validPlan(req.Plan) {
			return nil, apperror.Validation(map[string]string{"plan": "unknown plan"})
		}
		tenant.Plan = req.Plan
	}
	if req.MaxUsers != nil {
		tenant.MaxUsers = *req.MaxUsers
	}
	if req.MaxProducts != nil {
		tenant.MaxProducts = *req.MaxProducts
	}
	if req.MaxWarehouses != nil {
		tenant.MaxWarehouses = *req.MaxWarehouses
	}
	if req.MaxShops != nil {
		tenant.MaxShops = *req.MaxShops
	}

	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, apperror.Internal("failed to update tenant", err)
	}
	resp := toTenantResponse(tenant)
	return &resp, nil
}

func (s *tenantService) setStatus(ctx context.Context, id uuid.UUID, from []string, to, action string) error {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return apperror.Wrap(err, "tenant")
	}
	allowed := false
	for _, status := range from {
		if tenant.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperror.BadRequestf("tenant cannot move from %s to %s", tenant.Status, to)
	}
	old := tenant.Status
	tenant.Status = to
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return apperror.Internal("failed to update tenant status", err)
	}

	entry := auditEntry(ctx, action, "tenants", tenant.ID)
	entry.TenantID = &tenant.ID
	entry.OldValues = map[string]string{"status": old}
	entry.NewValues = map[string]string{"status": to}
	s.audit.Record(ctx, entry)
	return nil
}

func (s *tenantService) Suspend(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, []string{model.TenantStatusActive}, model.TenantStatusSuspended, model.ActionTenantSuspended)
}

func (s *tenantService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, []string{model.TenantStatusSuspended}, model.TenantStatusActive, model.ActionTenantActivated)
}

func (s *tenantService) Delete(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return apperror.Wrap(err, "tenant")
	}
	if tenant.Status == model.TenantStatusActive {
		return apperror.BadRequest("suspend a tenant before deleting it")
	}
	if err := s.tenants.Delete(ctx, id); err != nil {
		return apperror.Internal("failed to delete tenant", err)
	}

	entry := auditEntry(ctx, model.ActionTenantDeleted, "tenants", tenant.ID)
	entry.OldValues = map[string]string{"name": tenant.Name, "code": tenant.Code}
	s.audit.Record(ctx, entry)
	return nil
}
