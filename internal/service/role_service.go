package service

import (
	"context"
	"encoding/json"
	"time"

	"backend/internal/apperror"
	"backend/internal/auth"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"

	"github.com/google/uuid"
)

// --- DTOs ---

type RoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" binding:"required"`
}

type RoleResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsSystem    bool      `json:"is_system"`
	Permissions []string  `json:"permissions"`
	CreatedAt   string    `json:"created_at"`
}

func toRoleResponse(r *model.Role) RoleResponse {
	var perms []string
	if len(r.Permissions) > 0 {
		_ = json.Unmarshal(r.Permissions, &perms)
	}
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: perms,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}

// RoleService manages tenant role bundles. The built-in super_admin bundle is
// immutable.
type RoleService interface {
	Create(ctx context.Context, req RoleRequest) (*RoleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*RoleResponse, error)
	List(ctx context.Context, page, perPage int) ([]RoleResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req RoleRequest) (*RoleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type roleService struct {
	roles repository.RoleRepository
	audit AuditService
}

func NewRoleService(roles repository.RoleRepository, audit AuditService) RoleService {
	return &roleService{roles: roles, audit: audit}
}

func validatePermissionList(codes []string) map[string]string {
	for _, code := range codes {
		if !auth.Known(code) {
			return map[string]string{"permissions": "unknown permission: " + code}
		}
	}
	return nil
}

func (s *roleService) Create(ctx context.Context, req RoleRequest) (*RoleResponse, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if fields := validatePermissionList(req.Permissions); fields != nil {
		return nil, apperror.Validation(fields)
	}
	if req.Name == model.RoleSuperAdmin {
		return nil, apperror.Validation(map[string]string{"name": "reserved role name"})
	}

	perms, _ := json.Marshal(req.Permissions)
	tenantID := tenant.ID
	role := &model.Role{
		TenantID:    &tenantID,
		Name:        req.Name,
		Description: req.Description,
		Permissions: perms,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, apperror.Internal("failed to create role", err)
	}

	entry := auditEntry(ctx, model.ActionRoleCreated, "roles", role.ID)
	entry.NewValues = map[string]interface{}{"name": role.Name, "permissions": req.Permissions}
	s.audit.Record(ctx, entry)

	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) Get(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "role")
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) List(ctx context.Context, page, perPage int) ([]RoleResponse, int64, error) {
	roles, total, err := s.roles.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list roles", err)
	}
	out := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, toRoleResponse(&roles[i]))
	}
	return out, total, nil
}

func (s *roleService) Update(ctx context.Context, id uuid.UUID, req RoleRequest) (*RoleResponse, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "role")
	}
	if role.IsSystem {
		return nil, apperror.BadRequest("system roles cannot be edited")
	}
	if fields := validatePermissionList(req.Permissions); fields != nil {
		return nil, apperror.Validation(fields)
	}

	old := toRoleResponse(role)
	perms, _ := json.Marshal(req.Permissions)
	role.Name = req.Name
	role.Description = req.Description
	role.Permissions = perms

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, apperror.Internal("failed to update role", err)
	}

	entry := auditEntry(ctx, model.ActionRoleUpdated, "roles", role.ID)
	entry.OldValues = old
	entry.NewValues = map[string]interface{}{"name": role.Name, "permissions": req.Permissions}
	s.audit.Record(ctx, entry)

	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return apperror.Wrap(err, "role")
	}
	if role.IsSystem {
		return apperror.BadRequest("system roles cannot be deleted")
	}
	users, err := s.roles.CountUsers(ctx, id)
	if err != nil {
		return apperror.Internal("failed to check role usage", err)
	}
	if users > 0 {
		return apperror.BadRequestf("role is assigned to %d user(s)", users)
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return apperror.Internal("failed to delete role", err)
	}
	s.audit.Record(ctx, auditEntry(ctx, model.ActionRoleDeleted, "roles", role.ID))
	return nil
}
