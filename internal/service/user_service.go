package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backend/internal/apperror"
	"backend/internal/auth"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateUserRequest struct {
	Username    string   `json:"username" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Phone       string   `json:"phone"`
	Password    string   `json:"password" binding:"required,min=8"`
	Role        string   `json:"role" binding:"required"`
	RoleID      string   `json:"role_id"`
	Permissions []string `json:"permissions"`
	AccessLevel int      `json:"access_level"`
}

type UpdateUserRequest struct {
	Username    string    `json:"username"`
	Email       string    `json:"email" binding:"omitempty,email"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role"`
	RoleID      string    `json:"role_id"`
	Permissions *[]string `json:"permissions"`
	IsActive    *bool     `json:"is_active"`
	AccessLevel *int      `json:"access_level"`
}

type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    *uuid.UUID `json:"tenant_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	RoleID      *uuid.UUID `json:"role_id"`
	Permissions []string   `json:"permissions"`
	IsActive    bool       `json:"is_active"`
	AccessLevel int        `json:"access_level"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

func toUserResponse(user *model.User) UserResponse {
	var perms []string
	if len(user.Permissions) > 0 {
		_ = json.Unmarshal(user.Permissions, &perms)
	}
	return UserResponse{
		ID:          user.ID,
		TenantID:    user.TenantID,
		Username:    user.Username,
		Email:       user.Email,
		Phone:       user.Phone,
		Role:        user.Role,
		RoleID:      user.RoleID,
		Permissions: perms,
		IsActive:    user.IsActive,
		AccessLevel: user.AccessLevel,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt.Format(time.RFC3339),
	}
}

var userSortFields = map[string]bool{
	"created_at": true, "username": true, "email": true, "role": true,
}

// UserService manages tenant users
type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	List(ctx context.Context, filter repository.UserFilter, page, perPage int, sort, order string) ([]UserResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error)
	Disable(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	users   repository.UserRepository
	tenants repository.TenantRepository
	audit   AuditService
}

func NewUserService(users repository.UserRepository, tenants repository.TenantRepository, audit AuditService) UserService {
	return &userService{users: users, tenants: tenants, audit: audit}
}

func (s *userService) validate(req CreateUserRequest) map[string]string {
	fields := make(map[string]string)
	if !model.ValidRole(req.Role) {
		fields["role"] = "unknown role"
	}
	if req.Role == model.RoleSuperAdmin {
		fields["role"] = "super_admin accounts cannot be created through this endpoint"
	}
	for _, code := range req.Permissions {
		if !auth.Known(code) {
			fields["permissions"] = "unknown permission: " + code
			break
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if fields := s.validate(req); fields != nil {
		return nil, apperror.Validation(fields)
	}

	count, err := s.tenants.CountRows(ctx, tenant.ID, &model.User{})
	if err != nil {
		return nil, apperror.Internal("failed to check user limit", err)
	}
	if count >= int64(tenant.MaxUsers) {
		return nil, apperror.BadRequestf("user limit reached for this tenant (%d)", tenant.MaxUsers)
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperror.Validation(map[string]string{"username": "already taken"})
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Validation(map[string]string{"email": "already registered"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	perms, _ := json.Marshal(req.Permissions)
	tenantID := tenant.ID
	user := &model.User{
		TenantID:    &tenantID,
		Username:    req.Username,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    string(hashed),
		Role:        req.Role,
		Permissions: perms,
		IsActive:    true,
		AccessLevel: req.AccessLevel,
	}
	if req.RoleID != "" {
		roleID, err := uuid.Parse(req.RoleID)
		if err != nil {
			return nil, apperror.Validation(map[string]string{"role_id": "invalid id"})
		}
		user.RoleID = &roleID
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperror.Internal("failed to create user", err)
	}

	entry := auditEntry(ctx, model.ActionUserCreated, "users", user.ID)
	entry.NewValues = map[string]string{"username": user.Username, "role": user.Role}
	s.audit.Record(ctx, entry)

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "user")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter, page, perPage int, sort, order string) ([]UserResponse, int64, error) {
	sort = sortColumn(userSortFields, sort, "created_at")
	users, total, err := s.users.List(ctx, filter, (page-1)*perPage, perPage, sort, order)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list users", err)
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, total, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "user")
	}

	old := map[string]string{"username": user.Username, "role": user.Role}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		if !model.ValidRole(req.Role) || req.Role == model.RoleSuperAdmin {
			return nil, apperror.Validation(map[string]string{"role": "unknown role"})
		}
		user.Role = req.Role
	}
	if req.RoleID != "" {
		roleID, err := uuid.Parse(req.RoleID)
		if err != nil {
			return nil, apperror.Validation(map[string]string{"role_id": "invalid id"})
		}
		user.RoleID = &roleID
	}
	if req.Permissions != nil {
		for _, code := range *req.Permissions {
			if !auth.Known(code) {
				return nil, apperror.Validation(map[string]string{"permissions": "unknown permission: " + code})
			}
		}
		perms, _ := json.Marshal(*req.Permissions)
		user.Permissions = perms
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.AccessLevel != nil {
		user.AccessLevel = *req.AccessLevel
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperror.Internal("failed to update user", err)
	}

	entry := auditEntry(ctx, model.ActionUserUpdated, "users", user.ID)
	entry.OldValues = old
	entry.NewValues = map[string]string{"username": user.Username, "role": user.Role}
	s.audit.Record(ctx, entry)

	resp := toUserResponse(user)
	return &resp, nil
}

// Disable soft-disables the account instead of deleting it; sessions die on
// the next request through the active check.
func (s *userService) Disable(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user")
		}
		return apperror.Internal("failed to load user", err)
	}
	if !user.IsActive {
		return apperror.BadRequest("user is already disabled")
	}
	user.IsActive = false
	if err := s.users.Update(ctx, user); err != nil {
		return apperror.Internal("failed to disable user", err)
	}
	s.audit.Record(ctx, auditEntry(ctx, model.ActionUserDisabled, "users", user.ID))
	return nil
}
