package service

import (
	"context"
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

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token        string       `json:"token"`         // signed JWT bound to the session
	SessionToken string       `json:"session_token"` // opaque token for X-Session-Token callers
	User         UserResponse `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type MeResponse struct {
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

// AuthService implements login, logout and session maintenance
type AuthService interface {
	Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*LoginResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*MeResponse, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}

type authService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	audit      AuditService
	jwtSecret  []byte
	sessionTTL time.Duration
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	audit AuditService,
	jwtSecret []byte,
	sessionTTL time.Duration,
) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		audit:      audit,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, apperror.Internal("login failed", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("account disabled")
	}

	session := &model.Session{
		Token:     auth.NewSessionToken(),
		UserID:    user.ID,
		TenantID:  user.TenantID,
		IsActive:  true,
		IP:        ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperror.Internal("failed to create session", err)
	}

	token, err := auth.IssueAccessToken(s.jwtSecret, user, session, s.sessionTTL)
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}

	s.audit.Record(ctx, Entry{
		TenantID:  user.TenantID,
		UserID:    &user.ID,
		Action:    model.ActionLogin,
		TableName: "sessions",
		RecordID:  session.ID.String(),
		IP:        ip,
		UserAgent: userAgent,
	})

	return &LoginResponse{
		Token:        token,
		SessionToken: session.Token,
		User:         toUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context) error {
	session, ok := scope.SessionFrom(ctx)
	if !ok {
		return apperror.Unauthorized("no active session")
	}
	if err := s.sessions.Terminate(ctx, session.ID); err != nil {
		return apperror.Internal("failed to terminate session", err)
	}
	s.audit.Record(ctx, auditEntry(ctx, model.ActionLogout, "sessions", session.ID))
	return nil
}

func (s *authService) Me(ctx context.Context) (*MeResponse, error) {
	user, ok := scope.PrincipalFrom(ctx)
	if !ok {
		return nil, apperror.Unauthorized("authentication required")
	}
	perms := auth.EffectivePermissions(user)
	codes := make([]string, 0, len(perms))
	for code := range perms {
		codes = append(codes, code)
	}
	return &MeResponse{User: toUserResponse(user), Permissions: codes}, nil
}

// ChangePassword rotates the password and terminates every session of the
// user, the current one included. The caller logs in again with the new
// credentials.
func (s *authService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	user, ok := scope.PrincipalFrom(ctx)
	if !ok {
		return apperror.Unauthorized("authentication required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return apperror.Unauthorized("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}
	user.Password = string(hashed)
	if err := s.users.Update(ctx, user); err != nil {
		return apperror.Internal("failed to update password", err)
	}

	if err := s.sessions.TerminateAllForUser(ctx, user.ID, uuid.Nil); err != nil {
		return apperror.Internal("failed to terminate sessions", err)
	}

	s.audit.Record(ctx, auditEntry(ctx, model.ActionPasswordChanged, "users", user.ID))
	return nil
}
