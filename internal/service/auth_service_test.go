package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) (AuthService, AuditService) {
	audit := NewAuditService(repository.NewAuditRepository(db))
	return NewAuthService(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		audit,
		[]byte("test-secret"),
		time.Hour,
	), audit
}

func seedUser(t *testing.T, db *gorm.DB, tenantID uuid.UUID, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		TenantID: &tenantID,
		Username: "user-" + uuid.New().String()[:8],
		Email:    uuid.New().String()[:8] + "@example.com",
		Password: string(hash),
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestLoginIssuesSession(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	user := seedUser(t, db, tenant.ID, "correct horse")

	svc, audit := newAuthService(db)
	defer audit.Close()

	resp, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "correct horse"}, "127.0.0.1", "test")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.SessionToken)
	assert.Equal(t, user.ID, resp.User.ID)

	var session model.Session
	require.NoError(t, db.First(&session, "token = ?", resp.SessionToken).Error)
	assert.True(t, session.IsActive)
	assert.Equal(t, user.ID, session.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	user := seedUser(t, db, tenant.ID, "correct horse")

	svc, audit := newAuthService(db)
	defer audit.Close()

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"}, "", "")
	require.Error(t, err)

	// unknown email yields the same error shape as a wrong password
	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "wrong"}, "", "")
	require.Error(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "correct horse"}, "", "")
	require.Error(t, err)
}

func TestChangePasswordTerminatesAllSessions(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	user := seedUser(t, db, tenant.ID, "old password")

	svc, audit := newAuthService(db)
	defer audit.Close()

	first, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "old password"}, "", "")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "old password"}, "", "")
	require.NoError(t, err)

	var current model.Session
	require.NoError(t, db.First(&current, "token = ?", second.SessionToken).Error)

	var fresh model.User
	require.NoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	ctx := scope.WithSession(scope.WithPrincipal(context.Background(), &fresh), &current)

	require.NoError(t, svc.ChangePassword(ctx, ChangePasswordRequest{
		CurrentPassword: "old password",
		NewPassword:     "new password!",
	}))

	// every session dies with the old password, the initiating one included
	for _, token := range []string{first.SessionToken, second.SessionToken} {
		var session model.Session
		require.NoError(t, db.First(&session, "token = ?", token).Error)
		assert.False(t, session.IsActive)
	}

	// old password no longer works, new one does
	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "old password"}, "", "")
	require.Error(t, err)
	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "new password!"}, "", "")
	require.NoError(t, err)
}

func TestLogoutTerminatesSession(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)
	user := seedUser(t, db, tenant.ID, "correct horse")

	svc, audit := newAuthService(db)
	defer audit.Close()

	resp, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "correct horse"}, "", "")
	require.NoError(t, err)

	var session model.Session
	require.NoError(t, db.First(&session, "token = ?", resp.SessionToken).Error)

	ctx := scope.WithSession(scope.WithPrincipal(context.Background(), user), &session)
	require.NoError(t, svc.Logout(ctx))

	require.NoError(t, db.First(&session, "token = ?", resp.SessionToken).Error)
	assert.False(t, session.IsActive)

	// logging out without a session is unauthorized
	require.Error(t, svc.Logout(context.Background()))
}
