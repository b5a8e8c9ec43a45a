package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository resolves and terminates login sessions. Lookups are by
// token or id, never tenant-scoped: the session itself carries the tenant.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetActiveByToken(ctx context.Context, token string) (*model.Session, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Terminate(ctx context.Context, id uuid.UUID) error
	TerminateAllForUser(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return GetDB(ctx, r.db).Create(session).Error
}

func (r *sessionRepository) getActive(ctx context.Context, cond string, arg interface{}) (*model.Session, error) {
	var session model.Session
	err := GetDB(ctx, r.db).
		Preload("User").
		Preload("User.RoleBundle").
		Where("is_active = ? AND expires_at > ?", true, time.Now()).
		First(&session, cond, arg).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) GetActiveByToken(ctx context.Context, token string) (*model.Session, error) {
	return r.getActive(ctx, "token = ?", token)
}

func (r *sessionRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	return r.getActive(ctx, "id = ?", id)
}

func (r *sessionRepository) Terminate(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return GetDB(ctx, r.db).Model(&model.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "terminated_at": now}).Error
}

// TerminateAllForUser ends every active session of a user, optionally sparing
// one (the session that initiated a password change keeps working).
func (r *sessionRepository) TerminateAllForUser(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error {
	now := time.Now()
	q := GetDB(ctx, r.db).Model(&model.Session{}).
		Where("user_id = ? AND is_active = ?", userID, true)
	if exceptID != uuid.Nil {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Updates(map[string]interface{}{"is_active": false, "terminated_at": now}).Error
}
