package repository

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/scope"

	"gorm.io/gorm"
)

// AuditFilter narrows audit log listings
type AuditFilter struct {
	Action    string
	TableName string
	From      *time.Time
	To        *time.Time
}

// AuditRepository appends and reads the immutable action trail. There is no
// update method on purpose; the only delete path is retention cleanup.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter, offset, limit int) ([]model.AuditLog, int64, error)
	ListAll(ctx context.Context, filter AuditFilter, offset, limit int) ([]model.AuditLog, int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) list(q *gorm.DB, filter AuditFilter, offset, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.TableName != "" {
		q = q.Where("table_name = ?", filter.TableName)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Preload("User").Order("created_at desc").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// List is tenant-scoped, the normal view
func (r *auditRepository) List(ctx context.Context, filter AuditFilter, offset, limit int) ([]model.AuditLog, int64, error) {
	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.AuditLog{})
	return r.list(q, filter, offset, limit)
}

// ListAll is the system-level view, reachable only from super-admin flows
func (r *auditRepository) ListAll(ctx context.Context, filter AuditFilter, offset, limit int) ([]model.AuditLog, int64, error) {
	q := GetDB(ctx, r.db).Model(&model.AuditLog{})
	return r.list(q, filter, offset, limit)
}

// DeleteOlderThan is the retention-cleanup path, tenant-scoped
func (r *auditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := scope.Scoped(ctx, GetDB(ctx, r.db)).
		Where("created_at < ?", cutoff).
		Delete(&model.AuditLog{})
	return res.RowsAffected, res.Error
}
