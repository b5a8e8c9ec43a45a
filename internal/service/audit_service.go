package service

import (
	"context"
	"encoding/json"
	"time"

	"backend/internal/apperror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"
	"backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Retention bounds for audit cleanup, in days
const (
	MinRetentionDays = 30
	MaxRetentionDays = 365
)

// Entry describes one mutating action to record
type Entry struct {
	TenantID  *uuid.UUID
	UserID    *uuid.UUID
	Action    string
	TableName string
	RecordID  string
	OldValues interface{}
	NewValues interface{}
	IP        string
	UserAgent string
}

// AuditService appends the immutable action trail and serves its views.
// Writes are asynchronous: a failed audit write never fails the primary
// operation, it is only logged.
type AuditService interface {
	Record(ctx context.Context, entry Entry)
	List(ctx context.Context, filter repository.AuditFilter, page, perPage int) ([]model.AuditLog, int64, error)
	ListAll(ctx context.Context, filter repository.AuditFilter, page, perPage int) ([]model.AuditLog, int64, error)
	Cleanup(ctx context.Context, days int) (int64, int, error)
	Close()
}

type auditService struct {
	repo    repository.AuditRepository
	entries chan *model.AuditLog
	done    chan struct{}
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	s := &auditService{
		repo:    repo,
		entries: make(chan *model.AuditLog, 256),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// run drains the entry queue on a background goroutine
func (s *auditService) run() {
	defer close(s.done)
	for entry := range s.entries {
		if err := s.repo.Create(context.Background(), entry); err != nil {
			logger.L().Error("audit write failed",
				zap.String("action", entry.Action),
				zap.Error(err),
			)
		}
	}
}

// Close flushes pending entries and stops the worker
func (s *auditService) Close() {
	close(s.entries)
	<-s.done
}

func marshalValues(v interface{}) []byte {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.L().Warn("audit payload not serializable", zap.Error(err))
		return nil
	}
	return data
}

// Record queues an entry. The caller never observes a failure.
func (s *auditService) Record(ctx context.Context, entry Entry) {
	row := &model.AuditLog{
		TenantID:  entry.TenantID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		TableName: entry.TableName,
		RecordID:  entry.RecordID,
		OldValues: marshalValues(entry.OldValues),
		NewValues: marshalValues(entry.NewValues),
		IP:        entry.IP,
		UserAgent: entry.UserAgent,
	}
	select {
	case s.entries <- row:
	default:
		logger.L().Warn("audit entry dropped, queue full", zap.String("action", entry.Action))
	}
}

func (s *auditService) List(ctx context.Context, filter repository.AuditFilter, page, perPage int) ([]model.AuditLog, int64, error) {
	logs, total, err := s.repo.List(ctx, filter, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list audit logs", err)
	}
	return logs, total, nil
}

func (s *auditService) ListAll(ctx context.Context, filter repository.AuditFilter, page, perPage int) ([]model.AuditLog, int64, error) {
	logs, total, err := s.repo.ListAll(ctx, filter, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list audit logs", err)
	}
	return logs, total, nil
}

// Cleanup removes tenant entries older than the given day threshold, clamped
// to [MinRetentionDays, MaxRetentionDays]. Returns rows removed and the
// threshold actually applied.
func (s *auditService) Cleanup(ctx context.Context, days int) (int64, int, error) {
	if days < MinRetentionDays {
		days = MinRetentionDays
	}
	if days > MaxRetentionDays {
		days = MaxRetentionDays
	}

	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return 0, days, err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, days, apperror.Internal("audit cleanup failed", err)
	}

	if principal, ok := scope.PrincipalFrom(ctx); ok {
		s.Record(ctx, Entry{
			TenantID:  &tenant.ID,
			UserID:    &principal.ID,
			Action:    model.ActionAuditCleanup,
			TableName: "audit_logs",
			NewValues: map[string]interface{}{"days": days, "removed": removed},
		})
	}
	return removed, days, nil
}
