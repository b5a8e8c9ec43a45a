package service

import (
	"context"
	"encoding/json"
	"time"

	"backend/internal/apperror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/scope"
	"backend/internal/websocket"
	"backend/pkg/logger"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- DTOs ---

type NoticeRequest struct {
	Title       string     `json:"title" binding:"required"`
	Body        string     `json:"body"`
	Level       string     `json:"level"`
	EffectiveAt *time.Time `json:"effective_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func validNoticeLevel(level string) bool {
	switch level {
	case model.NoticeLevelInfo, model.NoticeLevelWarning, model.NoticeLevelCritical:
		return true
	}
	return false
}

// NoticeService manages announcements and pushes new ones to the tenant's
// websocket subscribers.
type NoticeService interface {
	Create(ctx context.Context, req NoticeRequest) (*model.NoticeEvent, error)
	Get(ctx context.Context, id uuid.UUID) (*model.NoticeEvent, error)
	List(ctx context.Context, level string, p pagination.Params) ([]model.NoticeEvent, int64, error)
	Update(ctx context.Context, id uuid.UUID, req NoticeRequest) (*model.NoticeEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type noticeService struct {
	notices repository.NoticeRepository
	hub     *websocket.Hub
	audit   AuditService
}

func NewNoticeService(notices repository.NoticeRepository, hub *websocket.Hub, audit AuditService) NoticeService {
	return &noticeService{notices: notices, hub: hub, audit: audit}
}

func (s *noticeService) Create(ctx context.Context, req NoticeRequest) (*model.NoticeEvent, error) {
	tenant, err := scope.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	level := req.Level
	if level == "" {
		level = model.NoticeLevelInfo
	}
	if !validNoticeLevel(level) {
		return nil, apperror.Validation(map[string]string{"level": "must be info, warning or critical"})
	}
	if req.EffectiveAt != nil && req.ExpiresAt != nil && req.ExpiresAt.Before(*req.EffectiveAt) {
		return nil, apperror.Validation(map[string]string{"expires_at": "must be after effective_at"})
	}

	notice := &model.NoticeEvent{
		TenantID:    tenant.ID,
		Title:       req.Title,
		Body:        req.Body,
		Level:       level,
		EffectiveAt: req.EffectiveAt,
		ExpiresAt:   req.ExpiresAt,
	}
	if principal, ok := scope.PrincipalFrom(ctx); ok {
		id := principal.ID
		notice.CreatedByID = &id
	}
	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, apperror.Internal("failed to create notice", err)
	}

	s.broadcast(notice)

	entry := auditEntry(ctx, model.ActionNoticePublished, "notice_events", notice.ID)
	entry.NewValues = map[string]interface{}{"title": notice.Title, "level": notice.Level}
	s.audit.Record(ctx, entry)

	return notice, nil
}

// broadcast pushes the notice to connected clients of its tenant
func (s *noticeService) broadcast(notice *model.NoticeEvent) {
	payload, err := json.Marshal(notice)
	if err != nil {
		logger.L().Warn("notice broadcast skipped", zap.Error(err))
		return
	}
	s.hub.Publish(notice.TenantID, payload)
}

func (s *noticeService) Get(ctx context.Context, id uuid.UUID) (*model.NoticeEvent, error) {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "notice")
	}
	return notice, nil
}

func (s *noticeService) List(ctx context.Context, level string, p pagination.Params) ([]model.NoticeEvent, int64, error) {
	notices, total, err := s.notices.List(ctx, level, p.Offset(), p.PerPage)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list notices", err)
	}
	return notices, total, nil
}

func (s *noticeService) Update(ctx context.Context, id uuid.UUID, req NoticeRequest) (*model.NoticeEvent, error) {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "notice")
	}
	if req.Level != "" && !validNoticeLevel(req.Level) {
		return nil, apperror.Validation(map[string]string{"level": "must be info, warning or critical"})
	}

	notice.Title = req.Title
	notice.Body = req.Body
	if req.Level != "" {
		notice.Level = req.Level
	}
	notice.EffectiveAt = req.EffectiveAt
	notice.ExpiresAt = req.ExpiresAt
	if err := s.notices.Update(ctx, notice); err != nil {
		return nil, apperror.Internal("failed to update notice", err)
	}
	return notice, nil
}

func (s *noticeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.notices.GetByID(ctx, id); err != nil {
		return apperror.Wrap(err, "notice")
	}
	if err := s.notices.Delete(ctx, id); err != nil {
		return apperror.Internal("failed to delete notice", err)
	}
	return nil
}
