package repository

import (
	"context"

	"backend/internal/model"
	"backend/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoticeRepository interface {
	Create(ctx context.Context, notice *model.NoticeEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.NoticeEvent, error)
	List(ctx context.Context, level string, offset, limit int) ([]model.NoticeEvent, int64, error)
	Update(ctx context.Context, notice *model.NoticeEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *model.NoticeEvent) error {
	return GetDB(ctx, r.db).Create(notice).Error
}

func (r *noticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.NoticeEvent, error) {
	var notice model.NoticeEvent
	if err := scope.Scoped(ctx, GetDB(ctx, r.db)).First(&notice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *noticeRepository) List(ctx context.Context, level string, offset, limit int) ([]model.NoticeEvent, int64, error) {
	var notices []model.NoticeEvent
	var total int64

	q := scope.Scoped(ctx, GetDB(ctx, r.db)).Model(&model.NoticeEvent{})
	if level != "" {
		q = q.Where("level = ?", level)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&notices).Error; err != nil {
		return nil, 0, err
	}
	return notices, total, nil
}

func (r *noticeRepository) Update(ctx context.Context, notice *model.NoticeEvent) error {
	return GetDB(ctx, r.db).Save(notice).Error
}

func (r *noticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return scope.Scoped(ctx, GetDB(ctx, r.db)).Delete(&model.NoticeEvent{}, "id = ?", id).Error
}
