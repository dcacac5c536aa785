package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/domain"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

type LoginEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*domain.LoginEvent) ([]*domain.LoginEvent, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	// GetRecentByUserID returns up to limit events, newest first.
	GetRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*domain.LoginEvent, error)
}

type loginEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoginEventRepo(db *gorm.DB, baseLog *logger.Logger) LoginEventRepo {
	return &loginEventRepo{db: db, log: baseLog.With("repo", "LoginEventRepo")}
}

func (r *loginEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*domain.LoginEvent) ([]*domain.LoginEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(events) == 0 {
		return []*domain.LoginEvent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *loginEventRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.LoginEvent{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *loginEventRepo) GetRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*domain.LoginEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LoginEvent
	if userID == uuid.Nil || limit <= 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
