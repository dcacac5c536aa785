package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/domain"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

type AchievementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.Achievement) ([]*domain.Achievement, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.Achievement, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Achievement, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*domain.Achievement, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.Achievement) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (r *achievementRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.Achievement) ([]*domain.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*domain.Achievement{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *achievementRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Achievement
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *achievementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Achievement
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *achievementRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*domain.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Achievement
	if len(names) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("name IN ?", names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *achievementRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.Achievement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *achievementRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.Achievement{}).Error; err != nil {
		return err
	}
	return nil
}
