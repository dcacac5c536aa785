package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/domain"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

type AttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempts []*domain.Attempt) ([]*domain.Attempt, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Attempt, error)
	// UpdateExplanation backfills the explanation on attempts matching
	// (user, topic, question). Returns the number of rows touched.
	UpdateExplanation(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic, question, explanation string) (int64, error)
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return &attemptRepo{db: db, log: baseLog.With("repo", "AttemptRepo")}
}

func (r *attemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*domain.Attempt) ([]*domain.Attempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(attempts) == 0 {
		return []*domain.Attempt{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Attempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Attempt
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attemptRepo) UpdateExplanation(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic, question, explanation string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Attempt{}).
		Where("user_id = ? AND topic = ? AND question = ?", userID, topic, question).
		Update("explanation", explanation)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
