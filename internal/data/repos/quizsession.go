package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pylearnhq/pylearn-backend/internal/domain"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

type QuizSessionRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.QuizSession, error)
	// Upsert writes the session keyed on user_id, replacing any previous
	// position for that user.
	Upsert(ctx context.Context, tx *gorm.DB, session *domain.QuizSession) error
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type quizSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizSessionRepo(db *gorm.DB, baseLog *logger.Logger) QuizSessionRepo {
	return &quizSessionRepo{db: db, log: baseLog.With("repo", "QuizSessionRepo")}
}

func (r *quizSessionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.QuizSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.QuizSession
	if userID == uuid.Nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *quizSessionRepo) Upsert(ctx context.Context, tx *gorm.DB, session *domain.QuizSession) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if session == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"topic", "question_index", "answered", "correct", "updated_at",
			}),
		}).
		Create(session).Error; err != nil {
		return err
	}
	return nil
}

func (r *quizSessionRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.QuizSession{}).Error; err != nil {
		return err
	}
	return nil
}
