package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/domain"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

type QuizQuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questions []*domain.QuizQuestion) ([]*domain.QuizQuestion, error)
	GetByTopic(ctx context.Context, tx *gorm.DB, topic string) ([]*domain.QuizQuestion, error)
	Topics(ctx context.Context, tx *gorm.DB) ([]string, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return &quizQuestionRepo{db: db, log: baseLog.With("repo", "QuizQuestionRepo")}
}

func (r *quizQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*domain.QuizQuestion) ([]*domain.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(questions) == 0 {
		return []*domain.QuizQuestion{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *quizQuestionRepo) GetByTopic(ctx context.Context, tx *gorm.DB, topic string) ([]*domain.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.QuizQuestion
	if topic == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("topic = ?", topic).
		Order("idx ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizQuestionRepo) Topics(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var topics []string
	if err := transaction.WithContext(ctx).
		Model(&domain.QuizQuestion{}).
		Distinct("topic").
		Order("topic ASC").
		Pluck("topic", &topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *quizQuestionRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.QuizQuestion{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
