package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/data/repos"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
	apperrors "github.com/pylearnhq/pylearn-backend/internal/pkg/errors"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

// SessionState is the client-facing quiz position.
type SessionState struct {
	Topic         string `json:"topic"`
	QuestionIndex int    `json:"question_index"`
	Answered      int    `json:"answered"`
	Correct       int    `json:"correct"`
}

type QuizSessionService interface {
	// Get returns the saved quiz position, or a zero state when the user
	// has never started a quiz.
	Get(ctx context.Context, userID uuid.UUID) (*SessionState, error)
	Save(ctx context.Context, userID uuid.UUID, state *SessionState) error
	Reset(ctx context.Context, userID uuid.UUID) error
}

type quizSessionService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.QuizSessionRepo
}

func NewQuizSessionService(db *gorm.DB, baseLog *logger.Logger, repo repos.QuizSessionRepo) QuizSessionService {
	return &quizSessionService{
		db:   db,
		log:  baseLog.With("service", "QuizSessionService"),
		repo: repo,
	}
}

func (s *quizSessionService) Get(ctx context.Context, userID uuid.UUID) (*SessionState, error) {
	session, err := s.repo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch quiz session: %v", apperrors.ErrStoreUnavailable, err)
	}
	if session == nil {
		return &SessionState{}, nil
	}
	return &SessionState{
		Topic:         session.Topic,
		QuestionIndex: session.QuestionIndex,
		Answered:      session.Answered,
		Correct:       session.Correct,
	}, nil
}

func (s *quizSessionService) Save(ctx context.Context, userID uuid.UUID, state *SessionState) error {
	if state == nil {
		return fmt.Errorf("session state is required")
	}

	now := time.Now().UTC()
	session := &domain.QuizSession{
		ID:            uuid.New(),
		UserID:        userID,
		Topic:         state.Topic,
		QuestionIndex: state.QuestionIndex,
		Answered:      state.Answered,
		Correct:       state.Correct,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Upsert(ctx, nil, session); err != nil {
		return fmt.Errorf("%w: save quiz session: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *quizSessionService) Reset(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteByUserID(ctx, nil, userID); err != nil {
		return fmt.Errorf("%w: reset quiz session: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}
