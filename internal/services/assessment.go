package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/data/repos"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
	apperrors "github.com/pylearnhq/pylearn-backend/internal/pkg/errors"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

// AttemptInput is one graded answer as reported by the quiz UI.
type AttemptInput struct {
	Topic         string `json:"topic"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

type AssessmentService interface {
	// SubmitAttempt records the attempt, then re-evaluates achievements so
	// the evaluation sees the just-written row. Returns the stored attempt
	// and whether any achievement was newly granted.
	SubmitAttempt(ctx context.Context, userID uuid.UUID, input AttemptInput) (*domain.Attempt, bool, error)
	GetAttempts(ctx context.Context, userID uuid.UUID) ([]*domain.Attempt, error)
}

type assessmentService struct {
	db           *gorm.DB
	log          *logger.Logger
	attemptRepo  repos.AttemptRepo
	achievements AchievementService
	tutor        TutorService

	backfillTimeout time.Duration
}

func NewAssessmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	attemptRepo repos.AttemptRepo,
	achievements AchievementService,
	tutor TutorService,
) AssessmentService {
	return &assessmentService{
		db:              db,
		log:             baseLog.With("service", "AssessmentService"),
		attemptRepo:     attemptRepo,
		achievements:    achievements,
		tutor:           tutor,
		backfillTimeout: 60 * time.Second,
	}
}

func (s *assessmentService) SubmitAttempt(ctx context.Context, userID uuid.UUID, input AttemptInput) (*domain.Attempt, bool, error) {
	topic := strings.TrimSpace(input.Topic)
	question := strings.TrimSpace(input.Question)
	if topic == "" || question == "" {
		return nil, false, fmt.Errorf("topic and question are required")
	}

	attempt := &domain.Attempt{
		ID:            uuid.New(),
		UserID:        userID,
		Topic:         topic,
		Question:      question,
		UserAnswer:    input.UserAnswer,
		CorrectAnswer: input.CorrectAnswer,
		Correct:       input.Correct,
		Explanation:   strings.TrimSpace(input.Explanation),
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.attemptRepo.Create(ctx, nil, []*domain.Attempt{attempt}); err != nil {
		return nil, false, fmt.Errorf("%w: record attempt: %v", apperrors.ErrStoreUnavailable, err)
	}

	// Evaluation failure must not fail the submission: the caller just
	// doesn't get a celebration banner this cycle.
	newlyAssigned, err := s.achievements.Evaluate(ctx, userID)
	if err != nil {
		s.log.Warn("achievement evaluation failed after submit",
			"user_id", userID, "error", err)
		newlyAssigned = false
	}

	if attempt.Explanation == "" && s.tutor != nil {
		go s.backfillExplanation(attempt)
	}

	return attempt, newlyAssigned, nil
}

func (s *assessmentService) GetAttempts(ctx context.Context, userID uuid.UUID) ([]*domain.Attempt, error) {
	attempts, err := s.attemptRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch attempts: %v", apperrors.ErrStoreUnavailable, err)
	}
	return attempts, nil
}

// backfillExplanation asks the tutor for an explanation of the graded
// question and writes it onto the attempt. Best effort: a failed LLM call
// or write leaves the explanation empty.
func (s *assessmentService) backfillExplanation(attempt *domain.Attempt) {
	ctx, cancel := context.WithTimeout(context.Background(), s.backfillTimeout)
	defer cancel()

	explanation, err := s.tutor.ExplainAnswer(ctx, attempt.Question, attempt.CorrectAnswer)
	if err != nil {
		s.log.Warn("explanation backfill failed", "attempt_id", attempt.ID, "error", err)
		return
	}

	rows, err := s.attemptRepo.UpdateExplanation(ctx, nil, attempt.UserID, attempt.Topic, attempt.Question, explanation)
	if err != nil {
		s.log.Warn("explanation write failed", "attempt_id", attempt.ID, "error", err)
		return
	}
	if rows == 0 {
		s.log.Warn("explanation backfill matched no attempt",
			"attempt_id", attempt.ID, "error", apperrors.ErrUnknownReference)
	}
}
