package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/data/repos"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
	apperrors "github.com/pylearnhq/pylearn-backend/internal/pkg/errors"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

// StruggledThreshold is the correct-rate below which a topic counts as
// struggled. Strict comparison: a topic at exactly 50% is not struggled.
const StruggledThreshold = 0.5

type PerformanceService interface {
	// GetPerformance derives a summary from the user's attempt history.
	// A user with no attempts gets a zero-valued summary, not an error.
	GetPerformance(ctx context.Context, userID uuid.UUID) (*domain.PerformanceSummary, error)
}

type performanceService struct {
	db          *gorm.DB
	log         *logger.Logger
	attemptRepo repos.AttemptRepo
}

func NewPerformanceService(db *gorm.DB, baseLog *logger.Logger, attemptRepo repos.AttemptRepo) PerformanceService {
	return &performanceService{
		db:          db,
		log:         baseLog.With("service", "PerformanceService"),
		attemptRepo: attemptRepo,
	}
}

func (s *performanceService) GetPerformance(ctx context.Context, userID uuid.UUID) (*domain.PerformanceSummary, error) {
	attempts, err := s.attemptRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch attempts: %v", apperrors.ErrStoreUnavailable, err)
	}
	return Summarize(attempts), nil
}

// Summarize aggregates attempts into a PerformanceSummary. Pure; safe to
// call with any slice including nil.
func Summarize(attempts []*domain.Attempt) *domain.PerformanceSummary {
	summary := &domain.PerformanceSummary{
		TopicsAttempted: []string{},
		TopicsStruggled: []string{},
	}

	type topicStats struct {
		total   int
		correct int
	}
	byTopic := make(map[string]*topicStats)

	for _, a := range attempts {
		summary.TotalAnswered++
		if a.Correct {
			summary.TotalCorrect++
		}
		st := byTopic[a.Topic]
		if st == nil {
			st = &topicStats{}
			byTopic[a.Topic] = st
		}
		st.total++
		if a.Correct {
			st.correct++
		}
	}

	for topic, st := range byTopic {
		summary.TopicsAttempted = append(summary.TopicsAttempted, topic)
		if float64(st.correct)/float64(st.total) < StruggledThreshold {
			summary.TopicsStruggled = append(summary.TopicsStruggled, topic)
		}
	}
	sort.Strings(summary.TopicsAttempted)
	sort.Strings(summary.TopicsStruggled)

	return summary
}
