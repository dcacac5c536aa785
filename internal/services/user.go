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

// Profile is the progress-page view of a user: identity, login history
// facts, and the current performance summary.
type Profile struct {
	User              *domain.User               `json:"user"`
	LoginCount        int64                      `json:"login_count"`
	PreviousLoginTime *time.Time                 `json:"previous_login_time,omitempty"`
	Performance       *domain.PerformanceSummary `json:"performance,omitempty"`
}

type UserService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

type userService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	loginRepo   repos.LoginEventRepo
	performance PerformanceService
}

func NewUserService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	loginRepo repos.LoginEventRepo,
	performance PerformanceService,
) UserService {
	return &userService{
		db:          db,
		log:         baseLog.With("service", "UserService"),
		userRepo:    userRepo,
		loginRepo:   loginRepo,
		performance: performance,
	}
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch user: %v", apperrors.ErrStoreUnavailable, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return users[0], nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user}

	count, err := s.loginRepo.CountByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: count logins: %v", apperrors.ErrStoreUnavailable, err)
	}
	profile.LoginCount = count

	// The newest event is the current session's login; the one before it
	// is what the profile page shows as "previous login".
	recent, err := s.loginRepo.GetRecentByUserID(ctx, nil, userID, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch logins: %v", apperrors.ErrStoreUnavailable, err)
	}
	if len(recent) > 1 {
		t := recent[1].CreatedAt
		profile.PreviousLoginTime = &t
	}

	// Performance is decoration here: a degraded summary should not block
	// the profile view.
	summary, err := s.performance.GetPerformance(ctx, userID)
	if err != nil {
		s.log.Warn("profile performance unavailable", "user_id", userID, "error", err)
	} else {
		profile.Performance = summary
	}

	return profile, nil
}
