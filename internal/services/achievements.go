package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/data/repos"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
	apperrors "github.com/pylearnhq/pylearn-backend/internal/pkg/errors"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

// AchievementStatus is one catalog entry plus the caller's unlock state.
type AchievementStatus struct {
	Achievement *domain.Achievement `json:"achievement"`
	Unlocked    bool                `json:"unlocked"`
	AchievedAt  *time.Time          `json:"achieved_at,omitempty"`
}

type AchievementService interface {
	// Evaluate runs every rule against the user's current performance and
	// grants any newly-qualifying achievements. Returns whether at least
	// one new grant happened in this call; grants are idempotent.
	Evaluate(ctx context.Context, userID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*AchievementStatus, error)

	// SeedCatalog inserts any rule-table achievements missing from the
	// catalog. Safe to run on every startup.
	SeedCatalog(ctx context.Context) error

	// Admin catalog management.
	CreateAchievement(ctx context.Context, name, description, criteria string) (*domain.Achievement, error)
	UpdateAchievement(ctx context.Context, id uuid.UUID, name, description, criteria string) (*domain.Achievement, error)
	DeleteAchievement(ctx context.Context, id uuid.UUID) error
}

type achievementService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	performance         PerformanceService
	userRepo            repos.UserRepo
	achievementRepo     repos.AchievementRepo
	userAchievementRepo repos.UserAchievementRepo
}

func NewAchievementService(
	db *gorm.DB,
	baseLog *logger.Logger,
	performance PerformanceService,
	userRepo repos.UserRepo,
	achievementRepo repos.AchievementRepo,
	userAchievementRepo repos.UserAchievementRepo,
) AchievementService {
	return &achievementService{
		db:                  db,
		log:                 baseLog.With("service", "AchievementService"),
		performance:         performance,
		userRepo:            userRepo,
		achievementRepo:     achievementRepo,
		userAchievementRepo: userAchievementRepo,
	}
}

func (s *achievementService) Evaluate(ctx context.Context, userID uuid.UUID) (bool, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return false, fmt.Errorf("%w: fetch user: %v", apperrors.ErrStoreUnavailable, err)
	}
	if len(users) == 0 {
		// Data-integrity warning, not fatal: nothing to grant against.
		s.log.Warn("evaluation skipped, user not found",
			"user_id", userID, "error", apperrors.ErrUnknownReference)
		return false, nil
	}

	summary, err := s.performance.GetPerformance(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("aggregate performance: %w", err)
	}

	var qualifying []achievementRule
	names := make([]string, 0, len(achievementRules))
	for _, rule := range achievementRules {
		if rule.Qualifies(summary) {
			qualifying = append(qualifying, rule)
			names = append(names, rule.Name)
		}
	}
	if len(qualifying) == 0 {
		return false, nil
	}

	catalog, err := s.achievementRepo.GetByNames(ctx, nil, names)
	if err != nil {
		return false, fmt.Errorf("%w: fetch catalog: %v", apperrors.ErrStoreUnavailable, err)
	}
	byName := make(map[string]*domain.Achievement, len(catalog))
	for _, a := range catalog {
		byName[a.Name] = a
	}

	earned, err := s.userAchievementRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return false, fmt.Errorf("%w: fetch user achievements: %v", apperrors.ErrStoreUnavailable, err)
	}
	alreadyEarned := make(map[uuid.UUID]bool, len(earned))
	for _, ua := range earned {
		alreadyEarned[ua.AchievementID] = true
	}

	newlyAssigned := false
	now := time.Now().UTC()
	for _, rule := range qualifying {
		entry, ok := byName[rule.Name]
		if !ok {
			// Missing catalog entry: warn and keep evaluating the rest.
			s.log.Warn("achievement missing from catalog, skipping grant",
				"achievement", rule.Name, "error", apperrors.ErrUnknownReference)
			continue
		}
		if alreadyEarned[entry.ID] {
			continue
		}

		_, err := s.userAchievementRepo.Create(ctx, nil, []*domain.UserAchievement{{
			ID:            uuid.New(),
			UserID:        userID,
			AchievementID: entry.ID,
			AchievedAt:    now,
		}})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Benign read-then-write race: the unique index already
				// holds the invariant we were about to establish.
				s.log.Warn("duplicate achievement grant skipped",
					"user_id", userID, "achievement", rule.Name)
				continue
			}
			return newlyAssigned, fmt.Errorf("%w: grant %q: %v", apperrors.ErrStoreUnavailable, rule.Name, err)
		}
		s.log.Info("achievement granted", "user_id", userID, "achievement", rule.Name)
		newlyAssigned = true
	}

	return newlyAssigned, nil
}

func (s *achievementService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*AchievementStatus, error) {
	catalog, err := s.achievementRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch catalog: %v", apperrors.ErrStoreUnavailable, err)
	}
	earned, err := s.userAchievementRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch user achievements: %v", apperrors.ErrStoreUnavailable, err)
	}

	achievedAt := make(map[uuid.UUID]time.Time, len(earned))
	for _, ua := range earned {
		achievedAt[ua.AchievementID] = ua.AchievedAt
	}

	statuses := make([]*AchievementStatus, 0, len(catalog))
	for _, entry := range catalog {
		status := &AchievementStatus{Achievement: entry}
		if at, ok := achievedAt[entry.ID]; ok {
			status.Unlocked = true
			t := at
			status.AchievedAt = &t
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *achievementService) SeedCatalog(ctx context.Context) error {
	names := make([]string, 0, len(achievementRules))
	for _, rule := range achievementRules {
		names = append(names, rule.Name)
	}
	existing, err := s.achievementRepo.GetByNames(ctx, nil, names)
	if err != nil {
		return fmt.Errorf("%w: fetch catalog: %v", apperrors.ErrStoreUnavailable, err)
	}
	present := make(map[string]bool, len(existing))
	for _, a := range existing {
		present[a.Name] = true
	}

	var missing []*domain.Achievement
	for _, rule := range achievementRules {
		if present[rule.Name] {
			continue
		}
		missing = append(missing, &domain.Achievement{
			ID:          uuid.New(),
			Name:        rule.Name,
			Description: rule.Description,
			Criteria:    rule.Criteria,
		})
	}
	if len(missing) == 0 {
		return nil
	}

	if _, err := s.achievementRepo.Create(ctx, nil, missing); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn("achievement catalog seeded concurrently, skipping")
			return nil
		}
		return fmt.Errorf("%w: seed catalog: %v", apperrors.ErrStoreUnavailable, err)
	}
	s.log.Info("achievement catalog seeded", "count", len(missing))
	return nil
}

func (s *achievementService) CreateAchievement(ctx context.Context, name, description, criteria string) (*domain.Achievement, error) {
	if name == "" {
		return nil, fmt.Errorf("achievement name is required")
	}
	entry := &domain.Achievement{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Criteria:    criteria,
	}
	if _, err := s.achievementRepo.Create(ctx, nil, []*domain.Achievement{entry}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: achievement %q already exists", apperrors.ErrIntegrityViolation, name)
		}
		return nil, fmt.Errorf("%w: create achievement: %v", apperrors.ErrStoreUnavailable, err)
	}
	return entry, nil
}

func (s *achievementService) UpdateAchievement(ctx context.Context, id uuid.UUID, name, description, criteria string) (*domain.Achievement, error) {
	rows, err := s.achievementRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch achievement: %v", apperrors.ErrStoreUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: achievement %s", apperrors.ErrNotFound, id)
	}

	entry := rows[0]
	if name != "" {
		entry.Name = name
	}
	if description != "" {
		entry.Description = description
	}
	if criteria != "" {
		entry.Criteria = criteria
	}
	if err := s.achievementRepo.Update(ctx, nil, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: achievement %q already exists", apperrors.ErrIntegrityViolation, name)
		}
		return nil, fmt.Errorf("%w: update achievement: %v", apperrors.ErrStoreUnavailable, err)
	}
	return entry, nil
}

func (s *achievementService) DeleteAchievement(ctx context.Context, id uuid.UUID) error {
	if err := s.achievementRepo.DeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("%w: delete achievement: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}
