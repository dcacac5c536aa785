package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/domain"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

func testLogger(tb interface{ Fatalf(string, ...any) }) *logger.Logger {
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

// In-memory repo fakes. Each optionally fails on demand so store-outage
// paths can be exercised without a database.

type fakeAttemptRepo struct {
	attempts []*domain.Attempt
	failWith error
}

func (f *fakeAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*domain.Attempt) ([]*domain.Attempt, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.attempts = append(f.attempts, attempts...)
	return attempts, nil
}

func (f *fakeAttemptRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Attempt, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []*domain.Attempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) UpdateExplanation(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic, question, explanation string) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	var rows int64
	for _, a := range f.attempts {
		if a.UserID == userID && a.Topic == topic && a.Question == question {
			a.Explanation = explanation
			rows++
		}
	}
	return rows, nil
}

type fakeUserRepo struct {
	users    []*domain.User
	failWith error
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*domain.User) ([]*domain.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.users = append(f.users, users...)
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*domain.User
	for _, u := range f.users {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*domain.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	want := make(map[string]bool, len(emails))
	for _, e := range emails {
		want[e] = true
	}
	var out []*domain.User
	for _, u := range f.users {
		if want[u.Email] {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeAchievementRepo struct {
	rows     []*domain.Achievement
	failWith error
}

func (f *fakeAchievementRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.Achievement) ([]*domain.Achievement, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, r := range rows {
		for _, existing := range f.rows {
			if existing.Name == r.Name {
				return nil, gorm.ErrDuplicatedKey
			}
		}
		f.rows = append(f.rows, r)
	}
	return rows, nil
}

func (f *fakeAchievementRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*domain.Achievement, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]*domain.Achievement{}, f.rows...), nil
}

func (f *fakeAchievementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Achievement, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*domain.Achievement
	for _, r := range f.rows {
		if want[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAchievementRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*domain.Achievement, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []*domain.Achievement
	for _, r := range f.rows {
		if want[r.Name] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAchievementRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.Achievement) error {
	if f.failWith != nil {
		return f.failWith
	}
	for i, existing := range f.rows {
		if existing.ID == row.ID {
			f.rows[i] = row
			return nil
		}
	}
	return fmt.Errorf("achievement %s not found", row.ID)
}

func (f *fakeAchievementRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	if f.failWith != nil {
		return f.failWith
	}
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var kept []*domain.Achievement
	for _, r := range f.rows {
		if !want[r.ID] {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

type fakeUserAchievementRepo struct {
	rows     []*domain.UserAchievement
	failWith error
}

func (f *fakeUserAchievementRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.UserAchievement) ([]*domain.UserAchievement, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, r := range rows {
		for _, existing := range f.rows {
			if existing.UserID == r.UserID && existing.AchievementID == r.AchievementID {
				return nil, gorm.ErrDuplicatedKey
			}
		}
		f.rows = append(f.rows, r)
	}
	return rows, nil
}

func (f *fakeUserAchievementRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.UserAchievement, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []*domain.UserAchievement
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeUserAchievementRepo) Exists(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	for _, r := range f.rows {
		if r.UserID == userID && r.AchievementID == achievementID {
			return true, nil
		}
	}
	return false, nil
}

// fakeLLM answers every prompt with a canned response.
type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
