package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pylearnhq/pylearn-backend/internal/data/repos/testutil"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
)

func TestQuizSessionRepo_UpsertKeepsOneRowPerUser(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewQuizSessionRepo(testutil.DB(t), testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "session@example.com")
	now := time.Now().UTC()

	if err := repo.Upsert(ctx, tx, &domain.QuizSession{
		ID:            uuid.New(),
		UserID:        user.ID,
		Topic:         "Loops",
		QuestionIndex: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	if err := repo.Upsert(ctx, tx, &domain.QuizSession{
		ID:            uuid.New(),
		UserID:        user.ID,
		Topic:         "Strings",
		QuestionIndex: 2,
		Answered:      3,
		Correct:       2,
		CreatedAt:     now,
		UpdatedAt:     now.Add(time.Minute),
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a session row")
	}
	if got.Topic != "Strings" || got.QuestionIndex != 2 || got.Answered != 3 || got.Correct != 2 {
		t.Fatalf("second upsert did not replace position: %+v", got)
	}

	var count int64
	if err := tx.WithContext(ctx).Model(&domain.QuizSession{}).
		Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one session row, got %d", count)
	}
}

func TestQuizSessionRepo_GetMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewQuizSessionRepo(testutil.DB(t), testutil.Logger(t))

	got, err := repo.GetByUserID(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a user without a session, got %+v", got)
	}
}

func TestQuizSessionRepo_DeleteByUserID(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewQuizSessionRepo(testutil.DB(t), testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "sessiondelete@example.com")
	now := time.Now().UTC()
	if err := repo.Upsert(ctx, tx, &domain.QuizSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		Topic:     "Loops",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.DeleteByUserID(ctx, tx, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := repo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("session should be gone, got %+v", got)
	}
}
