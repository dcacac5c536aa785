package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pylearnhq/pylearn-backend/internal/data/repos/testutil"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
)

func TestAttemptRepo_CreateAndGetByUserID(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewAttemptRepo(testutil.DB(t), testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "attempts@example.com")
	other := testutil.SeedUser(t, ctx, tx, "other@example.com")

	first := testutil.SeedAttempt(t, ctx, tx, user.ID, "Loops", true)
	testutil.SeedAttempt(t, ctx, tx, other.ID, "Loops", false)

	got, err := repo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(got))
	}
	if got[0].ID != first.ID || !got[0].Correct {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

func TestAttemptRepo_GetByUserID_OrderedOldestFirst(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewAttemptRepo(testutil.DB(t), testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "ordering@example.com")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		a := &domain.Attempt{
			ID:        uuid.New(),
			UserID:    user.ID,
			Topic:     "Loops",
			Question:  uuid.NewString(),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := tx.WithContext(ctx).Create(a).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := repo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.Before(got[i-1].CreatedAt) {
			t.Fatalf("attempts out of order at %d", i)
		}
	}
}

func TestAttemptRepo_UpdateExplanation(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewAttemptRepo(testutil.DB(t), testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "backfill@example.com")
	seeded := testutil.SeedAttempt(t, ctx, tx, user.ID, "Loops", true)

	rows, err := repo.UpdateExplanation(ctx, tx, user.ID, seeded.Topic, seeded.Question, "because range stops early")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row touched, got %d", rows)
	}

	got, err := repo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got[0].Explanation != "because range stops early" {
		t.Fatalf("explanation not written: %q", got[0].Explanation)
	}
}

func TestAttemptRepo_UpdateExplanation_NoMatchTouchesNothing(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewAttemptRepo(testutil.DB(t), testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "nomatch@example.com")

	rows, err := repo.UpdateExplanation(ctx, tx, user.ID, "Loops", "never asked", "text")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows touched, got %d", rows)
	}
}
