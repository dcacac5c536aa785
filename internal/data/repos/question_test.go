package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pylearnhq/pylearn-backend/internal/data/repos/testutil"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
)

func bankRow(topic string, index int) *domain.QuizQuestion {
	return &domain.QuizQuestion{
		ID:            uuid.New(),
		Topic:         topic,
		Index:         index,
		Prompt:        uuid.NewString(),
		Options:       datatypes.JSON(`["a","b"]`),
		CorrectAnswer: "a",
		CreatedAt:     time.Now().UTC(),
	}
}

func TestQuizQuestionRepo_GetByTopicOrderedByIndex(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewQuizQuestionRepo(testutil.DB(t), testutil.Logger(t))

	// Insert out of order; reads must come back by position.
	if _, err := repo.Create(ctx, tx, []*domain.QuizQuestion{
		bankRow("Loops", 2),
		bankRow("Loops", 0),
		bankRow("Loops", 1),
		bankRow("Strings", 0),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByTopic(ctx, tx, "Loops")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got))
	}
	for i, q := range got {
		if q.Index != i {
			t.Fatalf("position %d holds index %d", i, q.Index)
		}
	}
}

func TestQuizQuestionRepo_TopicsAndCount(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewQuizQuestionRepo(testutil.DB(t), testutil.Logger(t))

	if _, err := repo.Create(ctx, tx, []*domain.QuizQuestion{
		bankRow("Dicts", 0),
		bankRow("Dicts", 1),
		bankRow("Classes", 0),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	topics, err := repo.Topics(ctx, tx)
	if err != nil {
		t.Fatalf("topics: %v", err)
	}
	seen := map[string]bool{}
	for _, topic := range topics {
		if seen[topic] {
			t.Fatalf("duplicate topic %q", topic)
		}
		seen[topic] = true
	}
	if !seen["Dicts"] || !seen["Classes"] {
		t.Fatalf("missing topics: %v", topics)
	}

	count, err := repo.Count(ctx, tx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count < 3 {
		t.Fatalf("expected at least 3 rows, got %d", count)
	}
}

func TestQuizQuestionRepo_EmptyTopicReturnsNothing(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewQuizQuestionRepo(testutil.DB(t), testutil.Logger(t))

	got, err := repo.GetByTopic(ctx, tx, "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("blank topic must match nothing, got %d", len(got))
	}
}
