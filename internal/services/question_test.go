package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/domain"
	apperrors "github.com/pylearnhq/pylearn-backend/internal/pkg/errors"
)

type fakeQuizQuestionRepo struct {
	rows     []*domain.QuizQuestion
	failWith error
}

func (f *fakeQuizQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*domain.QuizQuestion) ([]*domain.QuizQuestion, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.rows = append(f.rows, questions...)
	return questions, nil
}

func (f *fakeQuizQuestionRepo) GetByTopic(ctx context.Context, tx *gorm.DB, topic string) ([]*domain.QuizQuestion, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []*domain.QuizQuestion
	for _, q := range f.rows {
		if q.Topic == topic {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuizQuestionRepo) Topics(ctx context.Context, tx *gorm.DB) ([]string, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	seen := map[string]bool{}
	var topics []string
	for _, q := range f.rows {
		if !seen[q.Topic] {
			seen[q.Topic] = true
			topics = append(topics, q.Topic)
		}
	}
	return topics, nil
}

func (f *fakeQuizQuestionRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	return int64(len(f.rows)), nil
}

func writeBankFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write bank file: %v", err)
	}
	return path
}

const sampleBank = `{
  "Loops": [
    {"question": "How many iterations does range(2) produce?", "options": ["1", "2"], "answer": "2", "explanation": "range(2) yields 0 and 1."},
    {"question": "Which keyword exits a loop?", "options": ["break", "skip"], "answer": "break", "explanation": ""}
  ],
  "Variables": [
    {"question": "Is x-1 a valid name?", "options": ["yes", "no"], "answer": "no", "explanation": "Hyphens are not allowed."}
  ]
}`

func TestSeedFromFile_LoadsBankInOrder(t *testing.T) {
	log := testLogger(t)
	repo := &fakeQuizQuestionRepo{}
	svc := NewQuestionService(nil, log, repo)

	path := writeBankFile(t, sampleBank)
	if err := svc.SeedFromFile(context.Background(), path); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.rows) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(repo.rows))
	}

	loops, err := svc.GetByTopic(context.Background(), "Loops")
	if err != nil {
		t.Fatalf("get by topic: %v", err)
	}
	if len(loops) != 2 {
		t.Fatalf("expected 2 Loops questions, got %d", len(loops))
	}
	if loops[0].Index != 0 || loops[1].Index != 1 {
		t.Fatalf("file order must be preserved: %d, %d", loops[0].Index, loops[1].Index)
	}
	if len(loops[0].Options) != 2 || loops[0].Options[0] != "1" {
		t.Fatalf("options not carried: %v", loops[0].Options)
	}
}

func TestSeedFromFile_SkipsWhenAlreadySeeded(t *testing.T) {
	log := testLogger(t)
	repo := &fakeQuizQuestionRepo{rows: []*domain.QuizQuestion{{Topic: "Loops"}}}
	svc := NewQuestionService(nil, log, repo)

	path := writeBankFile(t, sampleBank)
	if err := svc.SeedFromFile(context.Background(), path); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("reseed must be a no-op, got %d rows", len(repo.rows))
	}
}

func TestSeedFromFile_MissingFileFails(t *testing.T) {
	log := testLogger(t)
	svc := NewQuestionService(nil, log, &fakeQuizQuestionRepo{})

	if err := svc.SeedFromFile(context.Background(), filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("missing bank file must fail")
	}
}

func TestCheckAnswer_GradesAgainstBank(t *testing.T) {
	log := testLogger(t)
	repo := &fakeQuizQuestionRepo{}
	svc := NewQuestionService(nil, log, repo)
	if err := svc.SeedFromFile(context.Background(), writeBankFile(t, sampleBank)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	check, err := svc.CheckAnswer(context.Background(), "Loops", 1, "break")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !check.Correct || check.CorrectAnswer != "break" {
		t.Fatalf("expected correct grading, got %+v", check)
	}

	check, err = svc.CheckAnswer(context.Background(), "Variables", 0, "yes")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if check.Correct {
		t.Fatalf("wrong answer graded as correct")
	}
	if check.Explanation == "" {
		t.Fatalf("explanation should be returned with the grade")
	}

	if _, err := svc.CheckAnswer(context.Background(), "Loops", 99, "x"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown index should be ErrNotFound, got %v", err)
	}
}

func TestGetByTopic_HidesAnswerAndExplanation(t *testing.T) {
	log := testLogger(t)
	repo := &fakeQuizQuestionRepo{}
	svc := NewQuestionService(nil, log, repo)
	if err := svc.SeedFromFile(context.Background(), writeBankFile(t, sampleBank)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	views, err := svc.GetByTopic(context.Background(), "Variables")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 question, got %d", len(views))
	}
	// QuizView carries no answer fields at all; make sure the prompt
	// made it through.
	if views[0].Prompt == "" {
		t.Fatalf("prompt missing from view")
	}
}

func TestTopics_StoreFailureSurfacesAsUnavailable(t *testing.T) {
	log := testLogger(t)
	svc := NewQuestionService(nil, log, &fakeQuizQuestionRepo{failWith: errors.New("down")})

	if _, err := svc.Topics(context.Background()); !errors.Is(err, apperrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
