package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pylearnhq/pylearn-backend/internal/data/repos"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
	apperrors "github.com/pylearnhq/pylearn-backend/internal/pkg/errors"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

// bankQuestion mirrors one entry of the question bank file, which maps
// topic names to ordered question lists:
//
//	{"Variables": [{"question": "...", "options": [...], "answer": "...", "explanation": "..."}]}
type bankQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// QuizView is a question as exposed to the quiz UI. The correct answer and
// explanation stay server side until the answer is checked.
type QuizView struct {
	ID      uuid.UUID `json:"id"`
	Topic   string    `json:"topic"`
	Index   int       `json:"index"`
	Prompt  string    `json:"prompt"`
	Options []string  `json:"options"`
}

// AnswerCheck is the result of grading one submitted answer.
type AnswerCheck struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

type QuestionService interface {
	SeedFromFile(ctx context.Context, path string) error
	Topics(ctx context.Context) ([]string, error)
	GetByTopic(ctx context.Context, topic string) ([]*QuizView, error)
	CheckAnswer(ctx context.Context, topic string, index int, answer string) (*AnswerCheck, error)
}

type questionService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.QuizQuestionRepo
}

func NewQuestionService(db *gorm.DB, baseLog *logger.Logger, repo repos.QuizQuestionRepo) QuestionService {
	return &questionService{
		db:   db,
		log:  baseLog.With("service", "QuestionService"),
		repo: repo,
	}
}

// SeedFromFile loads the JSON question bank into the store. It is a no-op
// when the bank has already been seeded.
func (s *questionService) SeedFromFile(ctx context.Context, path string) error {
	count, err := s.repo.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: count questions: %v", apperrors.ErrStoreUnavailable, err)
	}
	if count > 0 {
		s.log.Info("question bank already seeded", "count", count)
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read question bank %s: %w", path, err)
	}

	var bank map[string][]bankQuestion
	if err := json.Unmarshal(raw, &bank); err != nil {
		return fmt.Errorf("parse question bank %s: %w", path, err)
	}

	topics := make([]string, 0, len(bank))
	for topic := range bank {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	now := time.Now().UTC()
	var questions []*domain.QuizQuestion
	for _, topic := range topics {
		for i, q := range bank[topic] {
			if q.Question == "" {
				s.log.Warn("skipping bank entry without question text", "topic", topic, "index", i)
				continue
			}
			options, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("encode options for %s[%d]: %w", topic, i, err)
			}
			questions = append(questions, &domain.QuizQuestion{
				ID:            uuid.New(),
				Topic:         topic,
				Index:         i,
				Prompt:        q.Question,
				Options:       datatypes.JSON(options),
				CorrectAnswer: q.Answer,
				Explanation:   q.Explanation,
				CreatedAt:     now,
			})
		}
	}

	if _, err := s.repo.Create(ctx, nil, questions); err != nil {
		return fmt.Errorf("%w: seed questions: %v", apperrors.ErrStoreUnavailable, err)
	}
	s.log.Info("question bank seeded", "topics", len(topics), "questions", len(questions))
	return nil
}

func (s *questionService) Topics(ctx context.Context) ([]string, error) {
	topics, err := s.repo.Topics(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch topics: %v", apperrors.ErrStoreUnavailable, err)
	}
	if topics == nil {
		topics = []string{}
	}
	return topics, nil
}

func (s *questionService) GetByTopic(ctx context.Context, topic string) ([]*QuizView, error) {
	questions, err := s.repo.GetByTopic(ctx, nil, topic)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch questions: %v", apperrors.ErrStoreUnavailable, err)
	}

	views := make([]*QuizView, 0, len(questions))
	for _, q := range questions {
		var options []string
		if len(q.Options) > 0 {
			if err := json.Unmarshal(q.Options, &options); err != nil {
				s.log.Warn("malformed options payload", "question_id", q.ID, "error", err)
			}
		}
		views = append(views, &QuizView{
			ID:      q.ID,
			Topic:   q.Topic,
			Index:   q.Index,
			Prompt:  q.Prompt,
			Options: options,
		})
	}
	return views, nil
}

func (s *questionService) CheckAnswer(ctx context.Context, topic string, index int, answer string) (*AnswerCheck, error) {
	questions, err := s.repo.GetByTopic(ctx, nil, topic)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch questions: %v", apperrors.ErrStoreUnavailable, err)
	}
	for _, q := range questions {
		if q.Index != index {
			continue
		}
		return &AnswerCheck{
			Correct:       answer == q.CorrectAnswer,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}, nil
	}
	return nil, fmt.Errorf("%w: question %s[%d]", apperrors.ErrNotFound, topic, index)
}
