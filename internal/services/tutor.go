package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pylearnhq/pylearn-backend/internal/clients/ollama"
	"github.com/pylearnhq/pylearn-backend/internal/domain"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
)

// TutorService wraps the LLM behind the tutoring prompts the UI exposes.
type TutorService interface {
	AskQuestion(ctx context.Context, question string) (string, error)
	ExplainTopic(ctx context.Context, topic string) (string, error)
	// ExplainAnswer explains one graded quiz question and its answer. Used
	// both by the chat UI and by attempt explanation backfill.
	ExplainAnswer(ctx context.Context, question, answer string) (string, error)
	// Encourage turns a performance summary into a supportive message.
	Encourage(ctx context.Context, summary *domain.PerformanceSummary) (string, error)
}

type tutorService struct {
	log *logger.Logger
	llm ollama.Client
}

func NewTutorService(baseLog *logger.Logger, llm ollama.Client) TutorService {
	return &tutorService{
		log: baseLog.With("service", "TutorService"),
		llm: llm,
	}
}

func (s *tutorService) AskQuestion(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question is required")
	}
	prompt := fmt.Sprintf(
		"You are a helpful Python programming tutor. Answer the following student question clearly and concisely:\n\n%s",
		question)
	return s.generate(ctx, "ask_question", prompt)
}

func (s *tutorService) ExplainTopic(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("topic is required")
	}
	prompt := fmt.Sprintf(
		"You are a helpful Python programming tutor. Explain the Python topic %q to a beginner, with a short code example.",
		topic)
	return s.generate(ctx, "explain_topic", prompt)
}

func (s *tutorService) ExplainAnswer(ctx context.Context, question, answer string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is required")
	}
	prompt := fmt.Sprintf("Explain the following question: %s and its answer: %s", question, answer)
	return s.generate(ctx, "explain_answer", prompt)
}

func (s *tutorService) Encourage(ctx context.Context, summary *domain.PerformanceSummary) (string, error) {
	if summary == nil {
		return "", fmt.Errorf("summary is required")
	}
	prompt := fmt.Sprintf(`You are a supportive Python programming tutor.

Based on the student's performance data:
- Total Questions Answered: %d
- Total Correct Answers: %d
- Topics Attempted: %s
- Topics Struggled With: %s

Provide an encouraging message to the student that acknowledges their efforts, highlights their strengths, and offers advice on how to improve on the topics they are struggling with.`,
		summary.TotalAnswered,
		summary.TotalCorrect,
		strings.Join(summary.TopicsAttempted, ", "),
		strings.Join(summary.TopicsStruggled, ", "))
	return s.generate(ctx, "encourage", prompt)
}

func (s *tutorService) generate(ctx context.Context, purpose, prompt string) (string, error) {
	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		s.log.Warn("tutor generation failed", "purpose", purpose, "error", err)
		return "", fmt.Errorf("tutor %s: %w", purpose, err)
	}
	return text, nil
}
