package services

import "github.com/pylearnhq/pylearn-backend/internal/domain"

// achievementRule couples a catalog entry to its qualification predicate.
// Adding an achievement means adding a row here; the evaluation loop and
// the catalog seeding both walk this table.
type achievementRule struct {
	Name        string
	Description string
	Criteria    string
	Qualifies   func(s *domain.PerformanceSummary) bool
}

var achievementRules = []achievementRule{
	{
		Name:        "First Steps",
		Description: "Answer at least 1 question",
		Criteria:    "total_answered >= 1",
		Qualifies: func(s *domain.PerformanceSummary) bool {
			return s.TotalAnswered >= 1
		},
	},
	{
		Name:        "Quick Learner",
		Description: "Answer at least 5 questions with an accuracy of 60%",
		Criteria:    "total_answered >= 5 AND accuracy >= 0.6",
		Qualifies: func(s *domain.PerformanceSummary) bool {
			return s.TotalAnswered >= 5 && s.Accuracy() >= 0.6
		},
	},
	{
		Name:        "Quiz Master",
		Description: "Answer at least 10 questions correctly",
		Criteria:    "total_correct >= 10",
		Qualifies: func(s *domain.PerformanceSummary) bool {
			return s.TotalCorrect >= 10
		},
	},
	{
		Name:        "Topic Explorer",
		Description: "Attempt at least 3 different topics",
		Criteria:    "count(topics_attempted) >= 3",
		Qualifies: func(s *domain.PerformanceSummary) bool {
			return len(s.TopicsAttempted) >= 3
		},
	},
	{
		Name:        "Master of Python",
		Description: "Answer at least 20 questions with an accuracy of 90% and no struggled topics",
		Criteria:    "total_answered >= 20 AND accuracy >= 0.9 AND count(topics_struggled) == 0",
		Qualifies: func(s *domain.PerformanceSummary) bool {
			return s.TotalAnswered >= 20 &&
				s.Accuracy() >= 0.9 &&
				len(s.TopicsStruggled) == 0
		},
	},
}
