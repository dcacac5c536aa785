package domain

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is one recorded answer to one quiz question by one user.
// Rows are immutable once written except for explanation backfill.
type Attempt struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Topic         string `gorm:"not null;index" json:"topic"`
	Question      string `gorm:"not null" json:"question"`
	UserAnswer    string `gorm:"column:user_answer" json:"user_answer"`
	CorrectAnswer string `gorm:"column:correct_answer" json:"correct_answer"`
	Correct       bool   `gorm:"not null" json:"correct"`
	Explanation   string `gorm:"column:explanation" json:"explanation,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Attempt) TableName() string { return "attempt" }

// PerformanceSummary is derived fresh from attempts on each read and is
// never persisted.
type PerformanceSummary struct {
	TotalAnswered   int      `json:"total_answered"`
	TotalCorrect    int      `json:"total_correct"`
	TopicsAttempted []string `json:"topics_attempted"`
	TopicsStruggled []string `json:"topics_struggled"`
}

// Accuracy returns the overall correct rate, 0 when nothing was answered.
func (p PerformanceSummary) Accuracy() float64 {
	if p.TotalAnswered == 0 {
		return 0
	}
	return float64(p.TotalCorrect) / float64(p.TotalAnswered)
}
