package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizQuestion is one entry of the question bank, seeded from a JSON file
// at startup and served to the quiz UI by topic.
type QuizQuestion struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Topic string    `gorm:"not null;index:idx_quiz_question_topic_index,priority:1" json:"topic"`
	Index int       `gorm:"column:idx;not null;index:idx_quiz_question_topic_index,priority:2" json:"index"`

	Prompt        string         `gorm:"not null" json:"prompt"`
	Options       datatypes.JSON `gorm:"column:options" json:"options,omitempty"`
	CorrectAnswer string         `gorm:"column:correct_answer" json:"-"`
	Explanation   string         `gorm:"column:explanation" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

// QuizSession is the per-user place in the current quiz. It replaces the
// UI-framework session object of earlier revisions with an explicit row,
// one per user.
type QuizSession struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Topic         string `gorm:"not null" json:"topic"`
	QuestionIndex int    `gorm:"not null" json:"question_index"`
	Answered      int    `gorm:"not null" json:"answered"`
	Correct       int    `gorm:"not null" json:"correct"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuizSession) TableName() string { return "quiz_session" }
