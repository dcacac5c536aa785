package domain

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is a catalog entry. Qualification logic lives in code; the
// Criteria column is a human-readable description of it.
type Achievement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	Criteria    string    `gorm:"not null" json:"criteria"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Achievement) TableName() string { return "achievement" }

// UserAchievement links a user to an earned achievement. The composite
// unique index is the safety net that makes grants idempotent even under
// a concurrent read-then-write race.
type UserAchievement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement,priority:1;index" json:"user_id"`
	AchievementID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement,priority:2" json:"achievement_id"`
	AchievedAt    time.Time `gorm:"not null" json:"achieved_at"`
}

func (UserAchievement) TableName() string { return "user_achievement" }
