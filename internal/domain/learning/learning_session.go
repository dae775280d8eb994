package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LearningSession records one sitting. Completed sessions on a calendar day
// are what qualifies that day for the streak.
type LearningSession struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_session_user_day" json:"user_id"`
	LessonID *uuid.UUID `gorm:"type:uuid;index" json:"lesson_id,omitempty"`

	StartedAt time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	EndedAt   *time.Time `gorm:"column:ended_at" json:"ended_at,omitempty"`
	Completed bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	// ActivityDate is midnight of the reference timezone day the session counts for.
	ActivityDate time.Time `gorm:"column:activity_date;not null;index:idx_session_user_day" json:"activity_date"`

	CreatedAt time.Time `json:"created_at"`
}

func (LearningSession) TableName() string { return "learning_session" }

func (s *LearningSession) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }

// LearningStreak is created lazily on the first qualifying day.
type LearningStreak struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CurrentStreak int       `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak int       `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	LastActivity  time.Time `gorm:"column:last_activity;not null" json:"last_activity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LearningStreak) TableName() string { return "learning_streak" }
