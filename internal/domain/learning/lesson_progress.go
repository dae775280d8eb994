package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonProgress is the per-user lesson record every aggregate is derived from.
type LessonProgress struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson" json:"user_id"`
	LessonID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson" json:"lesson_id"`
	Lesson   *Lesson   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`

	Completed        bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	TimeSpentSeconds int        `gorm:"column:time_spent_seconds;not null;default:0" json:"time_spent_seconds"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }
