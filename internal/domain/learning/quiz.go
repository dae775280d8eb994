package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz is owned by a lesson. Settings are flattened into columns.
type Quiz struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson   *Lesson   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Title    string    `gorm:"column:title;not null" json:"title"`

	TimeLimitMinutes *int `gorm:"column:time_limit_minutes" json:"time_limit_minutes,omitempty"`
	AttemptsAllowed  int  `gorm:"column:attempts_allowed;not null;default:1" json:"attempts_allowed"`
	ShuffleQuestions bool `gorm:"column:shuffle_questions;not null;default:false" json:"shuffle_questions"`
	ShowResults      bool `gorm:"column:show_results;not null" json:"show_results"`
	// PassingScore is a 0-100 percentage; nil means every attempt passes.
	PassingScore *int `gorm:"column:passing_score" json:"passing_score,omitempty"`
	IsPublished  bool `gorm:"column:is_published;not null;default:false;index" json:"is_published"`

	Questions []*QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quiz) TableName() string { return "quiz" }

func (q *Quiz) BeforeCreate(*gorm.DB) error { ensureID(&q.ID); return nil }

// MaxAttempts normalizes the attempt allowance; anything below one counts as one.
func (q *Quiz) MaxAttempts() int {
	if q == nil || q.AttemptsAllowed < 1 {
		return 1
	}
	return q.AttemptsAllowed
}
