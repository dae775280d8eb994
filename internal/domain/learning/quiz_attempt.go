package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizAttempt is append-only graded history; rows are never updated.
type QuizAttempt struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID uuid.UUID `gorm:"type:uuid;not null;index:idx_quiz_attempt_user_quiz" json:"quiz_id"`
	Quiz   *Quiz     `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_quiz_attempt_user_quiz" json:"user_id"`

	StartedAt        time.Time `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt      time.Time `gorm:"column:completed_at;not null" json:"completed_at"`
	Score            float64   `gorm:"column:score;not null" json:"score"`
	TotalPoints      int       `gorm:"column:total_points;not null" json:"total_points"`
	EarnedPoints     int       `gorm:"column:earned_points;not null" json:"earned_points"`
	Passed           bool      `gorm:"column:passed;not null" json:"passed"`
	TimeSpentSeconds int       `gorm:"column:time_spent_seconds;not null;default:0" json:"time_spent_seconds"`

	Answers []*QuestionAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) BeforeCreate(*gorm.DB) error { ensureID(&a.ID); return nil }

// QuestionAnswer is one graded response; exactly one per question per attempt.
type QuestionAnswer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answer_attempt_question" json:"attempt_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answer_attempt_question" json:"question_id"`
	// SubmittedAnswer is JSON null when the learner left the question blank.
	SubmittedAnswer JSONValue `gorm:"column:submitted_answer" json:"submitted_answer"`
	IsCorrect       bool      `gorm:"column:is_correct;not null" json:"is_correct"`
	PointsEarned    int       `gorm:"column:points_earned;not null;default:0" json:"points_earned"`

	CreatedAt time.Time `json:"created_at"`
}

func (QuestionAnswer) TableName() string { return "question_answer" }

func (a *QuestionAnswer) BeforeCreate(*gorm.DB) error { ensureID(&a.ID); return nil }
