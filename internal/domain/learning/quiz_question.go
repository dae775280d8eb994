package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionTypeFillInBlank    QuestionType = "FILL_IN_BLANK"
	QuestionTypeShortAnswer    QuestionType = "SHORT_ANSWER"
	QuestionTypeEssay          QuestionType = "ESSAY"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeFillInBlank,
		QuestionTypeShortAnswer, QuestionTypeEssay:
		return true
	default:
		return false
	}
}

type QuizQuestion struct {
	ID     uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID uuid.UUID    `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Type   QuestionType `gorm:"column:type;not null" json:"type"`
	Prompt string       `gorm:"column:prompt;type:text;not null" json:"prompt"`
	// Options is a JSON array of strings, present only for MULTIPLE_CHOICE.
	Options datatypes.JSON `gorm:"column:options;type:jsonb" json:"options,omitempty"`
	// CorrectAnswer is a JSON string, boolean, or array of strings.
	CorrectAnswer JSONValue `gorm:"column:correct_answer" json:"correct_answer,omitempty"`
	ExplanationMD string    `gorm:"column:explanation_md" json:"explanation_md,omitempty"`
	Points        int       `gorm:"column:points;not null;default:1" json:"points"`
	Order         int       `gorm:"column:order_index;not null;index" json:"order"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

func (q *QuizQuestion) BeforeCreate(*gorm.DB) error { ensureID(&q.ID); return nil }
