package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Enrollment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`

	EnrolledAt time.Time `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	// Progress is the derived completion percentage, 0-100.
	Progress    int        `gorm:"column:progress;not null;default:0" json:"progress"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) BeforeCreate(*gorm.DB) error { ensureID(&e.ID); return nil }
