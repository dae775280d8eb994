package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseModule struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Index    int       `gorm:"column:position;not null" json:"index"`
	Title    string    `gorm:"column:title;not null" json:"title"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CourseModule) TableName() string { return "course_module" }

func (m *CourseModule) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
