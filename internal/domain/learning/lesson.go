package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID       uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID uuid.UUID     `gorm:"type:uuid;not null;index" json:"module_id"`
	Module   *CourseModule `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Index    int           `gorm:"column:position;not null" json:"index"`
	Title    string        `gorm:"column:title;not null" json:"title"`
	Kind     string        `gorm:"column:kind;not null;default:'reading'" json:"kind"`

	EstimatedMinutes int `gorm:"column:estimated_minutes" json:"estimated_minutes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error { ensureID(&l.ID); return nil }
