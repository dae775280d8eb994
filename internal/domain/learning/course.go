package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Status      string    `gorm:"column:status;not null;default:'draft';index" json:"status"`

	Modules []*CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }
