package learning

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AchievementCategoryStreak     = "streak"
	AchievementCategoryCompletion = "completion"
)

// Achievement is seeded catalog data and read-only at runtime.
type Achievement struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Key         string         `gorm:"column:code;not null;uniqueIndex" json:"key"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description" json:"description"`
	Icon        string         `gorm:"column:icon" json:"icon,omitempty"`
	Category    string         `gorm:"column:category;not null;index" json:"category"`
	Criteria    datatypes.JSON `gorm:"column:criteria;type:jsonb" json:"criteria"`
	Points      int            `gorm:"column:points;not null;default:0" json:"points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Achievement) TableName() string { return "achievement" }

func (a *Achievement) BeforeCreate(*gorm.DB) error { ensureID(&a.ID); return nil }

// AchievementCriteria is the structured milestone descriptor stored in Criteria.
type AchievementCriteria struct {
	Days    int `json:"days,omitempty" yaml:"days,omitempty"`
	Lessons int `json:"lessons,omitempty" yaml:"lessons,omitempty"`
}

func (a *Achievement) DecodeCriteria() (AchievementCriteria, error) {
	var c AchievementCriteria
	if a == nil || len(a.Criteria) == 0 {
		return c, nil
	}
	err := json.Unmarshal(a.Criteria, &c)
	return c, err
}

// UserAchievement is a grant; at most one per (user, achievement).
type UserAchievement struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	Achievement   *Achievement `gorm:"constraint:OnDelete:CASCADE;foreignKey:AchievementID;references:ID" json:"achievement,omitempty"`
	EarnedAt      time.Time    `gorm:"column:earned_at;not null" json:"earned_at"`
}

func (UserAchievement) TableName() string { return "user_achievement" }

func (u *UserAchievement) BeforeCreate(*gorm.DB) error { ensureID(&u.ID); return nil }
