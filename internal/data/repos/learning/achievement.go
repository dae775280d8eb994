package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Achievement, error)
	GetByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Achievement, error)
	UpsertByKey(ctx context.Context, tx *gorm.DB, rows []*types.Achievement) error
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	repoLog := baseLog.With("repo", "AchievementRepo")
	return &achievementRepo{db: db, log: repoLog}
}

func (r *achievementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Achievement
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *achievementRepo) GetByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Achievement
	if category == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("category = ?", category).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpsertByKey inserts catalog rows, refreshing display fields of existing keys.
func (r *achievementRepo) UpsertByKey(ctx context.Context, tx *gorm.DB, rows []*types.Achievement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "category", "criteria", "points", "updated_at"}),
		}).
		Create(&rows).Error
}
