package learning

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserAchievementRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (bool, error)
	Grant(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, earnedAt time.Time) (*types.UserAchievement, bool, error)
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	repoLog := baseLog.With("repo", "UserAchievementRepo")
	return &userAchievementRepo{db: db, log: repoLog}
}

func (r *userAchievementRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserAchievement
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userAchievementRepo) Exists(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Grant inserts the (user, achievement) pair. The bool reports whether this call
// created the row; a concurrent or earlier grant yields false without error.
func (r *userAchievementRepo) Grant(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, earnedAt time.Time) (*types.UserAchievement, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	row := &types.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      earnedAt.UTC(),
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return row, res.RowsAffected > 0, nil
}
