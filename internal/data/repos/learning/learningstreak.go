package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearningStreakRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.LearningStreak, error)
	Save(ctx context.Context, tx *gorm.DB, streak *types.LearningStreak) error
}

type learningStreakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningStreakRepo(db *gorm.DB, baseLog *logger.Logger) LearningStreakRepo {
	repoLog := baseLog.With("repo", "LearningStreakRepo")
	return &learningStreakRepo{db: db, log: repoLog}
}

// GetByUserID returns (nil, nil) for a user with no qualifying day yet.
func (r *learningStreakRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.LearningStreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil {
		return nil, nil
	}

	var rows []*types.LearningStreak
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Save inserts or overwrites the row keyed by user_id.
func (r *learningStreakRepo) Save(ctx context.Context, tx *gorm.DB, streak *types.LearningStreak) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if streak == nil || streak.UserID == uuid.Nil {
		return nil
	}
	streak.LastActivity = streak.LastActivity.UTC()

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_streak", "longest_streak", "last_activity", "updated_at"}),
		}).
		Create(streak).Error
}
