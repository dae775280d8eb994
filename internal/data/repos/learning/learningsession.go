package learning

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type LearningSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.LearningSession) ([]*types.LearningSession, error)
	CountCompletedOnDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day time.Time) (int64, error)
}

type learningSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningSessionRepo(db *gorm.DB, baseLog *logger.Logger) LearningSessionRepo {
	repoLog := baseLog.With("repo", "LearningSessionRepo")
	return &learningSessionRepo{db: db, log: repoLog}
}

func (r *learningSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.LearningSession) ([]*types.LearningSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessions) == 0 {
		return []*types.LearningSession{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountCompletedOnDay counts completed sessions whose activity date is day.
// day must be the same normalized instant the sessions were written with.
func (r *learningSessionRepo) CountCompletedOnDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.LearningSession{}).
		Where("user_id = ? AND completed = ? AND activity_date = ?", userID, true, day.UTC()).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
