package learning

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type LessonProgressRepo interface {
	GetByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error)
	Upsert(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, completed bool, completedAt *time.Time, timeSpentSeconds int) (*types.LessonProgress, error)
	CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	DeleteByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) error
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	repoLog := baseLog.With("repo", "LessonProgressRepo")
	return &lessonProgressRepo{db: db, log: repoLog}
}

func (r *lessonProgressRepo) GetByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LessonProgress
	if userID == uuid.Nil || len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upsert creates or overwrites the (user, lesson) row. Unchecking passes a nil
// completedAt, which must be written through, so assignments use a map.
func (r *lessonProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, completed bool, completedAt *time.Time, timeSpentSeconds int) (*types.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	row := &types.LessonProgress{}
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Assign(map[string]interface{}{
			"completed":          completed,
			"completed_at":       completedAt,
			"time_spent_seconds": timeSpentSeconds,
		}).
		FirstOrCreate(row, types.LessonProgress{UserID: userID, LessonID: lessonID}).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *lessonProgressRepo) CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *lessonProgressRepo) DeleteByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || len(lessonIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Delete(&types.LessonProgress{}).Error
}
