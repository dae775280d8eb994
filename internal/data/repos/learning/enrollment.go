package learning

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type EnrollmentRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Enrollment, error)
	Create(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error)
	UpsertProgress(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, progress int, completedAt *time.Time) (*types.Enrollment, error)
	DeleteByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (int64, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{db: db, log: repoLog}
}

// Get returns (nil, nil) when the user is not enrolled.
func (r *enrollmentRepo) Get(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || courseID == uuid.Nil {
		return nil, nil
	}

	var rows []*types.Enrollment
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *enrollmentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Enrollment
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Create enrolls the user, returning the existing row when already enrolled.
func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	row := &types.Enrollment{}
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Attrs(types.Enrollment{EnrolledAt: time.Now().UTC()}).
		FirstOrCreate(row, types.Enrollment{UserID: userID, CourseID: courseID}).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

// UpsertProgress writes the derived progress fields. A map is used so a zero
// progress and a nil completedAt are persisted rather than skipped.
func (r *enrollmentRepo) UpsertProgress(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, progress int, completedAt *time.Time) (*types.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	row := &types.Enrollment{}
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Attrs(map[string]interface{}{"enrolled_at": time.Now().UTC()}).
		Assign(map[string]interface{}{
			"progress":     progress,
			"completed_at": completedAt,
		}).
		FirstOrCreate(row, types.Enrollment{UserID: userID, CourseID: courseID}).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *enrollmentRepo) DeleteByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&types.Enrollment{})
	return res.RowsAffected, res.Error
}
