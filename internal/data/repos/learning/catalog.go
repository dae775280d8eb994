package learning

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

// The catalog (course -> module -> lesson) is authored elsewhere; these repos
// read it and create rows for fixtures and imports. Soft-deleted rows are
// invisible to every read.

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Course, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type CourseModuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, modules []*types.CourseModule) ([]*types.CourseModule, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.CourseModule, error)
	// GetByCourseIDs returns modules ordered by course, then position.
	GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.CourseModule, error)
}

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Lesson, error)
	GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Lesson, error)
	GetIDsByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]uuid.UUID, error)
	// GetIDsByCourseID lists lessons under the course's live modules.
	GetIDsByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

type courseModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	return &courseModuleRepo{db: db, log: baseLog.With("repo", "CourseModuleRepo")}
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	if err := transaction.WithContext(ctx).Omit("Modules").Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	out := []*types.Course{}
	if len(ids) == 0 {
		return out, nil
	}
	err := transaction.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *courseRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Where("id IN ?", ids).Delete(&types.Course{}).Error
}

func (r *courseModuleRepo) Create(ctx context.Context, tx *gorm.DB, modules []*types.CourseModule) ([]*types.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(modules) == 0 {
		return []*types.CourseModule{}, nil
	}
	if err := transaction.WithContext(ctx).Omit("Course").Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *courseModuleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	out := []*types.CourseModule{}
	if len(moduleIDs) == 0 {
		return out, nil
	}
	err := transaction.WithContext(ctx).Where("id IN ?", moduleIDs).Find(&out).Error
	return out, err
}

func (r *courseModuleRepo) GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.CourseModule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	out := []*types.CourseModule{}
	if len(courseIDs) == 0 {
		return out, nil
	}
	err := transaction.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("course_id ASC, position ASC").
		Find(&out).Error
	return out, err
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := transaction.WithContext(ctx).Omit("Module").Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) GetByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	out := []*types.Lesson{}
	if len(lessonIDs) == 0 {
		return out, nil
	}
	err := transaction.WithContext(ctx).Where("id IN ?", lessonIDs).Find(&out).Error
	return out, err
}

func (r *lessonRepo) GetByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	out := []*types.Lesson{}
	if len(moduleIDs) == 0 {
		return out, nil
	}
	err := transaction.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("module_id ASC, position ASC").
		Find(&out).Error
	return out, err
}

func (r *lessonRepo) GetIDsByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	ids := []uuid.UUID{}
	if len(moduleIDs) == 0 {
		return ids, nil
	}
	err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("module_id IN ?", moduleIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *lessonRepo) GetIDsByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	ids := []uuid.UUID{}
	if courseID == uuid.Nil {
		return ids, nil
	}
	err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Joins("JOIN course_module ON course_module.id = lesson.module_id AND course_module.deleted_at IS NULL").
		Where("course_module.course_id = ?", courseID).
		Order("course_module.position ASC, lesson.position ASC").
		Pluck("lesson.id", &ids).Error
	return ids, err
}

func (r *lessonRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessonIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Where("id IN ?", lessonIDs).Delete(&types.Lesson{}).Error
}
