package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type QuizRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quizzes []*types.Quiz) ([]*types.Quiz, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Quiz, error)
	GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Quiz, error)
	SetPublished(ctx context.Context, tx *gorm.DB, id uuid.UUID, published bool) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	repoLog := baseLog.With("repo", "QuizRepo")
	return &quizRepo{db: db, log: repoLog}
}

func (r *quizRepo) Create(ctx context.Context, tx *gorm.DB, quizzes []*types.Quiz) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(quizzes) == 0 {
		return []*types.Quiz{}, nil
	}

	if err := transaction.WithContext(ctx).Omit("Questions").Create(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Quiz
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

func (r *quizRepo) GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Quiz
	if len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizRepo) SetPublished(ctx context.Context, tx *gorm.DB, id uuid.UUID, published bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	res := transaction.WithContext(ctx).
		Model(&types.Quiz{}).
		Where("id = ?", id).
		Update("is_published", published)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quizRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Quiz{}).Error
}
