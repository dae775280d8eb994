package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type QuizQuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestion) ([]*types.QuizQuestion, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.QuizQuestion, error)
	GetByQuizID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) ([]*types.QuizQuestion, error)
	CountByQuizID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) (int64, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	repoLog := baseLog.With("repo", "QuizQuestionRepo")
	return &quizQuestionRepo{db: db, log: repoLog}
}

func (r *quizQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestion) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(questions) == 0 {
		return []*types.QuizQuestion{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *quizQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizQuestion
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

// GetByQuizID returns the quiz's questions in presentation order.
func (r *quizQuestionRepo) GetByQuizID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizQuestion
	if quizID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("order_index ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizQuestionRepo) CountByQuizID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if quizID == uuid.Nil {
		return 0, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.QuizQuestion{}).
		Where("quiz_id = ?", quizID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *quizQuestionRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.QuizQuestion{}).Error
}
