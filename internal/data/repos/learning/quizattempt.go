package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type QuizAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.QuizAttempt, error)
	GetByIDWithAnswers(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QuizAttempt, error)
	GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) ([]*types.QuizAttempt, error)
	CountByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (int64, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	repoLog := baseLog.With("repo", "QuizAttemptRepo")
	return &quizAttemptRepo{db: db, log: repoLog}
}

// Create inserts attempt headers only; answers are written through QuestionAnswerRepo.
func (r *quizAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(attempts) == 0 {
		return []*types.QuizAttempt{}, nil
	}

	if err := transaction.WithContext(ctx).Omit("Answers", "Quiz").Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *quizAttemptRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizAttempt
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

func (r *quizAttemptRepo) GetByIDWithAnswers(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var rows []*types.QuizAttempt
	if err := transaction.WithContext(ctx).
		Preload("Answers").
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// GetByUserAndQuiz returns attempts newest first.
func (r *quizAttemptRepo) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizAttempt
	if userID == uuid.Nil || quizID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("completed_at DESC, created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizAttemptRepo) CountByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *quizAttemptRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
