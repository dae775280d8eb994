package learning

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type QuestionAnswerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, answers []*types.QuestionAnswer) ([]*types.QuestionAnswer, error)
	GetByAttemptIDs(ctx context.Context, tx *gorm.DB, attemptIDs []uuid.UUID) ([]*types.QuestionAnswer, error)
}

type questionAnswerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionAnswerRepo(db *gorm.DB, baseLog *logger.Logger) QuestionAnswerRepo {
	repoLog := baseLog.With("repo", "QuestionAnswerRepo")
	return &questionAnswerRepo{db: db, log: repoLog}
}

func (r *questionAnswerRepo) Create(ctx context.Context, tx *gorm.DB, answers []*types.QuestionAnswer) ([]*types.QuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(answers) == 0 {
		return []*types.QuestionAnswer{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *questionAnswerRepo) GetByAttemptIDs(ctx context.Context, tx *gorm.DB, attemptIDs []uuid.UUID) ([]*types.QuestionAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuestionAnswer
	if len(attemptIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("attempt_id IN ?", attemptIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
