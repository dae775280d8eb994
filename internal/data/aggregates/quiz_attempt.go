package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/coursework-backend/internal/data/repos"
	types "github.com/yungbote/coursework-backend/internal/domain"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"github.com/yungbote/coursework-backend/internal/platform/dbctx"
)

type QuizAttemptAggregateDeps struct {
	Base BaseDeps

	Attempts repos.QuizAttemptRepo
	Answers  repos.QuestionAnswerRepo
}

type quizAttemptAggregate struct {
	deps QuizAttemptAggregateDeps
}

func NewQuizAttemptAggregate(deps QuizAttemptAggregateDeps) domainagg.QuizAttemptAggregate {
	deps.Base = deps.Base.withDefaults()
	return &quizAttemptAggregate{deps: deps}
}

func (a *quizAttemptAggregate) Contract() domainagg.Contract {
	return domainagg.QuizAttemptAggregateContract
}

func (a *quizAttemptAggregate) RecordAttempt(ctx context.Context, in domainagg.RecordAttemptInput) (*types.QuizAttempt, error) {
	const op = "Learning.QuizAttempt.RecordAttempt"

	attempt := in.Attempt
	if attempt == nil || attempt.QuizID == uuid.Nil || attempt.UserID == uuid.Nil {
		return nil, domainagg.ValidationError(op, "attempt requires quiz_id and user_id")
	}
	if a.deps.Attempts == nil || a.deps.Answers == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "quiz attempt aggregate repos not configured", nil)
	}
	allowed := in.AttemptsAllowed
	if allowed < 1 {
		allowed = 1
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		used, err := a.deps.Attempts.CountByUserAndQuiz(dbc.Ctx, dbc.Tx, attempt.UserID, attempt.QuizID)
		if err != nil {
			return err
		}
		if used >= int64(allowed) {
			return domainagg.StateError(op, "attempt limit exceeded")
		}

		if attempt.ID == uuid.Nil {
			attempt.ID = uuid.New()
		}
		if _, err := a.deps.Attempts.Create(dbc.Ctx, dbc.Tx, []*types.QuizAttempt{attempt}); err != nil {
			return err
		}

		for _, ans := range in.Answers {
			if ans == nil {
				continue
			}
			ans.AttemptID = attempt.ID
		}
		if _, err := a.deps.Answers.Create(dbc.Ctx, dbc.Tx, in.Answers); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	attempt.Answers = in.Answers
	return attempt, nil
}
