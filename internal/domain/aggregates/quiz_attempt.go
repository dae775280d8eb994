package aggregates

import (
	"context"

	types "github.com/yungbote/coursework-backend/internal/domain"
)

var QuizAttemptAggregateContract = Contract{
	Name:             "Learning.QuizAttemptAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Persists a graded attempt and every one of its answers atomically; re-checks the attempt allowance inside the transaction.",
}

// QuizAttemptAggregate owns the write of a graded attempt.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeState, CodeConflict, CodePersistence, CodeInternal.
type QuizAttemptAggregate interface {
	Aggregate

	// RecordAttempt inserts the attempt header and all answers in one transaction.
	// Nothing is persisted when the allowance is already used up.
	RecordAttempt(ctx context.Context, in RecordAttemptInput) (*types.QuizAttempt, error)
}

type RecordAttemptInput struct {
	Attempt         *types.QuizAttempt
	Answers         []*types.QuestionAnswer
	AttemptsAllowed int
}
