package aggregates

import (
	"context"

	"github.com/google/uuid"
)

var EnrollmentAggregateContract = Contract{
	Name:             "Learning.EnrollmentAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Removes an enrollment together with the learner's lesson progress for that course.",
}

// EnrollmentAggregate owns enrollment teardown.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodePersistence, CodeInternal.
type EnrollmentAggregate interface {
	Aggregate

	Unenroll(ctx context.Context, in UnenrollInput) (UnenrollResult, error)
}

type UnenrollInput struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
}

type UnenrollResult struct {
	CourseID          uuid.UUID
	RemovedLessonRows int
}
