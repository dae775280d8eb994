package aggregates_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coursework-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/coursework-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/coursework-backend/internal/data/repos"
	repotest "github.com/yungbote/coursework-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
)

func TestEnrollmentAggregateUnenrollRemovesProgress(t *testing.T) {
	db := repotest.DB(t)
	log := repotest.Logger(t)
	ctx := context.Background()

	c := repotest.SeedCourse(t, ctx, db)
	m := repotest.SeedCourseModule(t, ctx, db, c.ID, 0)
	l1 := repotest.SeedLesson(t, ctx, db, m.ID, 0)
	l2 := repotest.SeedLesson(t, ctx, db, m.ID, 1)

	other := repotest.SeedCourse(t, ctx, db)
	om := repotest.SeedCourseModule(t, ctx, db, other.ID, 0)
	ol := repotest.SeedLesson(t, ctx, db, om.ID, 0)

	userID := uuid.New()
	repotest.SeedEnrollment(t, ctx, db, userID, c.ID)
	repotest.SeedEnrollment(t, ctx, db, userID, other.ID)

	progress := repos.NewLessonProgressRepo(db, log)
	now := time.Now().UTC()
	for _, id := range []uuid.UUID{l1.ID, l2.ID, ol.ID} {
		if _, err := progress.Upsert(ctx, nil, userID, id, true, &now, 0); err != nil {
			t.Fatalf("seed progress: %v", err)
		}
	}

	enrollments := repos.NewEnrollmentRepo(db, log)
	agg := aggregates.NewEnrollmentAggregate(aggregates.EnrollmentAggregateDeps{
		Base:           aggregates.BaseDeps{DB: db, Log: log},
		Enrollments:    enrollments,
		Modules:        repos.NewCourseModuleRepo(db, log),
		Lessons:        repos.NewLessonRepo(db, log),
		LessonProgress: progress,
	})

	res, err := agg.Unenroll(ctx, domainagg.UnenrollInput{UserID: userID, CourseID: c.ID})
	if err != nil {
		t.Fatalf("Unenroll: %v", err)
	}
	if res.RemovedLessonRows != 2 {
		t.Fatalf("RemovedLessonRows: want=2 got=%d", res.RemovedLessonRows)
	}
	if e, _ := enrollments.Get(ctx, nil, userID, c.ID); e != nil {
		t.Fatalf("enrollment should be gone")
	}
	if n, _ := progress.CountCompletedByUser(ctx, nil, userID); n != 1 {
		t.Fatalf("other course progress must survive: want=1 got=%d", n)
	}

	_, err = agg.Unenroll(ctx, domainagg.UnenrollInput{UserID: userID, CourseID: c.ID})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second Unenroll: want not_found got=%v", err)
	}
}

func TestEnrollmentAggregateRollsBackOnFailure(t *testing.T) {
	db := repotest.DB(t)
	log := repotest.Logger(t)
	ctx := context.Background()

	c := repotest.SeedCourse(t, ctx, db)
	userID := uuid.New()
	repotest.SeedEnrollment(t, ctx, db, userID, c.ID)

	enrollments := repos.NewEnrollmentRepo(db, log)
	runner := &aggtest.InjectedTxRunner{DB: db, FailCommit: aggtest.ErrInjected}
	agg := aggregates.NewEnrollmentAggregate(aggregates.EnrollmentAggregateDeps{
		Base:           aggregates.BaseDeps{DB: db, Runner: runner},
		Enrollments:    enrollments,
		Modules:        repos.NewCourseModuleRepo(db, log),
		Lessons:        repos.NewLessonRepo(db, log),
		LessonProgress: repos.NewLessonProgressRepo(db, log),
	})

	if _, err := agg.Unenroll(ctx, domainagg.UnenrollInput{UserID: userID, CourseID: c.ID}); err == nil {
		t.Fatalf("expected injected failure")
	}
	if e, _ := enrollments.Get(ctx, nil, userID, c.ID); e == nil {
		t.Fatalf("enrollment must survive a rolled back unenroll")
	}
}
