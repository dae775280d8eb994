package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursework-backend/internal/app"
	repotest "github.com/yungbote/coursework-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/services"
)

type recalcRecorder struct {
	services.ProgressService
	courses []uuid.UUID
}

func (r *recalcRecorder) RecalculateCourseProgress(_ context.Context, _ uuid.UUID, courseID uuid.UUID) (*services.ProgressSnapshot, error) {
	r.courses = append(r.courses, courseID)
	return &services.ProgressSnapshot{ScopeID: courseID, Progress: 50}, nil
}

type closeRecorder struct{ closed bool }

func (c *closeRecorder) Notify(context.Context, ...string) error { return nil }
func (c *closeRecorder) Close() error                            { c.closed = true; return nil }

func TestBackfillSkipsCompletedByDefault(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	open := repotest.SeedEnrollment(t, ctx, db, uuid.New(), uuid.New())
	done := repotest.SeedEnrollment(t, ctx, db, uuid.New(), uuid.New())
	completedAt := time.Now().UTC()
	if err := db.Model(done).Update("completed_at", completedAt).Error; err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	rec := &recalcRecorder{}
	n, err := backfill(ctx, db, rec, options{})
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if n != 1 || len(rec.courses) != 1 || rec.courses[0] != open.CourseID {
		t.Fatalf("default run: want only %s got n=%d courses=%v", open.CourseID, n, rec.courses)
	}

	rec = &recalcRecorder{}
	if n, err := backfill(ctx, db, rec, options{includeCompleted: true}); err != nil || n != 2 {
		t.Fatalf("include completed: want=2 got=%d err=%v", n, err)
	}

	rec = &recalcRecorder{}
	if n, err := backfill(ctx, db, rec, options{includeCompleted: true, dryRun: true}); err != nil || n != 0 || len(rec.courses) != 0 {
		t.Fatalf("dry run: want no writes got n=%d calls=%d err=%v", n, len(rec.courses), err)
	}

	rec = &recalcRecorder{}
	if _, err := backfill(ctx, db, rec, options{includeCompleted: true, courses: idList{done.CourseID.String(), "junk"}}); err != nil {
		t.Fatalf("course filter: %v", err)
	}
	if len(rec.courses) != 1 || rec.courses[0] != done.CourseID {
		t.Fatalf("course filter: want=[%s] got=%v", done.CourseID, rec.courses)
	}
}

func TestRunClosesAppOnFailure(t *testing.T) {
	db := repotest.DB(t)
	if err := db.Migrator().DropTable(&types.Enrollment{}); err != nil {
		t.Fatalf("drop enrollment: %v", err)
	}
	notifier := &closeRecorder{}
	open := func() (*app.App, error) {
		return &app.App{DB: db, Services: app.Services{Progress: &recalcRecorder{}}, Notifier: notifier}, nil
	}
	if code := run(context.Background(), options{}, open); code != 1 {
		t.Fatalf("exit code: want=1 got=%d", code)
	}
	if !notifier.closed {
		t.Fatalf("app not closed before exit")
	}

	failing := func() (*app.App, error) { return nil, errors.New("no database") }
	if code := run(context.Background(), options{}, failing); code != 1 {
		t.Fatalf("open failure: want=1 got=%d", code)
	}
}
