package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	repotest "github.com/yungbote/coursework-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursework-backend/internal/domain"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"github.com/yungbote/coursework-backend/internal/platform/ctxutil"
)

func TestToggleLessonRecomputesCourseProgress(t *testing.T) {
	h := newHarness(t)
	tree := h.seedCourse(t, 2)
	userID := uuid.New()
	repotest.SeedEnrollment(t, context.Background(), h.db, userID, tree.course.ID)
	ctx := asUser(userID, ctxutil.RoleStudent)
	l1, l2 := tree.lessons[0][0], tree.lessons[0][1]

	steps := []struct {
		lesson    uuid.UUID
		completed bool
		want      int
		done      bool
	}{
		{l1.ID, true, 50, false},
		{l2.ID, true, 100, true},
		{l1.ID, false, 50, false},
	}
	for i, step := range steps {
		res, err := h.progress.ToggleLessonCompletion(ctx, step.lesson, step.completed, 0)
		if err != nil {
			t.Fatalf("step %d: ToggleLessonCompletion: %v", i, err)
		}
		if res.Course == nil || res.Course.Progress != step.want {
			t.Fatalf("step %d: snapshot progress want=%d got=%+v", i, step.want, res.Course)
		}
		e, err := h.enrollmentRepo.Get(context.Background(), nil, userID, tree.course.ID)
		if err != nil || e == nil {
			t.Fatalf("step %d: Get enrollment: %v", i, err)
		}
		if e.Progress != step.want {
			t.Fatalf("step %d: enrollment progress want=%d got=%d", i, step.want, e.Progress)
		}
		if (e.CompletedAt != nil) != step.done {
			t.Fatalf("step %d: completedAt set want=%v got=%v", i, step.done, e.CompletedAt)
		}
	}
}

func TestRecalculateCourseProgressEmptyCourse(t *testing.T) {
	h := newHarness(t)
	tree := h.seedCourse(t)
	userID := uuid.New()
	repotest.SeedEnrollment(t, context.Background(), h.db, userID, tree.course.ID)

	snap, err := h.progress.RecalculateCourseProgress(context.Background(), userID, tree.course.ID)
	if err != nil {
		t.Fatalf("RecalculateCourseProgress: %v", err)
	}
	if snap.Progress != 0 || snap.TotalLessons != 0 || snap.CompletedAt != nil {
		t.Fatalf("empty course: want 0 got=%+v", snap)
	}
	e, _ := h.enrollmentRepo.Get(context.Background(), nil, userID, tree.course.ID)
	if e == nil || e.Progress != 0 || e.CompletedAt != nil {
		t.Fatalf("empty course enrollment: got=%+v", e)
	}
}

func TestRecompletionRestampsCompletedAt(t *testing.T) {
	h := newHarness(t)
	tree := h.seedCourse(t, 1)
	userID := uuid.New()
	repotest.SeedEnrollment(t, context.Background(), h.db, userID, tree.course.ID)
	ctx := asUser(userID, ctxutil.RoleStudent)
	lesson := tree.lessons[0][0].ID

	first, err := h.progress.ToggleLessonCompletion(ctx, lesson, true, 0)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := h.progress.ToggleLessonCompletion(ctx, lesson, false, 0); err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	h.clock.Advance(time.Hour)
	second, err := h.progress.ToggleLessonCompletion(ctx, lesson, true, 0)
	if err != nil {
		t.Fatalf("recomplete: %v", err)
	}
	if !second.Course.CompletedAt.After(*first.Course.CompletedAt) {
		t.Fatalf("completedAt: want later than %v got=%v", first.Course.CompletedAt, second.Course.CompletedAt)
	}
}

func TestCalculateModuleProgress(t *testing.T) {
	h := newHarness(t)
	tree := h.seedCourse(t, 3, 1)
	userID := uuid.New()
	repotest.SeedEnrollment(t, context.Background(), h.db, userID, tree.course.ID)
	ctx := asUser(userID, ctxutil.RoleStudent)

	if _, err := h.progress.ToggleLessonCompletion(ctx, tree.lessons[0][0].ID, true, 30); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	snap, err := h.progress.CalculateModuleProgress(context.Background(), userID, tree.modules[0].ID)
	if err != nil {
		t.Fatalf("CalculateModuleProgress: %v", err)
	}
	if snap.TotalLessons != 3 || snap.CompletedLessons != 1 || snap.Progress != 33 {
		t.Fatalf("module 0: want 1/3=33 got=%+v", snap)
	}
	other, err := h.progress.CalculateModuleProgress(context.Background(), userID, tree.modules[1].ID)
	if err != nil || other.Progress != 0 {
		t.Fatalf("module 1: want 0 got=%+v err=%v", other, err)
	}
	if _, err := h.progress.CalculateModuleProgress(context.Background(), userID, uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing module: want not_found got=%v", err)
	}

	full, err := h.progress.GetCourseProgress(ctx, tree.course.ID)
	if err != nil {
		t.Fatalf("GetCourseProgress: %v", err)
	}
	if full.Course.Progress != 25 || len(full.Modules) != 2 || full.Modules[0].CompletedLessons != 1 {
		t.Fatalf("GetCourseProgress: got course=%+v modules=%d", full.Course, len(full.Modules))
	}
}

func TestToggleRequiresEnrollment(t *testing.T) {
	h := newHarness(t)
	tree := h.seedCourse(t, 1)
	lesson := tree.lessons[0][0].ID

	if _, err := h.progress.ToggleLessonCompletion(context.Background(), lesson, true, 0); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("no user: want unauthorized got=%v", err)
	}
	ctx := asUser(uuid.New(), ctxutil.RoleStudent)
	if _, err := h.progress.ToggleLessonCompletion(ctx, lesson, true, 0); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("not enrolled: want unauthorized got=%v", err)
	}
	if _, err := h.progress.ToggleLessonCompletion(ctx, uuid.New(), true, 0); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing lesson: want not_found got=%v", err)
	}
}

func TestToggleKeepsTimeSpentWhenOmitted(t *testing.T) {
	h := newHarness(t)
	tree := h.seedCourse(t, 1)
	userID := uuid.New()
	repotest.SeedEnrollment(t, context.Background(), h.db, userID, tree.course.ID)
	ctx := asUser(userID, ctxutil.RoleStudent)
	lesson := tree.lessons[0][0].ID

	if _, err := h.progress.ToggleLessonCompletion(ctx, lesson, true, 120); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	res, err := h.progress.ToggleLessonCompletion(ctx, lesson, false, 0)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if res.LessonProgress.TimeSpentSeconds != 120 || res.LessonProgress.Completed || res.LessonProgress.CompletedAt != nil {
		t.Fatalf("lesson progress: got=%+v", res.LessonProgress)
	}
}

type failingStreaks struct{ StreakService }

func (failingStreaks) RecordActivity(context.Context, uuid.UUID) (*types.LearningStreak, bool, error) {
	return nil, false, errors.New("streak store down")
}

func TestFollowUpFailuresDoNotFailToggle(t *testing.T) {
	h := newHarness(t)
	h.seedCatalog(t)
	h.progress.streaks = failingStreaks{h.streaks}
	tree := h.seedCourse(t, 1)
	userID := uuid.New()
	repotest.SeedEnrollment(t, context.Background(), h.db, userID, tree.course.ID)

	res, err := h.progress.ToggleLessonCompletion(asUser(userID, ctxutil.RoleStudent), tree.lessons[0][0].ID, true, 0)
	if err != nil {
		t.Fatalf("ToggleLessonCompletion: %v", err)
	}
	if !res.LessonProgress.Completed {
		t.Fatalf("primary write lost")
	}
	byStep := map[string]FollowUpResult{}
	for _, r := range res.FollowUps {
		byStep[r.Step] = r
	}
	if !byStep[StepCourseProgress].OK || !byStep[StepLearningSession].OK {
		t.Fatalf("expected progress and session steps to succeed: %+v", res.FollowUps)
	}
	if byStep[StepStreak].OK || !byStep[StepStreak].Failed || byStep[StepStreak].Err() == nil {
		t.Fatalf("streak step: want failure got=%+v", byStep[StepStreak])
	}
	if !byStep[StepStreakAchievements].Skipped {
		t.Fatalf("streak achievements: want skipped got=%+v", byStep[StepStreakAchievements])
	}
	if !byStep[StepCompletionAchievements].OK || len(res.Achievements) != 1 {
		t.Fatalf("completion achievements: want one grant got=%+v achievements=%d", byStep[StepCompletionAchievements], len(res.Achievements))
	}
	if res.Course == nil || res.Course.Progress != 100 {
		t.Fatalf("course snapshot: got=%+v", res.Course)
	}
}

func TestEnrollAndUnenroll(t *testing.T) {
	h := newHarness(t)
	tree := h.seedCourse(t, 2)
	userID := uuid.New()
	ctx := asUser(userID, ctxutil.RoleStudent)

	first, err := h.progress.Enroll(ctx, tree.course.ID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	again, err := h.progress.Enroll(ctx, tree.course.ID)
	if err != nil || again.ID != first.ID {
		t.Fatalf("Enroll twice: want same row got=%v err=%v", again, err)
	}
	if _, err := h.progress.Enroll(ctx, uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("Enroll missing course: want not_found got=%v", err)
	}

	for _, l := range tree.lessons[0] {
		if _, err := h.progress.ToggleLessonCompletion(ctx, l.ID, true, 0); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	res, err := h.progress.Unenroll(ctx, tree.course.ID)
	if err != nil {
		t.Fatalf("Unenroll: %v", err)
	}
	if res.RemovedLessonRows != 2 {
		t.Fatalf("removed rows: want=2 got=%d", res.RemovedLessonRows)
	}
	rows, err := h.progressRepo.GetByUserAndLessonIDs(context.Background(), nil, userID, []uuid.UUID{tree.lessons[0][0].ID, tree.lessons[0][1].ID})
	if err != nil || len(rows) != 0 {
		t.Fatalf("lesson progress after unenroll: want none got=%d err=%v", len(rows), err)
	}
	if _, err := h.progress.Unenroll(ctx, tree.course.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second Unenroll: want not_found got=%v", err)
	}
	if _, err := h.progress.GetCourseProgress(ctx, tree.course.ID); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("GetCourseProgress after unenroll: want unauthorized got=%v", err)
	}
}
