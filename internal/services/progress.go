package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/coursework-backend/internal/data/repos"
	types "github.com/yungbote/coursework-backend/internal/domain"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"github.com/yungbote/coursework-backend/internal/modules/learning/grading"
	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

// ProgressSnapshot is the derived completion of one module or course.
type ProgressSnapshot struct {
	ScopeID          uuid.UUID  `json:"scope_id"`
	TotalLessons     int        `json:"total_lessons"`
	CompletedLessons int        `json:"completed_lessons"`
	Progress         int        `json:"progress"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type CourseProgress struct {
	Enrollment *types.Enrollment   `json:"enrollment"`
	Course     *ProgressSnapshot   `json:"course"`
	Modules    []*ProgressSnapshot `json:"modules"`
}

type LessonToggleResult struct {
	LessonProgress *types.LessonProgress    `json:"lesson_progress"`
	ModuleID       uuid.UUID                `json:"module_id"`
	CourseID       uuid.UUID                `json:"course_id"`
	Course         *ProgressSnapshot        `json:"course,omitempty"`
	Streak         *types.LearningStreak    `json:"streak,omitempty"`
	Achievements   []*types.UserAchievement `json:"achievements,omitempty"`
	FollowUps      []FollowUpResult         `json:"follow_ups"`
}

const (
	StepCourseProgress         = "course_progress"
	StepLearningSession        = "learning_session"
	StepStreak                 = "streak"
	StepStreakAchievements     = "streak_achievements"
	StepCompletionAchievements = "completion_achievements"
)

type ProgressService interface {
	CalculateModuleProgress(ctx context.Context, userID, moduleID uuid.UUID) (*ProgressSnapshot, error)
	RecalculateCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*ProgressSnapshot, error)
	ToggleLessonCompletion(ctx context.Context, lessonID uuid.UUID, completed bool, timeSpentSeconds int) (*LessonToggleResult, error)
	Enroll(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error)
	Unenroll(ctx context.Context, courseID uuid.UUID) (domainagg.UnenrollResult, error)
	GetCourseProgress(ctx context.Context, courseID uuid.UUID) (*CourseProgress, error)
}

type progressService struct {
	db             *gorm.DB
	log            *logger.Logger
	lookup         courseLookup
	enrollments    repos.EnrollmentRepo
	lessonProgress repos.LessonProgressRepo
	enrollmentAgg  domainagg.EnrollmentAggregate
	streaks        StreakService
	achievements   AchievementService
	metrics        *observability.Metrics
	now            func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	moduleRepo repos.CourseModuleRepo,
	lessonRepo repos.LessonRepo,
	enrollmentRepo repos.EnrollmentRepo,
	lessonProgressRepo repos.LessonProgressRepo,
	enrollmentAgg domainagg.EnrollmentAggregate,
	streaks StreakService,
	achievements AchievementService,
	metrics *observability.Metrics,
) ProgressService {
	return &progressService{
		db:             db,
		log:            baseLog.With("service", "ProgressService"),
		lookup:         courseLookup{courses: courseRepo, modules: moduleRepo, lessons: lessonRepo},
		enrollments:    enrollmentRepo,
		lessonProgress: lessonProgressRepo,
		enrollmentAgg:  enrollmentAgg,
		streaks:        streaks,
		achievements:   achievements,
		metrics:        metrics,
		now:            time.Now,
	}
}

// completion reads the user's progress rows for lessonIDs and reduces them to
// totals. It is the one algorithm behind every scope.
func (s *progressService) completion(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	done := make(map[uuid.UUID]bool, len(lessonIDs))
	if len(lessonIDs) == 0 {
		return done, nil
	}
	rows, err := s.lessonProgress.GetByUserAndLessonIDs(ctx, nil, userID, lessonIDs)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r != nil && r.Completed {
			done[r.LessonID] = true
		}
	}
	return done, nil
}

func snapshot(scopeID uuid.UUID, lessonIDs []uuid.UUID, done map[uuid.UUID]bool) *ProgressSnapshot {
	completed := 0
	for _, id := range lessonIDs {
		if done[id] {
			completed++
		}
	}
	return &ProgressSnapshot{
		ScopeID:          scopeID,
		TotalLessons:     len(lessonIDs),
		CompletedLessons: completed,
		Progress:         grading.Percent(completed, len(lessonIDs)),
	}
}

func (s *progressService) CalculateModuleProgress(ctx context.Context, userID, moduleID uuid.UUID) (*ProgressSnapshot, error) {
	const op = "Learning.Progress.Module"
	if _, err := s.lookup.module(ctx, op, moduleID); err != nil {
		return nil, err
	}
	lessonIDs, err := s.lookup.lessons.GetIDsByModuleIDs(ctx, nil, []uuid.UUID{moduleID})
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	done, err := s.completion(ctx, userID, lessonIDs)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	return snapshot(moduleID, lessonIDs, done), nil
}

// RecalculateCourseProgress re-derives the course percentage and writes it to
// the enrollment. completedAt is stamped only when the course is at 100 and is
// cleared otherwise, so a re-completion gets a fresh timestamp.
func (s *progressService) RecalculateCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*ProgressSnapshot, error) {
	const op = "Learning.Progress.Course"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("course_id", courseID.String()))
	var err error
	defer func() { observability.EndSpan(span, err) }()

	lessonIDs, err := s.lookup.lessonIDsForCourse(ctx, courseID)
	if err != nil {
		err = domainagg.PersistenceError(op, err)
		return nil, err
	}
	done, err := s.completion(ctx, userID, lessonIDs)
	if err != nil {
		err = domainagg.PersistenceError(op, err)
		return nil, err
	}
	snap := snapshot(courseID, lessonIDs, done)

	var completedAt *time.Time
	if snap.Progress == 100 {
		t := s.now().UTC()
		completedAt = &t
	}
	if _, err = s.enrollments.UpsertProgress(ctx, nil, userID, courseID, snap.Progress, completedAt); err != nil {
		err = domainagg.PersistenceError(op, err)
		return nil, err
	}
	snap.CompletedAt = completedAt
	return snap, nil
}

func (s *progressService) ToggleLessonCompletion(ctx context.Context, lessonID uuid.UUID, completed bool, timeSpentSeconds int) (*LessonToggleResult, error) {
	const op = "Learning.Progress.ToggleLesson"
	rd, err := currentUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if timeSpentSeconds < 0 {
		return nil, domainagg.ValidationError(op, "time_spent_seconds must not be negative")
	}
	moduleID, courseID, err := s.lookup.parentsOfLesson(ctx, op, lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := requireEnrollment(ctx, s.enrollments, op, rd.UserID, courseID); err != nil {
		return nil, err
	}

	existing, err := s.lessonProgress.GetByUserAndLessonIDs(ctx, nil, rd.UserID, []uuid.UUID{lessonID})
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	if timeSpentSeconds == 0 && len(existing) > 0 && existing[0] != nil {
		timeSpentSeconds = existing[0].TimeSpentSeconds
	}
	var completedAt *time.Time
	if completed {
		t := s.now().UTC()
		completedAt = &t
	}
	row, err := s.lessonProgress.Upsert(ctx, nil, rd.UserID, lessonID, completed, completedAt, timeSpentSeconds)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}

	out := &LessonToggleResult{LessonProgress: row, ModuleID: moduleID, CourseID: courseID}
	userID := rd.UserID
	steps := NewFollowUps(s.log, s.metrics).
		Add(StepCourseProgress, func(ctx context.Context) error {
			snap, err := s.RecalculateCourseProgress(ctx, userID, courseID)
			out.Course = snap
			return err
		})
	if completed {
		lid := lessonID
		steps.
			Add(StepLearningSession, func(ctx context.Context) error {
				_, err := s.streaks.RecordSession(ctx, userID, RecordSessionInput{
					LessonID:  &lid,
					StartedAt: s.now(),
					Completed: true,
				})
				return err
			}).
			Add(StepStreak, func(ctx context.Context) error {
				st, _, err := s.streaks.RecordActivity(ctx, userID)
				out.Streak = st
				return err
			}, StepLearningSession).
			Add(StepStreakAchievements, func(ctx context.Context) error {
				if out.Streak == nil {
					return nil
				}
				granted, err := s.achievements.CheckStreakAchievements(ctx, userID, out.Streak.CurrentStreak)
				out.Achievements = append(out.Achievements, granted...)
				return err
			}, StepStreak).
			Add(StepCompletionAchievements, func(ctx context.Context) error {
				granted, err := s.achievements.CheckCompletionAchievements(ctx, userID)
				out.Achievements = append(out.Achievements, granted...)
				return err
			})
	}
	out.FollowUps = steps.Run(ctx)
	return out, nil
}

func (s *progressService) Enroll(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error) {
	const op = "Learning.Enrollment.Enroll"
	rd, err := currentUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if _, err := s.lookup.course(ctx, op, courseID); err != nil {
		return nil, err
	}
	row, err := s.enrollments.Create(ctx, nil, rd.UserID, courseID)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	return row, nil
}

func (s *progressService) Unenroll(ctx context.Context, courseID uuid.UUID) (domainagg.UnenrollResult, error) {
	const op = "Learning.Enrollment.Unenroll"
	rd, err := currentUser(ctx, op)
	if err != nil {
		return domainagg.UnenrollResult{CourseID: courseID}, err
	}
	res, err := s.enrollmentAgg.Unenroll(ctx, domainagg.UnenrollInput{UserID: rd.UserID, CourseID: courseID})
	if err != nil {
		return res, err
	}
	s.log.Info("unenrolled", "user_id", rd.UserID, "course_id", courseID, "removed_lesson_rows", res.RemovedLessonRows)
	return res, nil
}

// GetCourseProgress reads the caller's enrollment and per-module completion
// without writing anything.
func (s *progressService) GetCourseProgress(ctx context.Context, courseID uuid.UUID) (*CourseProgress, error) {
	const op = "Learning.Progress.GetCourse"
	rd, err := currentUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if _, err := s.lookup.course(ctx, op, courseID); err != nil {
		return nil, err
	}
	enrollment, err := requireEnrollment(ctx, s.enrollments, op, rd.UserID, courseID)
	if err != nil {
		return nil, err
	}

	mods, err := s.lookup.modules.GetByCourseIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	moduleIDs := make([]uuid.UUID, 0, len(mods))
	for _, m := range mods {
		moduleIDs = append(moduleIDs, m.ID)
	}
	var lessons []*types.Lesson
	if len(moduleIDs) > 0 {
		lessons, err = s.lookup.lessons.GetByModuleIDs(ctx, nil, moduleIDs)
		if err != nil {
			return nil, domainagg.PersistenceError(op, err)
		}
	}
	byModule := make(map[uuid.UUID][]uuid.UUID, len(mods))
	all := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], l.ID)
		all = append(all, l.ID)
	}
	done, err := s.completion(ctx, rd.UserID, all)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}

	out := &CourseProgress{
		Enrollment: enrollment,
		Course:     snapshot(courseID, all, done),
		Modules:    make([]*ProgressSnapshot, 0, len(mods)),
	}
	out.Course.CompletedAt = enrollment.CompletedAt
	for _, m := range mods {
		out.Modules = append(out.Modules, snapshot(m.ID, byModule[m.ID], done))
	}
	return out, nil
}
