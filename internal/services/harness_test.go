package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursework-backend/internal/data/aggregates"
	"github.com/yungbote/coursework-backend/internal/data/repos"
	repotest "github.com/yungbote/coursework-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursework-backend/internal/domain"
	"github.com/yungbote/coursework-backend/internal/platform/ctxutil"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type harness struct {
	db    *gorm.DB
	clock *fakeClock

	attemptRepo     repos.QuizAttemptRepo
	answerRepo      repos.QuestionAnswerRepo
	enrollmentRepo  repos.EnrollmentRepo
	progressRepo    repos.LessonProgressRepo
	streakRepo      repos.LearningStreakRepo
	userAchievement repos.UserAchievementRepo

	attempts     *attemptService
	progress     *progressService
	streaks      *streakService
	achievements *achievementService
	learner      LearnerService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	clock := &fakeClock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}

	courseRepo := repos.NewCourseRepo(db, log)
	moduleRepo := repos.NewCourseModuleRepo(db, log)
	lessonRepo := repos.NewLessonRepo(db, log)
	quizRepo := repos.NewQuizRepo(db, log)
	questionRepo := repos.NewQuizQuestionRepo(db, log)
	attemptRepo := repos.NewQuizAttemptRepo(db, log)
	answerRepo := repos.NewQuestionAnswerRepo(db, log)
	enrollmentRepo := repos.NewEnrollmentRepo(db, log)
	progressRepo := repos.NewLessonProgressRepo(db, log)
	sessionRepo := repos.NewLearningSessionRepo(db, log)
	streakRepo := repos.NewLearningStreakRepo(db, log)
	achievementRepo := repos.NewAchievementRepo(db, log)
	userAchievementRepo := repos.NewUserAchievementRepo(db, log)

	base := aggregates.BaseDeps{DB: db, Log: log}
	attemptAgg := aggregates.NewQuizAttemptAggregate(aggregates.QuizAttemptAggregateDeps{
		Base: base, Attempts: attemptRepo, Answers: answerRepo,
	})
	enrollmentAgg := aggregates.NewEnrollmentAggregate(aggregates.EnrollmentAggregateDeps{
		Base: base, Enrollments: enrollmentRepo, Modules: moduleRepo, Lessons: lessonRepo, LessonProgress: progressRepo,
	})

	streaks := NewStreakService(db, log, sessionRepo, streakRepo, nil, time.UTC).(*streakService)
	streaks.now = clock.Now
	achievements := NewAchievementService(db, log, achievementRepo, userAchievementRepo, progressRepo, nil).(*achievementService)
	achievements.now = clock.Now
	attempts := NewAttemptService(db, log, courseRepo, moduleRepo, lessonRepo, quizRepo, questionRepo, attemptRepo, enrollmentRepo, attemptAgg, nil).(*attemptService)
	attempts.now = clock.Now
	progress := NewProgressService(db, log, courseRepo, moduleRepo, lessonRepo, enrollmentRepo, progressRepo, enrollmentAgg, streaks, achievements, nil).(*progressService)
	progress.now = clock.Now

	return &harness{
		db:              db,
		clock:           clock,
		attemptRepo:     attemptRepo,
		answerRepo:      answerRepo,
		enrollmentRepo:  enrollmentRepo,
		progressRepo:    progressRepo,
		streakRepo:      streakRepo,
		userAchievement: userAchievementRepo,
		attempts:        attempts,
		progress:        progress,
		streaks:         streaks,
		achievements:    achievements,
		learner:         NewLearnerService(log, streaks, achievements, enrollmentRepo, progressRepo, nil),
	}
}

func asUser(userID uuid.UUID, role string) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID, Role: role})
}

// courseTree seeds a course with one module per entry in lessonsPerModule.
type courseTree struct {
	course  *types.Course
	modules []*types.CourseModule
	lessons [][]*types.Lesson
}

func (h *harness) seedCourse(t *testing.T, lessonsPerModule ...int) courseTree {
	t.Helper()
	ctx := context.Background()
	tree := courseTree{course: repotest.SeedCourse(t, ctx, h.db)}
	for i, n := range lessonsPerModule {
		m := repotest.SeedCourseModule(t, ctx, h.db, tree.course.ID, i)
		tree.modules = append(tree.modules, m)
		var ls []*types.Lesson
		for j := 0; j < n; j++ {
			ls = append(ls, repotest.SeedLesson(t, ctx, h.db, m.ID, j))
		}
		tree.lessons = append(tree.lessons, ls)
	}
	return tree
}

func (h *harness) seedCatalog(t *testing.T) {
	t.Helper()
	if _, err := h.achievements.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}
}
