package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/coursework-backend/internal/data/aggregates"
	"github.com/yungbote/coursework-backend/internal/modules/learning/streak"
	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
	"github.com/yungbote/coursework-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Attempts     services.AttemptService
	Progress     services.ProgressService
	Streaks      services.StreakService
	Achievements services.AchievementService
	Learner      services.LearnerService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	loc, err := streak.LoadLocation(cfg.StreakTimezone)
	if err != nil {
		return Services{}, fmt.Errorf("load STREAK_TIMEZONE: %w", err)
	}

	base := aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: aggregates.NewObservabilityHooks(metrics, log),
	}
	attemptAgg := aggregates.NewQuizAttemptAggregate(aggregates.QuizAttemptAggregateDeps{
		Base:     base,
		Attempts: r.QuizAttempt,
		Answers:  r.QuestionAnswer,
	})
	enrollmentAgg := aggregates.NewEnrollmentAggregate(aggregates.EnrollmentAggregateDeps{
		Base:           base,
		Enrollments:    r.Enrollment,
		Modules:        r.CourseModule,
		Lessons:        r.Lesson,
		LessonProgress: r.LessonProgress,
	})

	authService := services.NewAuthService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	streakService := services.NewStreakService(db, log, r.LearningSession, r.LearningStreak, metrics, loc)
	achievementService := services.NewAchievementService(db, log, r.Achievement, r.UserAchievement, r.LessonProgress, metrics)
	attemptService := services.NewAttemptService(
		db, log,
		r.Course, r.CourseModule, r.Lesson,
		r.Quiz, r.QuizQuestion, r.QuizAttempt,
		r.Enrollment,
		attemptAgg,
		metrics,
	)
	progressService := services.NewProgressService(
		db, log,
		r.Course, r.CourseModule, r.Lesson,
		r.Enrollment, r.LessonProgress,
		enrollmentAgg,
		streakService,
		achievementService,
		metrics,
	)
	learnerService := services.NewLearnerService(log, streakService, achievementService, r.Enrollment, r.LessonProgress, metrics)

	if cfg.SeedAchievements {
		n, err := achievementService.SeedCatalog(context.Background())
		if err != nil {
			return Services{}, fmt.Errorf("seed achievements: %w", err)
		}
		log.Info("Achievement catalog seeded", "count", n)
	}

	return Services{
		Auth:         authService,
		Attempts:     attemptService,
		Progress:     progressService,
		Streaks:      streakService,
		Achievements: achievementService,
		Learner:      learnerService,
	}, nil
}
