package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/coursework-backend/internal/data/repos"
	types "github.com/yungbote/coursework-backend/internal/domain"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

type LearnerSummary struct {
	Streak       *StreakView              `json:"streak"`
	Achievements []*types.UserAchievement `json:"achievements"`
	Enrollments  []*types.Enrollment      `json:"enrollments"`
	// CompletedLessons counts completed lessons across every course.
	CompletedLessons int `json:"completed_lessons"`
}

type LearnerService interface {
	GetLearnerSummary(ctx context.Context) (*LearnerSummary, error)
	RecordSession(ctx context.Context, in RecordSessionInput) (*SessionResult, error)
}

type learnerService struct {
	log            *logger.Logger
	streaks        StreakService
	achievements   AchievementService
	enrollments    repos.EnrollmentRepo
	lessonProgress repos.LessonProgressRepo
	metrics        *observability.Metrics
}

func NewLearnerService(
	baseLog *logger.Logger,
	streaks StreakService,
	achievements AchievementService,
	enrollmentRepo repos.EnrollmentRepo,
	lessonProgressRepo repos.LessonProgressRepo,
	metrics *observability.Metrics,
) LearnerService {
	return &learnerService{
		log:            baseLog.With("service", "LearnerService"),
		streaks:        streaks,
		achievements:   achievements,
		enrollments:    enrollmentRepo,
		lessonProgress: lessonProgressRepo,
		metrics:        metrics,
	}
}

// GetLearnerSummary loads the caller's dashboard reads concurrently.
func (s *learnerService) GetLearnerSummary(ctx context.Context) (*LearnerSummary, error) {
	const op = "Learning.Learner.Summary"
	rd, err := currentUser(ctx, op)
	if err != nil {
		return nil, err
	}
	userID := rd.UserID
	out := &LearnerSummary{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.streaks.GetStreak(gctx, userID)
		out.Streak = v
		return err
	})
	g.Go(func() error {
		rows, err := s.achievements.ListUserAchievements(gctx, userID)
		out.Achievements = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.enrollments.GetByUserID(gctx, nil, userID)
		if err != nil {
			return domainagg.PersistenceError(op, err)
		}
		out.Enrollments = rows
		return nil
	})
	g.Go(func() error {
		n, err := s.lessonProgress.CountCompletedByUser(gctx, nil, userID)
		if err != nil {
			return domainagg.PersistenceError(op, err)
		}
		out.CompletedLessons = int(n)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if out.Achievements == nil {
		out.Achievements = []*types.UserAchievement{}
	}
	if out.Enrollments == nil {
		out.Enrollments = []*types.Enrollment{}
	}
	return out, nil
}
