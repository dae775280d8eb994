package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursework-backend/internal/data/repos"
	types "github.com/yungbote/coursework-backend/internal/domain"
	domainagg "github.com/yungbote/coursework-backend/internal/domain/aggregates"
	"github.com/yungbote/coursework-backend/internal/modules/learning/streak"
	"github.com/yungbote/coursework-backend/internal/observability"
	"github.com/yungbote/coursework-backend/internal/platform/logger"
)

type RecordSessionInput struct {
	LessonID  *uuid.UUID
	StartedAt time.Time
	EndedAt   *time.Time
	Completed bool
}

// StreakView is the read model of a streak. CurrentStreak already reflects
// lapsed days even when the stored row has not been touched since.
type StreakView struct {
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	LastActivity  *time.Time `json:"last_activity,omitempty"`
	ActiveToday   bool       `json:"active_today"`
}

type StreakService interface {
	RecordSession(ctx context.Context, userID uuid.UUID, in RecordSessionInput) (*types.LearningSession, error)
	RecordActivity(ctx context.Context, userID uuid.UUID) (*types.LearningStreak, bool, error)
	GetStreak(ctx context.Context, userID uuid.UUID) (*StreakView, error)
	Location() *time.Location
}

type streakService struct {
	db       *gorm.DB
	log      *logger.Logger
	sessions repos.LearningSessionRepo
	streaks  repos.LearningStreakRepo
	metrics  *observability.Metrics
	loc      *time.Location
	now      func() time.Time
}

func NewStreakService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessionRepo repos.LearningSessionRepo,
	streakRepo repos.LearningStreakRepo,
	metrics *observability.Metrics,
	loc *time.Location,
) StreakService {
	if loc == nil {
		loc = time.UTC
	}
	return &streakService{
		db:       db,
		log:      baseLog.With("service", "StreakService"),
		sessions: sessionRepo,
		streaks:  streakRepo,
		metrics:  metrics,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *streakService) Location() *time.Location { return s.loc }

func (s *streakService) today() time.Time { return streak.Day(s.now(), s.loc) }

// RecordSession stores one learning session. A completed session counts for
// the day it ended on in the reference timezone; an end time in the future is
// clamped to now.
func (s *streakService) RecordSession(ctx context.Context, userID uuid.UUID, in RecordSessionInput) (*types.LearningSession, error) {
	const op = "Learning.Streak.RecordSession"
	if userID == uuid.Nil {
		return nil, domainagg.AuthorizationError(op, "authentication required")
	}
	now := s.now()
	startedAt := in.StartedAt
	if startedAt.IsZero() || startedAt.After(now) {
		startedAt = now
	}
	var endedAt *time.Time
	if in.EndedAt != nil {
		e := in.EndedAt.UTC()
		if e.Before(startedAt) {
			return nil, domainagg.ValidationError(op, "ended_at precedes started_at")
		}
		if e.After(now) {
			e = now.UTC()
		}
		endedAt = &e
	} else if in.Completed {
		e := now.UTC()
		endedAt = &e
	}
	activityAt := startedAt
	if endedAt != nil {
		activityAt = *endedAt
	}

	row := &types.LearningSession{
		UserID:       userID,
		LessonID:     in.LessonID,
		StartedAt:    startedAt.UTC(),
		EndedAt:      endedAt,
		Completed:    in.Completed,
		ActivityDate: streak.Day(activityAt, s.loc).UTC(),
	}
	if _, err := s.sessions.Create(ctx, nil, []*types.LearningSession{row}); err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	return row, nil
}

// RecordActivity advances the user's streak for today. It does nothing unless
// a completed session exists for today, and it is idempotent within a day.
func (s *streakService) RecordActivity(ctx context.Context, userID uuid.UUID) (*types.LearningStreak, bool, error) {
	const op = "Learning.Streak.RecordActivity"
	today := s.today()

	n, err := s.sessions.CountCompletedOnDay(ctx, nil, userID, today)
	if err != nil {
		return nil, false, domainagg.PersistenceError(op, err)
	}
	row, err := s.streaks.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, false, domainagg.PersistenceError(op, err)
	}
	if n == 0 {
		return row, false, nil
	}

	var prev *streak.State
	if row != nil {
		prev = &streak.State{
			CurrentStreak: row.CurrentStreak,
			LongestStreak: row.LongestStreak,
			LastActivity:  row.LastActivity,
		}
	}
	next, transition := streak.Advance(prev, today, s.loc)
	if !transition.Changed() {
		return row, false, nil
	}

	if row == nil {
		row = &types.LearningStreak{UserID: userID}
	}
	row.CurrentStreak = next.CurrentStreak
	row.LongestStreak = next.LongestStreak
	row.LastActivity = next.LastActivity.UTC()
	if err := s.streaks.Save(ctx, nil, row); err != nil {
		return nil, false, domainagg.PersistenceError(op, err)
	}
	s.metrics.IncStreakTransition(string(transition))
	s.log.Debug("streak advanced", "user_id", userID, "transition", string(transition), "current", row.CurrentStreak)
	return row, true, nil
}

func (s *streakService) GetStreak(ctx context.Context, userID uuid.UUID) (*StreakView, error) {
	const op = "Learning.Streak.Get"
	row, err := s.streaks.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, domainagg.PersistenceError(op, err)
	}
	if row == nil {
		return &StreakView{}, nil
	}
	today := s.today()
	last := row.LastActivity
	state := streak.State{CurrentStreak: row.CurrentStreak, LongestStreak: row.LongestStreak, LastActivity: last}
	return &StreakView{
		CurrentStreak: streak.Displayed(state, today, s.loc),
		LongestStreak: row.LongestStreak,
		LastActivity:  &last,
		ActiveToday:   streak.Day(last, s.loc).Equal(today),
	}, nil
}
