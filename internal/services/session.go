package services

import (
	"context"

	types "github.com/yungbote/coursework-backend/internal/domain"
)

// SessionResult is a recorded session plus whatever its follow-ups produced.
type SessionResult struct {
	Session      *types.LearningSession   `json:"session"`
	Streak       *types.LearningStreak    `json:"streak,omitempty"`
	Achievements []*types.UserAchievement `json:"achievements,omitempty"`
	FollowUps    []FollowUpResult         `json:"follow_ups,omitempty"`
}

// RecordSession stores a session for the caller. A completed session then
// advances the streak and checks streak achievements, best-effort.
func (s *learnerService) RecordSession(ctx context.Context, in RecordSessionInput) (*SessionResult, error) {
	const op = "Learning.Learner.RecordSession"
	rd, err := currentUser(ctx, op)
	if err != nil {
		return nil, err
	}
	userID := rd.UserID

	sess, err := s.streaks.RecordSession(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	out := &SessionResult{Session: sess}
	if !in.Completed {
		return out, nil
	}

	out.FollowUps = NewFollowUps(s.log, s.metrics).
		Add(StepStreak, func(ctx context.Context) error {
			row, _, err := s.streaks.RecordActivity(ctx, userID)
			out.Streak = row
			return err
		}).
		Add(StepStreakAchievements, func(ctx context.Context) error {
			if out.Streak == nil {
				return nil
			}
			rows, err := s.achievements.CheckStreakAchievements(ctx, userID, out.Streak.CurrentStreak)
			out.Achievements = rows
			return err
		}, StepStreak).
		Run(ctx)
	return out, nil
}
