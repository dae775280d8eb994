// Package streak holds the calendar-day arithmetic behind learner streaks.
// Everything here is pure; persistence lives in the services layer.
package streak

import "time"

type State struct {
	CurrentStreak int
	LongestStreak int
	// LastActivity is midnight of the last counted day.
	LastActivity time.Time
}

type Transition string

const (
	TransitionStarted   Transition = "started"
	TransitionContinued Transition = "continued"
	TransitionReset     Transition = "reset"
	TransitionUnchanged Transition = "unchanged"
)

func (t Transition) Changed() bool { return t != TransitionUnchanged && t != "" }

// Day truncates t to midnight of its calendar date in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Advance applies one qualifying activity on today. A nil prev starts a new
// streak. Repeated calls on the same day leave the state untouched.
func Advance(prev *State, today time.Time, loc *time.Location) (State, Transition) {
	today = Day(today, loc)
	if prev == nil {
		return State{CurrentStreak: 1, LongestStreak: 1, LastActivity: today}, TransitionStarted
	}

	last := Day(prev.LastActivity, loc)
	if !last.Before(today) {
		return *prev, TransitionUnchanged
	}

	next := State{LongestStreak: prev.LongestStreak, LastActivity: today}
	kind := TransitionReset
	yesterday := today.AddDate(0, 0, -1)
	if !last.Before(yesterday) {
		next.CurrentStreak = prev.CurrentStreak + 1
		kind = TransitionContinued
	} else {
		next.CurrentStreak = 1
	}
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	return next, kind
}

// Displayed is the streak a reader should see on today: a streak whose last
// counted day is before yesterday has lapsed and shows as zero.
func Displayed(s State, today time.Time, loc *time.Location) int {
	today = Day(today, loc)
	if Day(s.LastActivity, loc).Before(today.AddDate(0, 0, -1)) {
		return 0
	}
	return s.CurrentStreak
}

// LoadLocation resolves an IANA zone name, falling back to UTC for "".
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
