package grading

import "math"

// Score converts earned/total points to a 0-100 percentage rounded to two
// decimals. A quiz worth nothing scores zero.
func Score(earned, total int) float64 {
	if total <= 0 || earned <= 0 {
		return 0
	}
	if earned > total {
		earned = total
	}
	pct := float64(earned) / float64(total) * 100
	return math.Round(pct*100) / 100
}

// Passed applies the optional passing threshold; no threshold means pass.
func Passed(score float64, passingScore *int) bool {
	if passingScore == nil {
		return true
	}
	return score >= float64(*passingScore)
}

// Percent is the whole-number completion percentage used for progress,
// rounded half up.
func Percent(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done > total {
		done = total
	}
	return int(math.Floor(float64(done)*100/float64(total) + 0.5))
}
