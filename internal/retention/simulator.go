// Package retention simulates day-by-day player activity over the first 31
// simulated days (D0..D30). The resulting active day-set is the sole basis
// for session scheduling; churn materializes only through this set.
package retention

import (
	"math"
	"time"

	"mmo-analytics-lab/internal/domain"
	"mmo-analytics-lab/internal/rng"
)

// DayMs is one simulated day in milliseconds.
const DayMs = int64(24 * 60 * 60 * 1000)

// SimDays is the number of simulated activity days per player (D0..D30).
const SimDays = 31

// Calendar multipliers.
const (
	eventWeekMultiplier = 1.25
	patchDayMultiplier  = 1.15
	patchWindowMs       = int64(12 * 60 * 60 * 1000) // +-12h around the patch
)

// Calendar holds the global simulated calendar: a live-ops event week and a
// patch day, both of which boost activity probability.
type Calendar struct {
	EventWeekStartMs int64
	EventWeekEndMs   int64 // exclusive
	PatchDayMs       int64
}

// Multiplier returns the calendar activity multiplier at ts.
func (c Calendar) Multiplier(ts int64) float64 {
	m := 1.0
	if ts >= c.EventWeekStartMs && ts < c.EventWeekEndMs {
		m *= eventWeekMultiplier
	}
	if diff := ts - c.PatchDayMs; diff >= -patchWindowMs && diff <= patchWindowMs {
		m *= patchDayMultiplier
	}
	return m
}

// isWeekend reports whether ts falls on Saturday or Sunday UTC.
func isWeekend(ts int64) bool {
	wd := time.UnixMilli(ts).UTC().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ActiveDays runs the sequential Bernoulli activity simulation for one
// player and returns the ordered active day offsets. State:
//   - inactivityStreak grows on each inactive day and resets on activity;
//   - the hazard term 1/(1+0.35*(streak-1)) kicks in once streak >= 2,
//     modeling progressive disengagement.
//
// No state survives across players.
func ActiveDays(stream *rng.Stream, p domain.Profile, installMs int64, cal Calendar) []int {
	var active []int
	streak := 0

	for day := 0; day < SimDays; day++ {
		dayStart := installMs + int64(day)*DayMs

		weekendFactor := 1.0
		if isWeekend(dayStart) {
			weekendFactor = p.WeekendBoost
		}

		hazard := 1.0
		if streak >= 2 {
			hazard = 1.0 / (1.0 + 0.35*float64(streak-1))
		}

		prob := p.RetentionBase *
			math.Pow(1.0-p.RetentionDecay, float64(day)) *
			weekendFactor *
			cal.Multiplier(dayStart) *
			hazard
		if prob < 0.01 {
			prob = 0.01
		}
		if prob > 1.0 {
			prob = 1.0
		}

		if stream.Float64() < prob {
			active = append(active, day)
			streak = 0
		} else {
			streak++
		}
	}

	return active
}
