package domain

import (
	"cmp"
	"slices"
	"time"
)

// DailyReading is the representative reading for one forecast day.
type DailyReading struct {
	Date    time.Time  `json:"date"`
	Reading RawReading `json:"reading"`
}

// DayAssessment is one scored forecast day.
type DayAssessment struct {
	Date   time.Time       `json:"date"`
	Sample ConditionSample `json:"sample"`
	Result ScoreResult     `json:"result"`
}

// AggregateDays scores every day independently. The output has the same length
// and order as the input; no smoothing or sorting is applied.
func AggregateDays(days []DailyReading) []DayAssessment {
	out := make([]DayAssessment, 0, len(days))
	for _, d := range days {
		sample := NormalizeSample(d.Reading)
		out = append(out, DayAssessment{
			Date:   d.Date,
			Sample: sample,
			Result: Assess(sample),
		})
	}
	return out
}

// BestDay returns the first day with the highest score. ok is false for an
// empty slice.
func BestDay(days []DayAssessment) (best DayAssessment, ok bool) {
	for i, d := range days {
		if i == 0 || d.Result.Score > best.Result.Score {
			best = d
			ok = true
		}
	}
	return best, ok
}

// SpotAssessment pairs a spot with its current score.
type SpotAssessment struct {
	Spot   Spot            `json:"spot"`
	Sample ConditionSample `json:"sample"`
	Result ScoreResult     `json:"result"`
	Signal SignalResult    `json:"signal"`
}

// RankSpots returns a copy sorted by score, best first. Equal scores are
// ordered by slug so the ranking is stable across calls.
func RankSpots(in []SpotAssessment) []SpotAssessment {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b SpotAssessment) int {
		if c := cmp.Compare(b.Result.Score, a.Result.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Spot.Slug, b.Spot.Slug)
	})
	return out
}
