package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2025, 6, 1+n, 0, 0, 0, 0, time.UTC)
}

func TestAggregateDays(t *testing.T) {
	days := []DailyReading{
		{Date: day(0), Reading: RawReading{WaveHeightM: Float(1.2), WavePeriodS: Float(12), WindSpeedKmh: Float(8), WindGustKmh: Float(15)}},
		{Date: day(1), Reading: RawReading{WaveHeightM: Float(4.0), WavePeriodS: Float(9), WindSpeedKmh: Float(20), WindGustKmh: Float(30)}},
		{Date: day(2), Reading: RawReading{}},
	}

	got := AggregateDays(days)

	require.Len(t, got, 3)
	for i := range days {
		assert.Equal(t, days[i].Date, got[i].Date, "order preserved")
	}
	assert.Equal(t, QualityExcellent, got[0].Result.Quality)
	assert.Equal(t, QualityStorm, got[1].Result.Quality)
	assert.Equal(t, QualityPoor, got[2].Result.Quality)
	assert.InDelta(t, 3.2, got[2].Result.Score, scoreDelta)
}

func TestAggregateDays_NoCrossDaySmoothing(t *testing.T) {
	reading := RawReading{WaveHeightM: Float(1.0), WavePeriodS: Float(10), WindSpeedKmh: Float(15)}
	alone := AggregateDays([]DailyReading{{Date: day(0), Reading: reading}})
	withStormBefore := AggregateDays([]DailyReading{
		{Date: day(-1), Reading: RawReading{WindSpeedKmh: Float(60)}},
		{Date: day(0), Reading: reading},
	})

	if diff := cmp.Diff(alone[0], withStormBefore[1]); diff != "" {
		t.Errorf("day assessment depends on neighbours (-alone +with storm):\n%s", diff)
	}
}

func TestAggregateDays_Empty(t *testing.T) {
	assert.Empty(t, AggregateDays(nil))
}

func TestBestDay(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, ok := BestDay(nil)
		assert.False(t, ok)
	})

	t.Run("first of equal scores wins", func(t *testing.T) {
		days := []DayAssessment{
			{Date: day(0), Result: ScoreResult{Score: 5}},
			{Date: day(1), Result: ScoreResult{Score: 7}},
			{Date: day(2), Result: ScoreResult{Score: 7}},
			{Date: day(3), Result: ScoreResult{Score: 2}},
		}
		best, ok := BestDay(days)
		require.True(t, ok)
		assert.Equal(t, day(1), best.Date)
		assert.Equal(t, day(0), days[0].Date, "input untouched")
	})

	t.Run("all zero", func(t *testing.T) {
		days := []DayAssessment{{Date: day(0)}, {Date: day(1)}}
		best, ok := BestDay(days)
		require.True(t, ok)
		assert.Equal(t, day(0), best.Date)
	})
}

func TestRankSpots(t *testing.T) {
	in := []SpotAssessment{
		{Spot: Spot{Slug: "penhors"}, Result: ScoreResult{Score: 6.1}},
		{Spot: Spot{Slug: "la-torche"}, Result: ScoreResult{Score: 8.4}},
		{Spot: Spot{Slug: "carcans-plage"}, Result: ScoreResult{Score: 6.1}},
		{Spot: Spot{Slug: "mimizan-plage"}, Result: ScoreResult{Score: 0, Quality: QualityStorm}},
	}

	got := RankSpots(in)

	slugs := make([]string, len(got))
	for i, s := range got {
		slugs[i] = s.Spot.Slug
	}
	want := []string{"la-torche", "carcans-plage", "penhors", "mimizan-plage"}
	if diff := cmp.Diff(want, slugs); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "penhors", in[0].Spot.Slug, "input untouched")
}
