package domain

import (
	"fmt"
	"math"
)

// Storm override thresholds. Any one of them forces a score of 0.
const (
	StormWindKmh = 35.0
	StormGustKmh = 50.0
	StormWaveM   = 3.5
)

// Score bounds.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Gust penalty: gust/gustPenaltyDivisor, capped at maxGustPenalty.
const (
	gustPenaltyDivisor = 35.0
	maxGustPenalty     = 1.5
)

// bucket awards points to values strictly below upper.
type bucket struct {
	upper  float64
	points float64
}

// bucketTable is evaluated top to bottom; the first bucket whose upper bound
// exceeds the value wins.
type bucketTable []bucket

func (t bucketTable) points(v float64) float64 {
	for _, b := range t {
		if v < b.upper {
			return b.points
		}
	}
	return t[len(t)-1].points
}

// Bucket tables. The last entry of each table has an infinite upper bound and
// acts as the "else" branch.
var (
	// Medium swell scores highest; flat and oversized swell score lower.
	waveBuckets = bucketTable{
		{0.4, 0.4},
		{0.8, 2.0},
		{1.5, 4.2},
		{2.5, 3.4},
		{math.Inf(1), 2.2},
	}

	periodBuckets = bucketTable{
		{8, 0.6},
		{11, 2.0},
		{15, 3.4},
		{math.Inf(1), 4.0},
	}

	windBuckets = bucketTable{
		{10, 2.2},
		{18, 1.4},
		{26, 0.7},
		{math.Inf(1), 0.2},
	}
)

// IsStorm reports whether the sample triggers the storm override.
func IsStorm(s ConditionSample) bool {
	return s.WindSpeedKmh >= StormWindKmh ||
		s.WindGustKmh >= StormGustKmh ||
		s.WaveHeightM >= StormWaveM
}

// Score maps a sample to [0, 10]. Storm conditions return 0 immediately.
func Score(s ConditionSample) float64 {
	s = s.Clamp()
	if IsStorm(s) {
		return MinScore
	}

	score := waveBuckets.points(s.WaveHeightM) +
		periodBuckets.points(s.WavePeriodS) +
		windBuckets.points(s.WindSpeedKmh) -
		math.Min(maxGustPenalty, s.WindGustKmh/gustPenaltyDivisor)

	return clamp(score, MinScore, MaxScore)
}

// Quality is the discrete tag derived from a score.
type Quality string

const (
	QualityExcellent Quality = "EXCELLENT"
	QualityGood      Quality = "GOOD"
	QualityAverage   Quality = "AVERAGE"
	QualityPoor      Quality = "POOR"
	QualityStorm     Quality = "STORM"
)

// Quality ladder thresholds, inclusive lower bounds.
const (
	excellentMin = 8.0
	goodMin      = 6.2
	averageMin   = 4.6
)

// ClassifyQuality maps a score to a quality tag. It never returns
// QualityStorm: storm is decided from the sample, see Assess.
func ClassifyQuality(score float64) Quality {
	switch {
	case score >= excellentMin:
		return QualityExcellent
	case score >= goodMin:
		return QualityGood
	case score >= averageMin:
		return QualityAverage
	default:
		return QualityPoor
	}
}

// Icon returns the display glyph for the quality.
func (q Quality) Icon() string {
	switch q {
	case QualityExcellent:
		return "🟢"
	case QualityGood:
		return "🔵"
	case QualityAverage:
		return "🟡"
	case QualityPoor:
		return "🔴"
	case QualityStorm:
		return "🟣"
	default:
		return ""
	}
}

// Label returns the display text for the quality.
func (q Quality) Label() string {
	switch q {
	case QualityExcellent:
		return "Don't miss it"
	case QualityGood:
		return "Good"
	case QualityAverage:
		return "Average"
	case QualityPoor:
		return "Poor"
	case QualityStorm:
		return "Storm"
	default:
		return ""
	}
}

// ScoreResult is the derived score and its presentation keys.
type ScoreResult struct {
	Score   float64 `json:"score"`
	Quality Quality `json:"quality"`
	Icon    string  `json:"icon"`
	Label   string  `json:"label"`
	Storm   bool    `json:"storm"`
}

// Assess scores a sample and tags it. Storm samples are tagged STORM rather
// than the POOR bucket a score of 0 would otherwise read as.
func Assess(s ConditionSample) ScoreResult {
	s = s.Clamp()
	storm := IsStorm(s)
	score := Score(s)

	q := ClassifyQuality(score)
	if storm {
		q = QualityStorm
	}

	return ScoreResult{
		Score:   score,
		Quality: q,
		Icon:    q.Icon(),
		Label:   q.Label(),
		Storm:   storm,
	}
}

// String renders the result as "🟢 Don't miss it 9.4/10".
func (r ScoreResult) String() string {
	return fmt.Sprintf("%s %s %.1f/10", r.Icon, r.Label, r.Score)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
