package domain

import "math"

// RawReading is a partially populated measurement as delivered by a data
// source. Nil fields mean the upstream did not report the value.
type RawReading struct {
	WaveHeightM  *float64 `json:"wave_height_m,omitempty"`
	WavePeriodS  *float64 `json:"wave_period_s,omitempty"`
	WindSpeedKmh *float64 `json:"wind_speed_kmh,omitempty"`
	WindGustKmh  *float64 `json:"wind_gust_kmh,omitempty"`
}

// ConditionSample is a fully populated, non-negative measurement for one spot
// at one instant.
type ConditionSample struct {
	WaveHeightM  float64 `json:"wave_height_m"`
	WavePeriodS  float64 `json:"wave_period_s"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	WindGustKmh  float64 `json:"wind_gust_kmh"`
}

// Float returns a pointer to v. Handy for building readings in adapters and tests.
func Float(v float64) *float64 {
	return &v
}

// NormalizeSample defaults missing fields to 0 and clamps negative or NaN
// values to 0. It never fails.
func NormalizeSample(r RawReading) ConditionSample {
	return ConditionSample{
		WaveHeightM:  nonNegative(r.WaveHeightM),
		WavePeriodS:  nonNegative(r.WavePeriodS),
		WindSpeedKmh: nonNegative(r.WindSpeedKmh),
		WindGustKmh:  nonNegative(r.WindGustKmh),
	}
}

// Clamp re-applies the non-negative invariant to a sample built by hand.
func (s ConditionSample) Clamp() ConditionSample {
	return NormalizeSample(s.Raw())
}

// Raw converts the sample back into a reading with every field present.
func (s ConditionSample) Raw() RawReading {
	return RawReading{
		WaveHeightM:  Float(s.WaveHeightM),
		WavePeriodS:  Float(s.WavePeriodS),
		WindSpeedKmh: Float(s.WindSpeedKmh),
		WindGustKmh:  Float(s.WindGustKmh),
	}
}

// Merge fills the nil fields of r with the corresponding fields of other.
// Used to join readings coming from separate upstreams.
func (r RawReading) Merge(other RawReading) RawReading {
	if r.WaveHeightM == nil {
		r.WaveHeightM = other.WaveHeightM
	}
	if r.WavePeriodS == nil {
		r.WavePeriodS = other.WavePeriodS
	}
	if r.WindSpeedKmh == nil {
		r.WindSpeedKmh = other.WindSpeedKmh
	}
	if r.WindGustKmh == nil {
		r.WindGustKmh = other.WindGustKmh
	}
	return r
}

// Complete reports whether both upstreams contributed all of their fields.
func (r RawReading) Complete() bool {
	return r.WaveHeightM != nil && r.WavePeriodS != nil && r.WindSpeedKmh != nil && r.WindGustKmh != nil
}

func nonNegative(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || *v < 0 {
		return 0
	}
	if math.IsInf(*v, 1) {
		return math.MaxFloat64
	}
	return *v
}
