package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSample(t *testing.T) {
	tests := []struct {
		name string
		raw  RawReading
		want ConditionSample
	}{
		{"all missing", RawReading{}, ConditionSample{}},
		{
			"all present",
			RawReading{WaveHeightM: Float(1.2), WavePeriodS: Float(12), WindSpeedKmh: Float(8), WindGustKmh: Float(15)},
			ConditionSample{WaveHeightM: 1.2, WavePeriodS: 12, WindSpeedKmh: 8, WindGustKmh: 15},
		},
		{
			"gust missing",
			RawReading{WaveHeightM: Float(0.9), WavePeriodS: Float(10), WindSpeedKmh: Float(14)},
			ConditionSample{WaveHeightM: 0.9, WavePeriodS: 10, WindSpeedKmh: 14},
		},
		{
			"negatives clamped",
			RawReading{WaveHeightM: Float(-0.3), WavePeriodS: Float(-1), WindSpeedKmh: Float(-20), WindGustKmh: Float(-4)},
			ConditionSample{},
		},
		{
			"NaN treated as missing",
			RawReading{WaveHeightM: Float(math.NaN()), WavePeriodS: Float(9)},
			ConditionSample{WavePeriodS: 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSample(tt.raw))
		})
	}
}

func TestNormalizeSample_FromJSONWithNulls(t *testing.T) {
	var raw RawReading
	require.NoError(t, json.Unmarshal([]byte(`{"wave_height_m":1.4,"wave_period_s":null,"wind_speed_kmh":11}`), &raw))

	s := NormalizeSample(raw)
	assert.Equal(t, ConditionSample{WaveHeightM: 1.4, WindSpeedKmh: 11}, s)
}

func TestRawReading_Merge(t *testing.T) {
	marine := RawReading{WaveHeightM: Float(1.1), WavePeriodS: Float(11)}
	weather := RawReading{WindSpeedKmh: Float(9), WindGustKmh: Float(18), WaveHeightM: Float(99)}

	merged := marine.Merge(weather)

	assert.Equal(t, 1.1, *merged.WaveHeightM, "existing field wins")
	assert.Equal(t, 11.0, *merged.WavePeriodS)
	assert.Equal(t, 9.0, *merged.WindSpeedKmh)
	assert.Equal(t, 18.0, *merged.WindGustKmh)
	assert.True(t, merged.Complete())
	assert.False(t, marine.Complete())
	assert.False(t, RawReading{}.Complete())
}

func TestConditionSample_Clamp(t *testing.T) {
	s := ConditionSample{WaveHeightM: -1, WavePeriodS: 10, WindSpeedKmh: math.NaN(), WindGustKmh: 3}
	assert.Equal(t, ConditionSample{WavePeriodS: 10, WindGustKmh: 3}, s.Clamp())
}
