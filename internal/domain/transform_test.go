package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSpot     = "la-torche"
	testObserved = "2025-06-14T07:00:00Z"
)

func TestParseRawEvent(t *testing.T) {
	msgTime := time.Date(2025, 6, 14, 7, 5, 0, 0, time.UTC)

	t.Run("complete reading", func(t *testing.T) {
		data := []byte(`{"spot":"la-torche","observed_at":"2025-06-14T07:00:00Z","wave_height_m":1.4,"wave_period_s":12,"wind_speed_kmh":9,"wind_gust_kmh":16}`)
		rec, err := ParseRawEvent(RawEvent{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		assert.Equal(t, testSpot, rec.Spot)
		assert.Equal(t, time.Date(2025, 6, 14, 7, 0, 0, 0, time.UTC), rec.ObservedAt)
		require.NotNil(t, rec.WaveHeightM)
		assert.Equal(t, 1.4, *rec.WaveHeightM)
		assert.Equal(t, 16.0, *rec.WindGustKmh)
	})

	t.Run("missing fields stay nil", func(t *testing.T) {
		data := []byte(`{"spot":"penhors","observed_at":"2025-06-14T07:00:00Z","wave_height_m":0.9,"wind_gust_kmh":null}`)
		rec, err := ParseRawEvent(RawEvent{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		assert.Nil(t, rec.WavePeriodS)
		assert.Nil(t, rec.WindSpeedKmh)
		assert.Nil(t, rec.WindGustKmh)
	})

	t.Run("slug normalized", func(t *testing.T) {
		data := []byte(`{"spot":"  La-Torche ","observed_at":"2025-06-14T07:00:00Z"}`)
		rec, err := ParseRawEvent(RawEvent{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		assert.Equal(t, testSpot, rec.Spot)
	})

	t.Run("observed_at falls back to message timestamp", func(t *testing.T) {
		data := []byte(`{"spot":"la-torche","wave_height_m":1}`)
		rec, err := ParseRawEvent(RawEvent{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		assert.Equal(t, msgTime, rec.ObservedAt)
	})

	t.Run("observed_at converted to UTC", func(t *testing.T) {
		data := []byte(`{"spot":"la-torche","observed_at":"2025-06-14T09:00:00+02:00"}`)
		rec, err := ParseRawEvent(RawEvent{Value: data, Timestamp: msgTime})

		require.NoError(t, err)
		assert.Equal(t, time.UTC, rec.ObservedAt.Location())
		assert.Equal(t, 7, rec.ObservedAt.Hour())
	})

	t.Run("missing spot", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte(`{"wave_height_m":1}`)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing spot")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte(`{not json`)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw event")
	})
}

func TestAssessReading(t *testing.T) {
	fixedTime := time.Date(2025, 6, 14, 7, 1, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	observed, _ := time.Parse(time.RFC3339, testObserved)

	t.Run("catalog spot", func(t *testing.T) {
		a := AssessReading(SpotReading{
			Spot:       testSpot,
			ObservedAt: observed,
			RawReading: RawReading{WaveHeightM: Float(1.2), WavePeriodS: Float(12), WindSpeedKmh: Float(8), WindGustKmh: Float(15)},
		})

		assert.True(t, strings.HasPrefix(a.ID, testSpot+"-"))
		assert.Equal(t, "La Torche", a.SpotName)
		assert.Equal(t, "Bretagne", a.Region)
		assert.Equal(t, QualityExcellent, a.Result.Quality)
		assert.Equal(t, SignalMustSurf, a.Signal.Kind)
		assert.Equal(t, EstimateTide(observed), a.Tide)
		assert.NotEmpty(t, a.Explanation)
		assert.Equal(t, fixedTime, a.ProcessedAt)
	})

	t.Run("unknown spot still assessed", func(t *testing.T) {
		a := AssessReading(SpotReading{Spot: "secret-reef", ObservedAt: observed})

		assert.Empty(t, a.SpotName)
		assert.Empty(t, a.Region)
		assert.Equal(t, QualityPoor, a.Result.Quality)
		assert.Equal(t, SignalWatch, a.Signal.Kind)
	})

	t.Run("storm reading", func(t *testing.T) {
		a := AssessReading(SpotReading{
			Spot:       testSpot,
			ObservedAt: observed,
			RawReading: RawReading{WaveHeightM: Float(4), WavePeriodS: Float(14), WindSpeedKmh: Float(20)},
		})

		assert.Zero(t, a.Result.Score)
		assert.True(t, a.Result.Storm)
		assert.Equal(t, QualityStorm, a.Result.Quality)
		assert.Equal(t, SignalStorm, a.Signal.Kind)
	})
}

func TestAssessSpot(t *testing.T) {
	spot, ok := SpotBySlug("penhors")
	require.True(t, ok)
	now := time.Date(2025, 6, 14, 9, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	a := AssessSpot(spot, RawReading{WaveHeightM: Float(1)}, now)

	assert.Equal(t, "penhors", a.Spot)
	assert.Equal(t, "Penhors", a.SpotName)
	assert.Equal(t, now.UTC(), a.ObservedAt)
}

func TestGenerateID(t *testing.T) {
	observed, _ := time.Parse(time.RFC3339, testObserved)

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, generateID(testSpot, observed), generateID(testSpot, observed))
	})

	t.Run("zone independent", func(t *testing.T) {
		paris := observed.In(time.FixedZone("CEST", 2*3600))
		assert.Equal(t, generateID(testSpot, observed), generateID(testSpot, paris))
	})

	t.Run("distinct inputs", func(t *testing.T) {
		assert.NotEqual(t, generateID(testSpot, observed), generateID("penhors", observed))
		assert.NotEqual(t, generateID(testSpot, observed), generateID(testSpot, observed.Add(time.Hour)))
	})

	t.Run("format", func(t *testing.T) {
		id := generateID(testSpot, observed)
		assert.Len(t, id, len(testSpot)+1+16)
	})
}

func TestSerializeAssessment(t *testing.T) {
	fixedTime := time.Date(2025, 6, 14, 7, 1, 0, 0, time.UTC)
	observed, _ := time.Parse(time.RFC3339, testObserved)

	a := Assessment{
		ID:          "la-torche-0011223344556677",
		Spot:        testSpot,
		ObservedAt:  observed,
		Sample:      ConditionSample{WaveHeightM: 1.2, WavePeriodS: 12, WindSpeedKmh: 8, WindGustKmh: 15},
		Result:      ScoreResult{Score: 9.4, Quality: QualityExcellent},
		Signal:      SignalResult{Kind: SignalMustSurf},
		Tide:        EstimateTide(observed),
		ProcessedAt: fixedTime,
	}

	out, err := SerializeAssessment(a)

	require.NoError(t, err)
	assert.Equal(t, []byte(a.ID), out.Key)
	assert.Equal(t, testSpot, out.Headers["spot"])
	assert.Equal(t, "EXCELLENT", out.Headers["quality"])
	assert.Equal(t, "MUST_SURF", out.Headers["signal"])
	assert.Equal(t, "2025-06-14T07:01:00Z", out.Headers["processed_at"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Value, &decoded))
	assert.Equal(t, testSpot, decoded["spot"])
	assert.Contains(t, decoded, "tide")
}

func TestSetClock(t *testing.T) {
	t.Run("set custom clock", func(t *testing.T) {
		fixedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(fixedTime))
		assert.Equal(t, fixedTime, clock.Now())

		SetClock(nil)
	})

	t.Run("reset to real clock", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
		SetClock(nil)

		now := clock.Now()
		assert.True(t, time.Since(now) < time.Second)
	})
}
