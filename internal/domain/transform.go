package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParseRawEvent deserializes a RawEvent's value into a SpotReading.
// The message timestamp stands in for a missing observed_at.
func ParseRawEvent(raw RawEvent) (SpotReading, error) {
	var rec SpotReading
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return SpotReading{}, fmt.Errorf("parse raw event: %w", err)
	}

	rec.Spot = normalizeSlug(rec.Spot)
	if rec.Spot == "" {
		return SpotReading{}, fmt.Errorf("parse raw event: missing spot")
	}
	if rec.ObservedAt.IsZero() {
		rec.ObservedAt = raw.Timestamp
	}
	rec.ObservedAt = rec.ObservedAt.UTC()

	return rec, nil
}

// AssessReading normalizes a reading and derives score, quality, signal and
// tide. Unknown spots are assessed all the same, without catalog metadata.
func AssessReading(rec SpotReading) Assessment {
	sample := NormalizeSample(rec.RawReading)

	a := Assessment{
		ID:          generateID(rec.Spot, rec.ObservedAt),
		Spot:        rec.Spot,
		ObservedAt:  rec.ObservedAt,
		Sample:      sample,
		Result:      Assess(sample),
		Signal:      ClassifySignal(sample),
		Tide:        EstimateTide(rec.ObservedAt),
		Explanation: ExplainConditions(sample),
		ProcessedAt: clock.Now(),
	}
	if spot, ok := SpotBySlug(rec.Spot); ok {
		a.SpotName = spot.Name
		a.Region = spot.Region
	}
	return a
}

// AssessSpot assesses a live reading for a catalog spot observed at now.
func AssessSpot(spot Spot, reading RawReading, now time.Time) Assessment {
	a := AssessReading(SpotReading{Spot: spot.Slug, ObservedAt: now.UTC(), RawReading: reading})
	a.SpotName = spot.Name
	a.Region = spot.Region
	return a
}

// normalizeSlug lower-cases and trims a spot identifier.
func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// generateID produces a deterministic ID from the spot and observation time,
// so replaying a reading yields the same assessment ID.
func generateID(spot string, observedAt time.Time) string {
	input := fmt.Sprintf("%s|%s", spot, observedAt.UTC().Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	return spot + "-" + hex.EncodeToString(hash[:8])
}

// SerializeAssessment converts an Assessment into an OutputEvent keyed by
// assessment ID. Headers carry the routing fields so consumers can filter
// without decoding the payload.
func SerializeAssessment(a Assessment) (OutputEvent, error) {
	value, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment: %w", err)
	}

	return OutputEvent{
		Key:   []byte(a.ID),
		Value: value,
		Headers: map[string]string{
			"spot":         a.Spot,
			"quality":      string(a.Result.Quality),
			"signal":       string(a.Signal.Kind),
			"processed_at": a.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
