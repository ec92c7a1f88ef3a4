package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// SpotReading is the JSON record published on the source topic by the
// collectors: one reading for one spot at one instant.
type SpotReading struct {
	Spot       string    `json:"spot"`
	ObservedAt time.Time `json:"observed_at"`
	RawReading
}

// Assessment is the enriched, serializable outcome for one reading.
type Assessment struct {
	ID          string          `json:"id"`
	Spot        string          `json:"spot"`
	SpotName    string          `json:"spot_name,omitempty"`
	Region      string          `json:"region,omitempty"`
	ObservedAt  time.Time       `json:"observed_at"`
	Sample      ConditionSample `json:"sample"`
	Result      ScoreResult     `json:"result"`
	Signal      SignalResult    `json:"signal"`
	Tide        TidePhase       `json:"tide"`
	Explanation string          `json:"explanation"`
	Stale       bool            `json:"stale,omitempty"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
