package domain

import "context"

// ConditionSource supplies readings for a spot. Implementations own network
// access, unit conversion and retries; a partially failed fetch returns the
// fields it did obtain and leaves the rest nil.
type ConditionSource interface {
	// Current returns the reading for the present hour.
	Current(ctx context.Context, spot Spot) (RawReading, error)

	// Daily returns one representative reading per forecast day, in
	// chronological order.
	Daily(ctx context.Context, spot Spot, days int) ([]DailyReading, error)
}
