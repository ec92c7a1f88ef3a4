package domain

import (
	"fmt"
	"time"
)

// TideHalfCycle is half of the mean semi-diurnal period (12h25m).
const TideHalfCycle = 6*time.Hour + 12*time.Minute + 30*time.Second

// TideEpoch anchors the approximation: the tide is rising at TideEpoch.
var TideEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// TideDisclaimer is shown next to every tide estimate.
const TideDisclaimer = "Estimated from a fixed-period model; not an official tide table."

// TideState is the direction of the water.
type TideState string

const (
	TideRising  TideState = "RISING"
	TideFalling TideState = "FALLING"
)

// TidePhase is the estimated tide at a given instant.
type TidePhase struct {
	State         TideState     `json:"state"`
	Rising        bool          `json:"rising"`
	PhaseFraction float64       `json:"phase_fraction"`
	Remaining     time.Duration `json:"-"`
	RemainingMs   int64         `json:"remaining_ms"`
	NextChangeAt  time.Time     `json:"next_change_at"`
	EstimatedAt   time.Time     `json:"estimated_at"`
	Estimate      bool          `json:"estimate"`
}

// EstimateTide computes the tide phase at now. The result is fully determined
// by now: two calls with the same instant return the same phase.
func EstimateTide(now time.Time) TidePhase {
	elapsed := now.Sub(TideEpoch)

	halfIndex := elapsed / TideHalfCycle
	phase := elapsed % TideHalfCycle
	if phase < 0 {
		// Before the epoch: floor the division and keep the phase non-negative.
		phase += TideHalfCycle
		halfIndex--
	}

	rising := halfIndex%2 == 0
	state := TideFalling
	if rising {
		state = TideRising
	}

	remaining := TideHalfCycle - phase
	return TidePhase{
		State:         state,
		Rising:        rising,
		PhaseFraction: float64(phase) / float64(TideHalfCycle),
		Remaining:     remaining,
		RemainingMs:   remaining.Milliseconds(),
		NextChangeAt:  now.Add(remaining),
		EstimatedAt:   now,
		Estimate:      true,
	}
}

// CurrentTide estimates the tide at the package clock's current time.
func CurrentTide() TidePhase {
	return EstimateTide(clock.Now())
}

// Label returns a short human text, e.g. "Rising (switch in 01:02:03)".
func (p TidePhase) Label() string {
	dir := "Falling"
	if p.Rising {
		dir = "Rising"
	}
	return fmt.Sprintf("%s (switch in %s)", dir, FormatCountdown(p.Remaining))
}

// FormatCountdown renders d as HH:MM:SS, truncated to the second. Negative
// durations render as 00:00:00.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
