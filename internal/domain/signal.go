package domain

// SignalKind is the actionable recommendation for a session.
type SignalKind string

const (
	SignalMustSurf    SignalKind = "MUST_SURF"
	SignalGoodSession SignalKind = "GOOD_SESSION"
	SignalWatch       SignalKind = "WATCH"
	SignalStorm       SignalKind = "STORM"
)

// Signal thresholds. The storm rule extends the score override with a
// "big swell and strong wind" combination.
const (
	signalHeavyWaveM   = 2.5
	signalHeavyWindKmh = 26.0

	mustSurfMinPeriodS = 11.0
	mustSurfMaxWindKmh = 12.0
	mustSurfMinWaveM   = 0.8
	mustSurfMaxWaveM   = 2.5

	goodSessionMinPeriodS = 9.0
	goodSessionMaxWindKmh = 18.0

	// Above this sustained wind the recommendation points to sheltered spots.
	shelterWindKmh = 18.0
)

// SignalResult is the session recommendation for a sample.
type SignalResult struct {
	Kind           SignalKind `json:"kind"`
	Reason         string     `json:"reason"`
	Recommendation string     `json:"recommendation"`
}

// signalRule is one entry of the ordered rule list.
type signalRule struct {
	kind   SignalKind
	match  func(ConditionSample) bool
	reason string
}

// signalRules are evaluated in order; the first match wins. The last rule
// always matches.
var signalRules = []signalRule{
	{
		kind: SignalStorm,
		match: func(s ConditionSample) bool {
			return IsStorm(s) || (s.WaveHeightM >= signalHeavyWaveM && s.WindSpeedKmh >= signalHeavyWindKmh)
		},
		reason: "Storm conditions: strong wind or heavy swell make the water unsafe.",
	},
	{
		kind: SignalMustSurf,
		match: func(s ConditionSample) bool {
			return s.WavePeriodS >= mustSurfMinPeriodS &&
				s.WindSpeedKmh <= mustSurfMaxWindKmh &&
				s.WaveHeightM >= mustSurfMinWaveM && s.WaveHeightM < mustSurfMaxWaveM
		},
		reason: "Long-period, clean swell with light wind.",
	},
	{
		kind: SignalGoodSession,
		match: func(s ConditionSample) bool {
			return s.WavePeriodS >= goodSessionMinPeriodS && s.WindSpeedKmh <= goodSessionMaxWindKmh
		},
		reason: "Organised swell and manageable wind.",
	},
	{
		kind:   SignalWatch,
		match:  func(ConditionSample) bool { return true },
		reason: "Marginal conditions: short period or too much wind.",
	},
}

// ClassifySignal evaluates the raw sample, not its score, against the ordered
// signal rules.
func ClassifySignal(s ConditionSample) SignalResult {
	s = s.Clamp()
	for _, r := range signalRules {
		if r.match(s) {
			return SignalResult{
				Kind:           r.kind,
				Reason:         r.reason,
				Recommendation: recommend(r.kind, s),
			}
		}
	}
	// Unreachable: the last rule always matches.
	return SignalResult{Kind: SignalWatch}
}

func recommend(kind SignalKind, s ConditionSample) string {
	switch {
	case kind == SignalStorm:
		return "Stay out of the water and check again later."
	case s.WindSpeedKmh > shelterWindKmh:
		return "Seek a sheltered or offshore-facing spot."
	case kind == SignalWatch:
		return "Check again before heading out."
	default:
		return "Usable window: go!"
	}
}

// ExplainConditions returns a short text describing the dominant factor of a
// sample.
func ExplainConditions(s ConditionSample) string {
	s = s.Clamp()
	switch {
	case s.WindSpeedKmh > 22:
		return "Strong wind: waves are degraded and sessions get technical."
	case s.WavePeriodS < 9:
		return "Short period: limited energy and soft waves."
	case s.WaveHeightM < 1.2:
		return "Little swell: small waves, limited session."
	default:
		return "Good balance between swell, period and wind."
	}
}
