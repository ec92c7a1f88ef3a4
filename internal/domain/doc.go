// Package domain turns raw marine and atmospheric readings for a surf spot into
// a condition assessment: a numeric score, a quality tag, a session signal and
// an estimated tide phase.
//
// # Units
//
// Every reading handed to this package is already in fixed units:
//
//	wave height   meters
//	wave period   seconds
//	wind, gust    km/h
//
// Conversions (knots, mph, feet) belong to the data source adapters.
//
// # Missing values
//
// Upstream sources may omit any field. [RawReading] carries optional pointer
// fields and [NormalizeSample] turns it into a fully populated [ConditionSample]:
// absent, NaN and negative values become 0. Nothing downstream of the
// normalization step handles optionality, and no function in this package
// returns an error for bad measurements. An all-zero sample is a valid "calm"
// sample that scores 3.2 (POOR).
//
// # Score
//
// [Score] is a bucket sum clamped to [0, 10]. Bucket boundaries are exclusive
// upper bounds:
//
//	wave    <0.4 +0.4 | <0.8 +2.0 | <1.5 +4.2 | <2.5 +3.4 | else +2.2
//	period  <8   +0.6 | <11  +2.0 | <15  +3.4 | else +4.0
//	wind    <10  +2.2 | <18  +1.4 | <26  +0.7 | else +0.2
//	gust    -min(1.5, gust/35)
//
// Storm conditions (wind >= 35, gust >= 50 or wave >= 3.5) bypass the sum and
// score 0 with the STORM quality tag.
//
// # Session signal
//
// [ClassifySignal] is independent of the score: it looks at the raw sample and
// walks an ordered rule list, first match wins.
//
//	STORM         wind >= 35 | gust >= 50 | wave >= 3.5 | (wave >= 2.5 & wind >= 26)
//	MUST_SURF     period >= 11 & wind <= 12 & 0.8 <= wave < 2.5
//	GOOD_SESSION  period >= 9 & wind <= 18
//	WATCH         anything else
//
// # Tide
//
// [EstimateTide] is a fixed-period approximation anchored at [TideEpoch] with a
// half-cycle of [TideHalfCycle]. It is not an astronomical prediction and is
// labelled as an estimate wherever it is exposed.
package domain
