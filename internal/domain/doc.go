// Package domain estimates the likelihood of observing a red sprite above a
// thunderstorm and explains the estimate with ranked qualitative reasons.
//
// # Scoring Model
//
// Every raw input is normalized to a dimensionless [0,1] suitability score,
// then the scores are combined by a fixed-weight logistic model:
//
//	z = -3.0 + 0.6·lat + 0.5·month + 0.4·hour + 2.0·storm
//	         + 0.6·visibility + 0.4·cloudClarity + 0.2·moonDarkness
//	p = 1 / (1 + e^-z)
//
// The weights are domain priors, not learned values. Storm activity dominates;
// moon brightness is the weakest factor.
//
// Continuous factors use a trapezoidal envelope (low, optLow, optHigh, high):
//
//	Latitude: -10 | 10–45 | 60   (signed, no hemisphere mirroring)
//	Month:    2.5 | 5–9   | 11.5 (May–September ideal)
//
// The hour factor is banded: 21–02h = 1.0, 18–20h and 03–05h = 0.6, any other
// value (including out-of-range hours) = 0.1. The remaining factors are linear
// ratios clamped to [0,1]: storm/10, 1 - cloud%/100, 1 - moon%/100, km/40.
//
// # Reasons and Hints
//
// One reason per factor is always emitted, in the fixed order latitude, month,
// hour, storm, cloud, moon, visibility. Tier thresholds are documented on
// [Predictor.Predict]. The hint is "favorable" above 0.7, "moderate" above 0.4,
// "weak" otherwise; both bounds are strict. Text lives in a [Catalog] keyed by
// factor and tier so the wording can be localized without touching thresholds.
//
// # Lunar Illumination
//
// [MoonIllumination] is a synodic-phase approximation anchored at the new
// moon of JD 2451549.5 (2000-01-06 00:00). It is a rough stand-in when the
// caller has no direct measurement, with errors of hours to days against a
// real ephemeris.
//
// # Hourly Series
//
// Weather providers return parallel arrays (timestamps, cloud cover,
// visibility). [NearestIndex] picks the sample for a target hour in two
// ordered passes: an exact "YYYY-MM-DDTHH:00" prefix match, then the minimum
// absolute wall-clock delta. Both passes keep the first hit on ties.
//
// # Errors
//
// The engine and the moon estimator are total. Only collaborator-facing work
// fails, with [ErrFetchFailed], [ErrDataUnavailable] or [ErrExtractionFailed].
package domain
