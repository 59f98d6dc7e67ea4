// Package domain implements the flood-risk scoring engine.
//
// # Data Source
//
// Hourly environmental signals (rain, precipitation, temperature, humidity,
// surface pressure, wind gusts, topsoil moisture, WMO weather codes) come
// from the Open-Meteo forecast API as parallel arrays aligned to a shared
// hourly time axis. Elevation comes from the Open-Meteo elevation API, with
// a 10 m fallback when the provider is unreachable.
//
// # Scoring Variants
//
// Two scoring formulas coexist and are selected explicitly by the caller:
//
//	Batch: flat additive factor scores over a daily FeatureVector. Used by
//	the dataset generator, where each (location, day) window becomes one
//	labeled training row. Classified with inclusive bands 70/40/20.
//
//	Live: a rainfall composite over rolling 1h/3h/6h windows blended with
//	elevation, storm severity, historical propensity, and crowd-report
//	scores using fractional weights. Used for real-time queries and the
//	background watch. Classified with exclusive bands 80/60/40.
//
// The two band sets are intentionally different because the two formulas
// produce differently scaled totals; unifying them would silently change
// classification outcomes.
//
// # Risk Labels
//
// Four ordered labels, lowest to highest: AMAN (safe), WASPADA (caution),
// SIAGA (alert), BAHAYA (danger). The Indonesian civil-defense terms are
// kept verbatim because the external predictor is trained on them and the
// dataset CSV uses them as class labels.
//
// # Numeric Conventions
//
// Aggregation keeps full float64 precision; rounding happens only at the
// formatting boundary (1 decimal for temperature, 0 for humidity and
// pressure, 2 for rainfall, 3 for soil moisture). Empty windows aggregate
// to zero rather than erroring, and rolling windows read a missing hour as
// zero so accumulation sums stay defined at the series boundary.
package domain
