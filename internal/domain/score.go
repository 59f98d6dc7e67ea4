package domain

// BatchScore computes the flat additive risk score used for dataset
// labeling. Each factor contributes a capped step value; no single factor
// can saturate the total on its own. Thresholds are load-bearing: the
// batch classifier bands were calibrated against exactly these steps.
func BatchScore(f FeatureVector) float64 {
	score := RainAccumulationScore(f.RainSum24h)
	score += RainIntensityScore(f.RainPeak1h)
	score += SoilMoistureScore(f.SoilMoisture)
	score += ElevationScore(f.Elevation)
	score += WindGustScore(f.WindGustMax)
	return score
}

// RainAccumulationScore scores the 24-hour rainfall total in millimeters.
func RainAccumulationScore(rainSum float64) float64 {
	switch {
	case rainSum > 150:
		return 50
	case rainSum > 100:
		return 40
	case rainSum > 50:
		return 25
	case rainSum > 20:
		return 10
	default:
		return 0
	}
}

// RainIntensityScore scores the peak one-hour rainfall, a flash-flood
// signal independent of the daily total.
func RainIntensityScore(rainPeak float64) float64 {
	switch {
	case rainPeak > 50:
		return 30
	case rainPeak > 30:
		return 20
	case rainPeak > 10:
		return 10
	default:
		return 0
	}
}

// SoilMoistureScore scores topsoil saturation on the 0–1 fractional scale.
// Saturated ground cannot absorb further rainfall.
func SoilMoistureScore(soil float64) float64 {
	switch {
	case soil > 0.6:
		return 25
	case soil > 0.45:
		return 15
	case soil > 0.35:
		return 5
	default:
		return 0
	}
}

// ElevationScore scores terrain height in meters. Coastal and low-lying
// terrain raises risk, highland lowers it. The bands are deliberately
// asymmetric: the curve steps through +30/+15/0/−10/−20, it is not a
// linear slope.
func ElevationScore(meters float64) float64 {
	switch {
	case meters < 5:
		return 30
	case meters < 15:
		return 15
	case meters > 500:
		return -20
	case meters > 100:
		return -10
	default:
		return 0
	}
}

// WindGustScore adds a small contribution for storm-force gusts in km/h.
func WindGustScore(gust float64) float64 {
	if gust > 60 {
		return 10
	}
	return 0
}

// RainComposite summarizes short-horizon rainfall for the live formula.
type RainComposite struct {
	Rain1h     float64   `json:"rain1h"`
	Rain3h     float64   `json:"rain3h"`
	Rain6h     float64   `json:"rain6h"`
	Decayed    float64   `json:"weightedAvg"`
	Score      float64   `json:"rainScore"`
	Raw6hRain  []float64 `json:"raw6hrain"`
}

// decayWeights weight the most recent hours hardest; an hour of rain now
// matters more than the same hour six hours ago.
var decayWeights = [6]float64{3, 2.5, 2, 1.5, 1, 0.8}

// ComputeRainComposite builds the rolling-window rainfall composite from
// the head of the hourly series. Each hour reads the larger of the rain
// and total-precipitation signals, and a missing index reads as zero so
// the sums stay defined with sparse data.
func ComputeRainComposite(h Hourly) RainComposite {
	r := make([]float64, 6)
	for i := range r {
		r[i] = max(At(h.Rain, i), At(h.Precipitation, i))
	}

	rain1h := r[0]
	rain3h := r[0] + r[1] + r[2]
	rain6h := rain3h + r[3] + r[4] + r[5]

	var weighted float64
	for i, w := range decayWeights {
		weighted += r[i] * w
	}
	weighted /= 6

	score := rain1h*2.2 + rain3h*1.2 + rain6h*0.6 + weighted*4

	return RainComposite{
		Rain1h:    rain1h,
		Rain3h:    rain3h,
		Rain6h:    rain6h,
		Decayed:   weighted,
		Score:     score,
		Raw6hRain: r,
	}
}

// stormLookaheadHours bounds the storm-severity window: only imminent
// weather codes matter for a live verdict.
const stormLookaheadHours = 6

// stormScoreCap bounds the total storm contribution so six straight hours
// of thunderstorm codes cannot dominate the blend.
const stormScoreCap = 30

// StormSeverityScore scores WMO weather codes over the lookahead window.
// Each hour is scored independently: ≥95 thunderstorm +15, ≥80 showers +5,
// ≥60 rain +2, ≥50 drizzle +1. A missing hour reads as code 0.
func StormSeverityScore(codes []float64) float64 {
	var score float64
	for i := 0; i < stormLookaheadHours; i++ {
		switch code := At(codes, i); {
		case code >= 95:
			score += 15
		case code >= 80:
			score += 5
		case code >= 60:
			score += 2
		case code >= 50:
			score += 1
		}
	}
	if score > stormScoreCap {
		return stormScoreCap
	}
	return score
}

// HistoricalScore estimates longer-term flood propensity from position
// alone. The bands encode known-prone Jakarta basins; a richer source
// would replace this with a lookup table.
func HistoricalScore(lat, lon float64) float64 {
	score := 5.0
	if lat < -6.1 {
		score += 10
	}
	if lon > 106.75 && lon < 106.9 {
		score += 10
	}
	if lat < -6.05 {
		score += 5
	}
	return score
}

// ReportScore converts a crowd-report count near a point into a step
// score: ≥10 reports 25, ≥5 reports 15, ≥1 report 5.
func ReportScore(count int) float64 {
	switch {
	case count >= 10:
		return 25
	case count >= 5:
		return 15
	case count >= 1:
		return 5
	default:
		return 0
	}
}

// liveElevationScore is the live formula's coarser terrain factor. Unlike
// the batch curve it never goes negative; highland just contributes the
// floor value.
func liveElevationScore(meters float64) float64 {
	switch {
	case meters < 5:
		return 30
	case meters < 15:
		return 15
	default:
		return 5
	}
}

// LiveWeights blend the live factor scores. They are configuration, not
// constants: the formula has been retuned several times and callers pin
// the variant they were calibrated against.
type LiveWeights struct {
	Rain       float64
	Elevation  float64
	Storm      float64
	Historical float64
	Reports    float64
}

// DefaultLiveWeights is the current production blend.
func DefaultLiveWeights() LiveWeights {
	return LiveWeights{
		Rain:       0.5,
		Elevation:  0.25,
		Storm:      1,
		Historical: 0.05,
		Reports:    0.05,
	}
}

// LiveScore combines the rainfall composite with contextual factors. The
// result is unbounded; clamping to 0–100 happens when the verdict is
// built.
func LiveScore(rain RainComposite, elevation float64, storm, historical, reports float64, w LiveWeights) float64 {
	return rain.Score*w.Rain +
		liveElevationScore(elevation)*w.Elevation +
		storm*w.Storm +
		historical*w.Historical +
		reports*w.Reports
}
