package domain

import (
	"math"
	"time"
)

// FeatureVector is the aggregated daily summary for one location. Field
// order matches the column order the external predictor was trained on;
// it is part of the wire contract and must not be reordered.
type FeatureVector struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Elevation    float64 `json:"elevation"`
	TempAvg      float64 `json:"temp_avg"`
	HumidityAvg  float64 `json:"humidity_avg"`
	RainSum24h   float64 `json:"rain_sum_24h"`
	RainPeak1h   float64 `json:"rain_peak_1h"`
	SoilMoisture float64 `json:"soil_moisture_avg"`
	PressureMin  float64 `json:"pressure_min"`
	WindGustMax  float64 `json:"wind_gust_max"`

	GeneratedAt time.Time `json:"-"`
}

// defaultSoilMoisture stands in when the provider omits the topsoil series
// entirely. 0.5 is the midpoint of the fractional scale and matches the
// value the model was trained with for missing data.
const defaultSoilMoisture = 0.5

// BuildFeatureVector aggregates one window of hourly signals into a daily
// feature vector. Aggregation keeps full precision; use Rounded before
// formatting or labeling dataset rows.
func BuildFeatureVector(lat, lon, elevation float64, h Hourly, w Window) FeatureVector {
	soil := h.SoilMoisture
	soilAvg := defaultSoilMoisture
	if len(soil) > 0 {
		soilAvg = Avg(w.Slice(soil))
	}

	return FeatureVector{
		Lat:          lat,
		Lon:          lon,
		Elevation:    elevation,
		TempAvg:      Avg(w.Slice(h.Temperature)),
		HumidityAvg:  Avg(w.Slice(h.Humidity)),
		RainSum24h:   Sum(w.Slice(h.Rain)),
		RainPeak1h:   Max(w.Slice(h.Rain)),
		SoilMoisture: soilAvg,
		PressureMin:  Min(w.Slice(h.SurfacePressure)),
		WindGustMax:  Max(w.Slice(h.WindGusts)),
		GeneratedAt:  clock.Now(),
	}
}

// Rounded returns a copy with every field rounded to its formatting
// precision: temperature 1dp, humidity and pressure 0dp, rainfall 2dp,
// soil moisture 3dp, wind gust 1dp. Dataset rows are emitted from and
// labeled with the rounded copy so every row is self-consistent.
func (f FeatureVector) Rounded() FeatureVector {
	f.TempAvg = roundTo(f.TempAvg, 1)
	f.HumidityAvg = roundTo(f.HumidityAvg, 0)
	f.RainSum24h = roundTo(f.RainSum24h, 2)
	f.RainPeak1h = roundTo(f.RainPeak1h, 2)
	f.SoilMoisture = roundTo(f.SoilMoisture, 3)
	f.PressureMin = roundTo(f.PressureMin, 0)
	f.WindGustMax = roundTo(f.WindGustMax, 1)
	return f
}

func roundTo(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(x*pow) / pow
}
