package domain

// Hourly mirrors the hourly block of the Open-Meteo forecast response:
// parallel arrays of samples aligned to a shared time axis. Slices may be
// nil when a signal was not requested.
type Hourly struct {
	Time            []string  `json:"time"`
	Temperature     []float64 `json:"temperature_2m"`
	Humidity        []float64 `json:"relative_humidity_2m"`
	Rain            []float64 `json:"rain"`
	Precipitation   []float64 `json:"precipitation"`
	SurfacePressure []float64 `json:"surface_pressure"`
	WindGusts       []float64 `json:"wind_gusts_10m"`
	SoilMoisture    []float64 `json:"soil_moisture_0_to_1cm"`
	WeatherCode     []float64 `json:"weathercode"`
}

// Avg returns the arithmetic mean of xs, or 0 for an empty slice.
func Avg(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return Sum(xs) / float64(len(xs))
}

// Sum returns the total of xs.
func Sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

// Max returns the largest value in xs, or 0 for an empty slice.
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Min returns the smallest value in xs, or 0 for an empty slice.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// At reads index i of xs, treating a missing index as 0. Rolling rain
// windows use this so accumulation sums stay defined when the series is
// shorter than the window.
func At(xs []float64, i int) float64 {
	if i < 0 || i >= len(xs) {
		return 0
	}
	return xs[i]
}

// Window is a contiguous index range [Start, Start+Length) into an hourly
// series. Daily chunking uses 24-sample windows.
type Window struct {
	Start  int
	Length int
}

// DailyWindows chunks a series of totalHours samples into non-overlapping
// 24-hour windows. A trailing partial day is dropped so every window
// aggregates exactly one full day.
func DailyWindows(totalHours int) []Window {
	var windows []Window
	for start := 0; start+24 <= totalHours; start += 24 {
		windows = append(windows, Window{Start: start, Length: 24})
	}
	return windows
}

// Slice applies the window to a signal series. Windows that overrun the
// series return nil; DailyWindows never produces those, but callers
// chunking by hand get a safe no-op instead of a panic.
func (w Window) Slice(xs []float64) []float64 {
	if w.Start < 0 || w.Length <= 0 || w.Start+w.Length > len(xs) {
		return nil
	}
	return xs[w.Start : w.Start+w.Length]
}
