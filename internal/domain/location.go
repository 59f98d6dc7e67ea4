package domain

import (
	"math"
	"time"
)

// Location is one entry of the user-editable monitoring list. IDs are
// case-normalized to lowercase on load so dataset rows group cleanly.
type Location struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Subscriber is a registered alert recipient. Endpoint is an opaque
// delivery handle owned by whatever notifier is wired in; the engine only
// reads the coordinates.
type Subscriber struct {
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Endpoint string  `json:"endpoint"`
}

// Report is a citizen flood report. Reports within reportRadiusDeg of a
// query point feed the crowd-report factor score.
type Report struct {
	ID      string    `json:"id"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// reportRadiusDeg is the half-width of the report search box in degrees,
// roughly one kilometer at the equator.
const reportRadiusDeg = 0.01

// Near reports whether the report falls inside the search box centered on
// (lat, lon).
func (r Report) Near(lat, lon float64) bool {
	return math.Abs(r.Lat-lat) < reportRadiusDeg && math.Abs(r.Lon-lon) < reportRadiusDeg
}
