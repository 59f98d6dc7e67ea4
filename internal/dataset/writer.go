package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"location_id", "date", "lat", "lon", "elevation",
	"temp_avg", "humidity_avg", "rain_sum_24h", "rain_peak_1h",
	"soil_moisture_avg", "pressure_min", "wind_gust_max", "risk_label",
}

// CSVWriter streams rows to w in the training-set column layout. Columns
// mirror the feature vector order with location and date prefixed and the
// label appended.
type CSVWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (c *CSVWriter) Write(row Row) error {
	if !c.wroteHeader {
		if err := c.w.Write(csvHeader); err != nil {
			return err
		}
		c.wroteHeader = true
	}
	f := row.Features
	record := []string{
		row.LocationID,
		row.Date,
		formatFloat(f.Lat, -1),
		formatFloat(f.Lon, -1),
		formatFloat(f.Elevation, -1),
		formatFloat(f.TempAvg, 1),
		formatFloat(f.HumidityAvg, 0),
		formatFloat(f.RainSum24h, 2),
		formatFloat(f.RainPeak1h, 2),
		formatFloat(f.SoilMoisture, 3),
		formatFloat(f.PressureMin, 0),
		formatFloat(f.WindGustMax, 1),
		string(row.Label),
	}
	return c.w.Write(record)
}

// Flush writes buffered rows through and reports any deferred write error.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

func formatFloat(x float64, precision int) string {
	return strconv.FormatFloat(x, 'f', precision, 64)
}
