// Command validate checks the integrity of a generated dataset CSV. It
// re-derives the risk label for every row from the row's own feature
// columns and reports mismatches, malformed dates, out-of-range values,
// and duplicate (location, date) pairs.
//
// Usage:
//
//	go run ./cmd/validate -dataset dataset.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Jessssswill/AI-flood/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var expectedHeader = []string{
	"location_id", "date", "lat", "lon", "elevation",
	"temp_avg", "humidity_avg", "rain_sum_24h", "rain_peak_1h",
	"soil_moisture_avg", "pressure_min", "wind_gust_max", "risk_label",
}

func main() {
	datasetPath := flag.String("dataset", "dataset.csv", "path to the dataset CSV to validate")
	flag.Parse()

	os.Exit(run(*datasetPath))
}

func run(path string) int {
	rows, err := readRows(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateHeader(rows),
		validateFields(rows),
		validateLabels(rows),
		validateUniqueness(rows),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s (%d errors)\n", p.name, len(p.errors))
		for _, e := range p.errors {
			fmt.Printf("      %s\n", e)
		}
	}

	fmt.Printf("\n%d rows, %d/%d phases passed\n", max(len(rows)-1, 0), len(phases)-failed, len(phases))
	if failed > 0 {
		return 1
	}
	return 0
}

func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	return rows, nil
}

func validateHeader(rows [][]string) *phase {
	p := &phase{name: "header"}
	header := rows[0]
	if len(header) != len(expectedHeader) {
		p.errorf("expected %d columns, got %d", len(expectedHeader), len(header))
		return p
	}
	for i, want := range expectedHeader {
		if header[i] != want {
			p.errorf("column %d: expected %q, got %q", i, want, header[i])
		}
	}
	return p
}

func validateFields(rows [][]string) *phase {
	p := &phase{name: "field ranges"}
	for i, row := range rows[1:] {
		line := i + 2
		f, err := parseFeatures(row)
		if err != nil {
			p.errorf("line %d: %v", line, err)
			continue
		}
		if row[0] == "" {
			p.errorf("line %d: empty location_id", line)
		}
		if _, err := time.Parse("2006-01-02", row[1]); err != nil {
			p.errorf("line %d: bad date %q", line, row[1])
		}
		if f.Lat < -90 || f.Lat > 90 || f.Lon < -180 || f.Lon > 180 {
			p.errorf("line %d: coordinates out of range (%g, %g)", line, f.Lat, f.Lon)
		}
		if f.RainSum24h < 0 || f.RainPeak1h < 0 {
			p.errorf("line %d: negative rainfall", line)
		}
		if f.RainPeak1h > f.RainSum24h {
			p.errorf("line %d: hourly peak %g exceeds daily sum %g", line, f.RainPeak1h, f.RainSum24h)
		}
		if f.SoilMoisture < 0 || f.SoilMoisture > 1 {
			p.errorf("line %d: soil moisture %g outside [0,1]", line, f.SoilMoisture)
		}
		if f.HumidityAvg < 0 || f.HumidityAvg > 100 {
			p.errorf("line %d: humidity %g outside [0,100]", line, f.HumidityAvg)
		}
	}
	return p
}

// validateLabels recomputes each row's label from its own feature columns.
func validateLabels(rows [][]string) *phase {
	p := &phase{name: "label consistency"}
	for i, row := range rows[1:] {
		line := i + 2
		f, err := parseFeatures(row)
		if err != nil {
			continue // reported by the field phase
		}
		got := domain.RiskLabel(row[12])
		want := domain.BatchBands().Classify(domain.BatchScore(f))
		if got != want {
			p.errorf("line %d: label %s, features score to %s", line, got, want)
		}
	}
	return p
}

func validateUniqueness(rows [][]string) *phase {
	p := &phase{name: "row uniqueness"}
	seen := map[string]int{}
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) < 2 {
			continue
		}
		key := row[0] + "|" + row[1]
		if prev, dup := seen[key]; dup {
			p.errorf("line %d: duplicate of line %d (%s %s)", line, prev, row[0], row[1])
			continue
		}
		seen[key] = line
	}
	return p
}

func parseFeatures(row []string) (domain.FeatureVector, error) {
	if len(row) != len(expectedHeader) {
		return domain.FeatureVector{}, fmt.Errorf("expected %d fields, got %d", len(expectedHeader), len(row))
	}
	vals := make([]float64, 10)
	for i := 0; i < 10; i++ {
		v, err := strconv.ParseFloat(row[i+2], 64)
		if err != nil {
			return domain.FeatureVector{}, fmt.Errorf("column %s: %w", expectedHeader[i+2], err)
		}
		vals[i] = v
	}
	return domain.FeatureVector{
		Lat:          vals[0],
		Lon:          vals[1],
		Elevation:    vals[2],
		TempAvg:      vals[3],
		HumidityAvg:  vals[4],
		RainSum24h:   vals[5],
		RainPeak1h:   vals[6],
		SoilMoisture: vals[7],
		PressureMin:  vals[8],
		WindGustMax:  vals[9],
	}, nil
}
