package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Jessssswill/AI-flood/internal/domain"
)

// defaultLocations seed a fresh install: the Jabodetakbek basin plus two
// contrast points (highland Puncak, coastal Pantai Indah Kapuk) so a
// generated dataset spans all four risk bands.
var defaultLocations = []domain.Location{
	{ID: "jakarta", Lat: -6.2000, Lon: 106.8166},
	{ID: "bogor", Lat: -6.5971, Lon: 106.8060},
	{ID: "depok", Lat: -6.4025, Lon: 106.7942},
	{ID: "tangerang", Lat: -6.1731, Lon: 106.6300},
	{ID: "bekasi", Lat: -6.2383, Lon: 106.9756},
	{ID: "puncak", Lat: -6.7024, Lon: 106.9953},
	{ID: "pantai_indah_kapuk", Lat: -6.1165, Lon: 106.7513},
}

// LoadLocations reads the monitoring list from a CSV file with header
// `id,lat,lon`. IDs are lowercased. A missing file is created with the
// default list first, so a fresh checkout generates a usable dataset
// without setup.
func LoadLocations(path string) ([]domain.Location, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefaultLocations(path); err != nil {
			return nil, fmt.Errorf("create default locations: %w", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open locations: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}

	var locations []domain.Location
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 3 {
			continue
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		locations = append(locations, domain.Location{
			ID:  strings.ToLower(strings.TrimSpace(row[0])),
			Lat: lat,
			Lon: lon,
		})
	}
	return locations, nil
}

func writeDefaultLocations(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "lat", "lon"}); err != nil {
		return err
	}
	for _, loc := range defaultLocations {
		record := []string{
			loc.ID,
			strconv.FormatFloat(loc.Lat, 'f', 4, 64),
			strconv.FormatFloat(loc.Lon, 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
