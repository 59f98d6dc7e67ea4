package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Jessssswill/AI-flood/internal/adapter/openmeteo"
	"github.com/Jessssswill/AI-flood/internal/domain"
	"github.com/Jessssswill/AI-flood/internal/observability"
)

// HistoryProvider fetches archived hourly weather for a coordinate.
type HistoryProvider interface {
	HistoryForecast(ctx context.Context, lat, lon float64, pastDays int) (openmeteo.Forecast, error)
}

// Row is one labeled training example: a day of aggregated weather for a
// location, plus the heuristic risk label derived from it.
type Row struct {
	LocationID string
	Date       string
	Features   domain.FeatureVector
	Label      domain.RiskLabel
}

// EmitFunc receives rows in order; returning an error aborts the build.
type EmitFunc func(Row) error

// Builder turns a location list into labeled daily rows. Locations are
// processed in input order and each location's days come out
// chronologically. A location whose fetch fails is logged and skipped;
// the build never emits a partial row.
type Builder struct {
	provider HistoryProvider
	pastDays int
	pacing   time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
}

func NewBuilder(provider HistoryProvider, pastDays int, pacing time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{
		provider: provider,
		pastDays: pastDays,
		pacing:   pacing,
		logger:   logger,
		metrics:  metrics,
	}
}

// Build fetches history for every location and emits one row per complete
// day. Trailing hours that do not fill a whole day are dropped.
func (b *Builder) Build(ctx context.Context, locations []domain.Location, emit EmitFunc) error {
	for i, loc := range locations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 && b.pacing > 0 {
			if err := sleepWithContext(ctx, b.pacing); err != nil {
				return err
			}
		}

		rows, err := b.buildLocation(ctx, loc)
		if err != nil {
			b.metrics.DatasetLocations.WithLabelValues("error").Inc()
			b.logger.Warn("skipping location", "location", loc.ID, "error", err)
			continue
		}
		b.metrics.DatasetLocations.WithLabelValues("success").Inc()

		for _, row := range rows {
			if err := emit(row); err != nil {
				return fmt.Errorf("emit row for %s: %w", loc.ID, err)
			}
			b.metrics.DatasetRows.Inc()
		}
		b.logger.Info("location done", "location", loc.ID, "rows", len(rows))
	}
	return nil
}

func (b *Builder) buildLocation(ctx context.Context, loc domain.Location) ([]Row, error) {
	forecast, err := b.provider.HistoryForecast(ctx, loc.Lat, loc.Lon, b.pastDays)
	if err != nil {
		return nil, err
	}

	windows := domain.DailyWindows(len(forecast.Hourly.Time))
	rows := make([]Row, 0, len(windows))
	for _, w := range windows {
		features := domain.BuildFeatureVector(loc.Lat, loc.Lon, forecast.Elevation, forecast.Hourly, w).Rounded()
		score := domain.BatchScore(features)
		rows = append(rows, Row{
			LocationID: loc.ID,
			Date:       dateOf(forecast.Hourly.Time[w.Start]),
			Features:   features,
			Label:      domain.BatchBands().Classify(score),
		})
	}
	return rows, nil
}

// dateOf trims an ISO8601 hour stamp ("2026-02-10T13:00") to its date.
func dateOf(stamp string) string {
	if idx := strings.IndexByte(stamp, 'T'); idx >= 0 {
		return stamp[:idx]
	}
	return stamp
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
