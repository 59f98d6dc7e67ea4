// Package risk composes the live risk computation: fetch signals,
// aggregate, score with either the external predictor or the heuristic
// formula, classify.
package risk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jessssswill/AI-flood/internal/adapter/openmeteo"
	"github.com/Jessssswill/AI-flood/internal/domain"
)

// WeatherProvider supplies hourly signals and terrain height for a point.
type WeatherProvider interface {
	LiveForecast(ctx context.Context, lat, lon float64, forecastDays int) (openmeteo.Forecast, error)
	Elevation(ctx context.Context, lat, lon float64) float64
}

// Predictor produces a verdict from a daily feature vector. Implemented
// by the external-process bridge.
type Predictor interface {
	Predict(ctx context.Context, f domain.FeatureVector) domain.RiskVerdict
}

// ReportCounter counts crowd reports near a point.
type ReportCounter interface {
	CountNear(lat, lon float64) int
}

// Assessment is one complete live risk computation for a point.
type Assessment struct {
	Verdict   domain.RiskVerdict
	Rain      domain.RainComposite
	Elevation float64
	Forecast  openmeteo.Forecast
}

// Service runs live risk computations. When a Predictor is wired it takes
// the external-predictor path; otherwise the heuristic live formula is
// used. Both paths share the same aggregation.
type Service struct {
	provider     WeatherProvider
	predictor    Predictor // nil selects the heuristic path
	reports      ReportCounter
	weights      domain.LiveWeights
	bands        domain.Bands
	forecastDays int
	logger       *slog.Logger
}

// NewService creates a risk service. predictor may be nil.
func NewService(provider WeatherProvider, predictor Predictor, reports ReportCounter, forecastDays int, logger *slog.Logger) *Service {
	return &Service{
		provider:     provider,
		predictor:    predictor,
		reports:      reports,
		weights:      domain.DefaultLiveWeights(),
		bands:        domain.LiveBands(),
		forecastDays: forecastDays,
		logger:       logger,
	}
}

// Assess computes the flood risk for a point. The only error it can
// return is an unavailable weather provider: elevation failure degrades
// to the fallback inside the provider, and predictor failure degrades to
// a sentinel verdict.
func (s *Service) Assess(ctx context.Context, lat, lon float64) (Assessment, error) {
	fc, err := s.provider.LiveForecast(ctx, lat, lon, s.forecastDays)
	if err != nil {
		return Assessment{}, fmt.Errorf("assess %.4f,%.4f: %w", lat, lon, err)
	}

	elevation := s.provider.Elevation(ctx, lat, lon)
	rain := domain.ComputeRainComposite(fc.Hourly)

	assessment := Assessment{
		Rain:      rain,
		Elevation: elevation,
		Forecast:  fc,
	}

	if s.predictor != nil {
		window := domain.Window{Start: 0, Length: len(fc.Hourly.Time)}
		features := domain.BuildFeatureVector(lat, lon, elevation, fc.Hourly, window)
		assessment.Verdict = s.predictor.Predict(ctx, features)
		return assessment, nil
	}

	storm := domain.StormSeverityScore(fc.Hourly.WeatherCode)
	historical := domain.HistoricalScore(lat, lon)
	reports := domain.ReportScore(s.reports.CountNear(lat, lon))

	score := domain.LiveScore(rain, elevation, storm, historical, reports, s.weights)
	assessment.Verdict = domain.NewVerdict(score, s.bands)

	s.logger.Debug("heuristic risk computed",
		"lat", lat, "lon", lon,
		"rain_score", rain.Score,
		"storm_score", storm,
		"historical_score", historical,
		"report_score", reports,
		"final", assessment.Verdict.Score,
		"status", assessment.Verdict.Status,
	)
	return assessment, nil
}
