package risk

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jessssswill/AI-flood/internal/adapter/openmeteo"
	"github.com/Jessssswill/AI-flood/internal/domain"
)

type mockProvider struct {
	forecast  openmeteo.Forecast
	err       error
	elevation float64
}

func (m *mockProvider) LiveForecast(context.Context, float64, float64, int) (openmeteo.Forecast, error) {
	return m.forecast, m.err
}

func (m *mockProvider) Elevation(context.Context, float64, float64) float64 {
	return m.elevation
}

type mockPredictor struct {
	verdict domain.RiskVerdict
	called  bool
	gotLat  float64
}

func (m *mockPredictor) Predict(_ context.Context, f domain.FeatureVector) domain.RiskVerdict {
	m.called = true
	m.gotLat = f.Lat
	return m.verdict
}

type fixedReports int

func (f fixedReports) CountNear(float64, float64) int { return int(f) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stormForecast() openmeteo.Forecast {
	n := 24
	h := domain.Hourly{
		Time:          make([]string, n),
		Rain:          make([]float64, n),
		Precipitation: make([]float64, n),
		WeatherCode:   make([]float64, n),
	}
	for i := 0; i < 6; i++ {
		h.Rain[i] = 40
		h.WeatherCode[i] = 95
	}
	return openmeteo.Forecast{Elevation: 2, Hourly: h}
}

func TestAssess_HeuristicPath(t *testing.T) {
	provider := &mockProvider{forecast: stormForecast(), elevation: 2}
	svc := NewService(provider, nil, fixedReports(12), 1, discardLogger())

	got, err := svc.Assess(context.Background(), -6.2, 106.8166)
	require.NoError(t, err)

	// Heavy sustained rain on low coastal terrain with thunderstorm codes
	// and many nearby reports: the blend must land in the danger band and
	// clamp at 100.
	assert.Equal(t, string(domain.LabelBahaya), got.Verdict.Status)
	assert.Equal(t, 100, got.Verdict.Score)
	assert.Equal(t, 2.0, got.Elevation)
	assert.Equal(t, 40.0, got.Rain.Rain1h)
	assert.Equal(t, 120.0, got.Rain.Rain3h)
	assert.Equal(t, 240.0, got.Rain.Rain6h)
}

func TestAssess_CalmConditionsAreSafe(t *testing.T) {
	provider := &mockProvider{
		forecast: openmeteo.Forecast{Hourly: domain.Hourly{
			Time: make([]string, 24),
			Rain: make([]float64, 24),
		}},
		elevation: 300,
	}
	svc := NewService(provider, nil, fixedReports(0), 1, discardLogger())

	got, err := svc.Assess(context.Background(), -6.0, 107.2)
	require.NoError(t, err)

	assert.Equal(t, string(domain.LabelAman), got.Verdict.Status)
}

func TestAssess_PredictorPath(t *testing.T) {
	provider := &mockProvider{forecast: stormForecast(), elevation: 2}
	pred := &mockPredictor{verdict: domain.RiskVerdict{Status: "SIAGA", Score: 75, Color: "orange"}}
	svc := NewService(provider, pred, fixedReports(0), 1, discardLogger())

	got, err := svc.Assess(context.Background(), -6.2, 106.8166)
	require.NoError(t, err)

	assert.True(t, pred.called)
	assert.Equal(t, -6.2, pred.gotLat)
	assert.Equal(t, 75, got.Verdict.Score)
	assert.Equal(t, "SIAGA", got.Verdict.Status)
}

func TestAssess_SentinelVerdictIsNotAnError(t *testing.T) {
	provider := &mockProvider{forecast: stormForecast(), elevation: 2}
	pred := &mockPredictor{verdict: domain.SystemErrorVerdict()}
	svc := NewService(provider, pred, fixedReports(0), 1, discardLogger())

	got, err := svc.Assess(context.Background(), -6.2, 106.8166)
	require.NoError(t, err)
	assert.True(t, got.Verdict.IsSentinel())
}

func TestAssess_ProviderFailure(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}
	svc := NewService(provider, nil, fixedReports(0), 1, discardLogger())

	_, err := svc.Assess(context.Background(), -6.2, 106.8166)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
