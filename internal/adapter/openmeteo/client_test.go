package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jessssswill/AI-flood/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/v1", 2*time.Second, discardLogger(), observability.NewMetricsForTesting())
}

func TestLiveForecast(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/forecast", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Write([]byte(`{
			"elevation": 8.5,
			"hourly": {
				"time": ["2026-02-10T00:00", "2026-02-10T01:00"],
				"rain": [1.2, 0.4],
				"precipitation": [1.5, 0.4],
				"temperature_2m": [27.1, 26.8],
				"weathercode": [61, 51]
			}
		}`))
	})

	fc, err := client.LiveForecast(context.Background(), -6.2, 106.8166, 1)
	require.NoError(t, err)

	assert.Equal(t, 8.5, fc.Elevation)
	assert.Equal(t, []float64{1.2, 0.4}, fc.Hourly.Rain)
	assert.Equal(t, []float64{1.5, 0.4}, fc.Hourly.Precipitation)
	assert.Equal(t, []float64{61, 51}, fc.Hourly.WeatherCode)

	assert.Equal(t, "-6.2", gotQuery["latitude"][0])
	assert.Equal(t, "106.8166", gotQuery["longitude"][0])
	assert.Equal(t, "1", gotQuery["forecast_days"][0])
	assert.Contains(t, gotQuery["hourly"][0], "soil_moisture_0_to_1cm")
}

func TestHistoryForecast_RequestsPastDays(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "30", r.URL.Query().Get("past_days"))
		assert.Equal(t, "1", r.URL.Query().Get("forecast_days"))
		w.Write([]byte(`{"elevation": 44, "hourly": {"time": [], "rain": []}}`))
	})

	fc, err := client.HistoryForecast(context.Background(), -6.5971, 106.806, 30)
	require.NoError(t, err)
	assert.Equal(t, 44.0, fc.Elevation)
}

func TestFetchForecast_ProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.LiveForecast(context.Background(), -6.2, 106.8, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestElevation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/elevation", r.URL.Path)
		w.Write([]byte(`{"elevation": [123.4]}`))
	})

	assert.Equal(t, 123.4, client.Elevation(context.Background(), -6.7, 107.0))
}

func TestElevation_FallsBackOnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	assert.Equal(t, FallbackElevation, client.Elevation(context.Background(), -6.2, 106.8))
}

func TestElevation_FallsBackOnEmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elevation": []}`))
	})

	assert.Equal(t, FallbackElevation, client.Elevation(context.Background(), -6.2, 106.8))
}
