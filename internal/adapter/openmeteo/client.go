// Package openmeteo implements the weather and elevation provider clients
// against the Open-Meteo HTTP APIs.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Jessssswill/AI-flood/internal/domain"
	"github.com/Jessssswill/AI-flood/internal/observability"
)

// FallbackElevation substitutes for a failed elevation lookup. Low but
// plausible terrain; a provider outage must never abort a risk
// computation.
const FallbackElevation = 10.0

// liveSignals are the hourly series the live risk path needs.
const liveSignals = "rain,precipitation,temperature_2m,relative_humidity_2m," +
	"surface_pressure,wind_gusts_10m,soil_moisture_0_to_1cm,weathercode"

// datasetSignals are the hourly series the dataset generator needs.
const datasetSignals = "temperature_2m,relative_humidity_2m,rain," +
	"surface_pressure,wind_gusts_10m,soil_moisture_0_to_1cm"

// Forecast is the subset of the provider response the engine consumes:
// hourly arrays keyed by signal name plus the scalar grid elevation.
type Forecast struct {
	Elevation float64       `json:"elevation"`
	Hourly    domain.Hourly `json:"hourly"`
}

// Client calls the Open-Meteo forecast and elevation APIs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Open-Meteo client. baseURL is the API root without
// a trailing slash, e.g. "https://api.open-meteo.com/v1".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// LiveForecast fetches the short-horizon hourly series for a live risk
// computation.
func (c *Client) LiveForecast(ctx context.Context, lat, lon float64, forecastDays int) (Forecast, error) {
	params := url.Values{
		"latitude":      {formatCoord(lat)},
		"longitude":     {formatCoord(lon)},
		"hourly":        {liveSignals},
		"forecast_days": {strconv.Itoa(forecastDays)},
		"timezone":      {"auto"},
	}
	return c.fetchForecast(ctx, params)
}

// HistoryForecast fetches pastDays of hourly series plus one forecast day,
// the input window for dataset generation.
func (c *Client) HistoryForecast(ctx context.Context, lat, lon float64, pastDays int) (Forecast, error) {
	params := url.Values{
		"latitude":      {formatCoord(lat)},
		"longitude":     {formatCoord(lon)},
		"hourly":        {datasetSignals},
		"past_days":     {strconv.Itoa(pastDays)},
		"forecast_days": {"1"},
		"timezone":      {"auto"},
	}
	return c.fetchForecast(ctx, params)
}

func (c *Client) fetchForecast(ctx context.Context, params url.Values) (Forecast, error) {
	start := time.Now()
	body, err := c.get(ctx, c.baseURL+"/forecast?"+params.Encode())
	c.metrics.ProviderDuration.WithLabelValues("forecast").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("forecast", "error").Inc()
		return Forecast{}, fmt.Errorf("fetch forecast: %w", err)
	}

	var fc Forecast
	if err := json.Unmarshal(body, &fc); err != nil {
		c.metrics.ProviderRequests.WithLabelValues("forecast", "error").Inc()
		return Forecast{}, fmt.Errorf("decode forecast: %w", err)
	}

	c.metrics.ProviderRequests.WithLabelValues("forecast", "success").Inc()
	return fc, nil
}

// Elevation resolves terrain height for a point. Any failure degrades to
// FallbackElevation rather than propagating; the engine treats elevation
// as best-effort context, not a hard dependency.
func (c *Client) Elevation(ctx context.Context, lat, lon float64) float64 {
	params := url.Values{
		"latitude":  {formatCoord(lat)},
		"longitude": {formatCoord(lon)},
	}

	start := time.Now()
	body, err := c.get(ctx, c.baseURL+"/elevation?"+params.Encode())
	c.metrics.ProviderDuration.WithLabelValues("elevation").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("elevation", "error").Inc()
		c.logger.Warn("elevation lookup failed, using fallback",
			"lat", lat, "lon", lon, "fallback_m", FallbackElevation, "error", err)
		return FallbackElevation
	}

	var resp struct {
		Elevation []float64 `json:"elevation"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Elevation) == 0 {
		c.metrics.ProviderRequests.WithLabelValues("elevation", "error").Inc()
		c.logger.Warn("elevation response unusable, using fallback",
			"lat", lat, "lon", lon, "fallback_m", FallbackElevation)
		return FallbackElevation
	}

	c.metrics.ProviderRequests.WithLabelValues("elevation", "success").Inc()
	return resp.Elevation[0]
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider API error: status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
