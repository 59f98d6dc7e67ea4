package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jessssswill/AI-flood/internal/adapter/httpapi"
	"github.com/Jessssswill/AI-flood/internal/adapter/openmeteo"
	"github.com/Jessssswill/AI-flood/internal/domain"
	"github.com/Jessssswill/AI-flood/internal/observability"
	"github.com/Jessssswill/AI-flood/internal/risk"
	"github.com/Jessssswill/AI-flood/internal/store"
)

type mockAssessor struct {
	assessment risk.Assessment
	err        error
	lastLat    float64
	lastLon    float64
}

func (m *mockAssessor) Assess(_ context.Context, lat, lon float64) (risk.Assessment, error) {
	m.lastLat, m.lastLon = lat, lon
	if m.err != nil {
		return risk.Assessment{}, m.err
	}
	return m.assessment, nil
}

type mockResolver struct{}

func (mockResolver) LocationName(_ context.Context, lat, lon float64) string {
	return fmt.Sprintf("Lokasi: %.4f, %.4f", lat, lon)
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type testDeps struct {
	assessor    *mockAssessor
	subscribers *store.Subscribers
	reports     *store.Reports
	readiness   *mockReadiness
}

func newTestServer(t *testing.T) (*httpapi.Server, *testDeps) {
	t.Helper()
	deps := &testDeps{
		assessor: &mockAssessor{
			assessment: risk.Assessment{
				Verdict:   domain.RiskVerdict{Status: "SIAGA", Score: 65, Color: "orange"},
				Rain:      domain.RainComposite{Rain1h: 4, Rain3h: 9, Rain6h: 14, Raw6hRain: []float64{4, 3, 2, 2, 2, 1}},
				Elevation: 8,
				Forecast: openmeteo.Forecast{
					Elevation: 8,
					Hourly: domain.Hourly{
						Time:        []string{"2026-02-10T13:00"},
						Temperature: []float64{27.5},
						Humidity:    []float64{88},
						Rain:        []float64{4},
						WeatherCode: []float64{61},
					},
				},
			},
		},
		subscribers: store.NewSubscribers(),
		reports:     store.NewReports(nil),
		readiness:   &mockReadiness{err: errors.New("warming up")},
	}
	srv := httpapi.NewServer(":0",
		deps.assessor, mockResolver{}, deps.subscribers, deps.reports, deps.readiness,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting(),
	)
	return srv, deps
}

func do(srv *httpapi.Server, method, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, reader)
	srv.ServeHTTP(rec, req)
	return rec
}

func TestRiskReturnsAssessment(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := do(srv, http.MethodGet, "/risk?lat=-6.2&lon=106.8166", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		LocationName string               `json:"locationName"`
		Final        domain.RiskVerdict   `json:"final"`
		Rain         domain.RainComposite `json:"rain"`
		Elevation    float64              `json:"elevation"`
		Current      struct {
			Temperature float64 `json:"temperature"`
			WeatherCode float64 `json:"weathercode"`
		} `json:"currentWeather"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "Lokasi: -6.2000, 106.8166", body.LocationName)
	assert.Equal(t, "SIAGA", body.Final.Status)
	assert.Equal(t, 65, body.Final.Score)
	assert.Equal(t, 14.0, body.Rain.Rain6h)
	assert.Equal(t, 8.0, body.Elevation)
	assert.Equal(t, 27.5, body.Current.Temperature)
	assert.Equal(t, 61.0, body.Current.WeatherCode)
	assert.Equal(t, -6.2, deps.assessor.lastLat)
}

func TestRiskRejectsBadCoordinates(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, target := range []string{"/risk", "/risk?lat=abc&lon=106.8", "/risk?lat=-6.2"} {
		rec := do(srv, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestRiskUpstreamFailureReturns502(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.assessor.err = errors.New("open-meteo unreachable")

	rec := do(srv, http.MethodGet, "/risk?lat=-6.2&lon=106.8", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSubscribeStoresAndReturns201(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := do(srv, http.MethodPost, "/subscribe",
		`{"lat":-6.2,"lon":106.8166,"endpoint":"https://push.example/abc"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sub domain.Subscriber
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, -6.2, sub.Lat)
	assert.Equal(t, 1, deps.subscribers.Len())
}

func TestSubscribeRequiresCoordinates(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := do(srv, http.MethodPost, "/subscribe", `{"endpoint":"https://push.example/abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, deps.subscribers.Len())
}

func TestReportCountsTotals(t *testing.T) {
	srv, _ := newTestServer(t)

	for i := 1; i <= 3; i++ {
		rec := do(srv, http.MethodPost, "/report",
			`{"lat":-6.2,"lon":106.8,"message":"banjir setinggi lutut"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success      bool `json:"success"`
			TotalReports int  `json:"totalReports"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, i, body.TotalReports)
	}
}

func TestReadyzFollowsWatcherUntilFirstRiskQuery(t *testing.T) {
	srv, deps := newTestServer(t)

	rec := do(srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	deps.readiness.err = nil
	rec = do(srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// A served risk query makes readiness stick even if the checker
	// regresses.
	deps.readiness.err = errors.New("cycle overdue")
	require.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/risk?lat=-6.2&lon=106.8", "").Code)
	rec = do(srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}
