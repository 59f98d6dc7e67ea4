package predictor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jessssswill/AI-flood/internal/domain"
	"github.com/Jessssswill/AI-flood/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeScript drops a shell script standing in for the Python predictor.
// The bridge only cares about the process contract: argv in, JSON on
// stdout, exit code.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predict.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newBridge(t *testing.T, script string, timeout time.Duration) *Bridge {
	t.Helper()
	return NewBridge("/bin/sh", script, timeout, discardLogger(), observability.NewMetricsForTesting())
}

func sampleFeatures() domain.FeatureVector {
	return domain.FeatureVector{
		Lat:          -6.2,
		Lon:          106.8166,
		Elevation:    8,
		TempAvg:      27.5,
		HumidityAvg:  85,
		RainSum24h:   120.5,
		RainPeak1h:   32.1,
		SoilMoisture: 0.48,
		PressureMin:  1003,
		WindGustMax:  55.2,
	}
}

func TestPredict_ValidResponsePassesThrough(t *testing.T) {
	script := writeScript(t, `echo '{"status":"BAHAYA","finalRisk":95,"color":"red","confidence":88.5}'`)
	bridge := newBridge(t, script, 5*time.Second)

	v := bridge.Predict(context.Background(), sampleFeatures())

	assert.Equal(t, "BAHAYA", v.Status)
	assert.Equal(t, 95, v.Score)
	assert.Equal(t, "red", v.Color)
	assert.Equal(t, 88.5, v.Confidence)
	assert.False(t, v.IsSentinel())
}

func TestPredict_NonZeroExitIsSystemError(t *testing.T) {
	script := writeScript(t, `echo "model file missing" >&2; exit 1`)
	bridge := newBridge(t, script, 5*time.Second)

	v := bridge.Predict(context.Background(), sampleFeatures())

	assert.Equal(t, domain.StatusSystemError, v.Status)
	assert.Equal(t, 0, v.Score)
}

func TestPredict_GarbageOutputIsJSONError(t *testing.T) {
	script := writeScript(t, `echo "Traceback (most recent call last):"`)
	bridge := newBridge(t, script, 5*time.Second)

	v := bridge.Predict(context.Background(), sampleFeatures())

	assert.Equal(t, domain.StatusJSONError, v.Status)
	assert.Equal(t, 0, v.Score)
}

func TestPredict_JSONWithoutStatusIsJSONError(t *testing.T) {
	// A clean exit reporting an internal error must not pass as a verdict.
	script := writeScript(t, `echo '{"error":"model not trained"}'`)
	bridge := newBridge(t, script, 5*time.Second)

	v := bridge.Predict(context.Background(), sampleFeatures())

	assert.Equal(t, domain.StatusJSONError, v.Status)
}

func TestPredict_ReceivesFeatureJSONAsArgv(t *testing.T) {
	// Capture the argv payload through a side file, then check the
	// serialized contract byte for byte.
	dir := t.TempDir()
	argFile := filepath.Join(dir, "argv.json")
	script := writeScript(t, `printf '%s' "$1" > `+argFile+`; echo '{"status":"AMAN","finalRisk":10}'`)
	bridge := newBridge(t, script, 5*time.Second)

	v := bridge.Predict(context.Background(), sampleFeatures())
	require.Equal(t, "AMAN", v.Status)

	raw, err := os.ReadFile(argFile)
	require.NoError(t, err)

	// Field order is part of the predictor contract.
	assert.Equal(t,
		`{"lat":-6.2,"lon":106.8166,"elevation":8,"temp_avg":27.5,"humidity_avg":85,`+
			`"rain_sum_24h":120.5,"rain_peak_1h":32.1,"soil_moisture_avg":0.48,`+
			`"pressure_min":1003,"wind_gust_max":55.2}`,
		string(raw),
	)
}

func TestPredict_HangingProcessTimesOut(t *testing.T) {
	script := writeScript(t, `sleep 30`)
	bridge := newBridge(t, script, 200*time.Millisecond)

	start := time.Now()
	v := bridge.Predict(context.Background(), sampleFeatures())

	assert.Equal(t, domain.StatusSystemError, v.Status)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPredict_MissingInterpreterIsSystemError(t *testing.T) {
	bridge := NewBridge("/nonexistent/python", "predict.py", time.Second,
		discardLogger(), observability.NewMetricsForTesting())

	v := bridge.Predict(context.Background(), sampleFeatures())

	assert.Equal(t, domain.StatusSystemError, v.Status)
}
