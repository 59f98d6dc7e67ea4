package geocode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Jessssswill/AI-flood/internal/observability"
)

type stubResolver struct {
	name  string
	calls int
}

func (s *stubResolver) LocationName(_ context.Context, lat, lon float64) string {
	s.calls++
	if s.name == "" {
		return fallbackName(lat, lon)
	}
	return s.name
}

func TestCachedResolver_CachesByCoordinate(t *testing.T) {
	inner := &stubResolver{name: "Jakarta Utara"}
	cached := NewCachedResolver(inner, 10, observability.NewMetricsForTesting())

	ctx := context.Background()
	assert.Equal(t, "Jakarta Utara", cached.LocationName(ctx, -6.1754, 106.8272))
	assert.Equal(t, "Jakarta Utara", cached.LocationName(ctx, -6.1754, 106.8272))
	assert.Equal(t, 1, inner.calls)

	// A different point misses.
	cached.LocationName(ctx, -6.5971, 106.806)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedResolver_DoesNotCacheFallback(t *testing.T) {
	inner := &stubResolver{} // always returns the fallback string
	cached := NewCachedResolver(inner, 10, observability.NewMetricsForTesting())

	ctx := context.Background()
	cached.LocationName(ctx, -6.2, 106.8)
	cached.LocationName(ctx, -6.2, 106.8)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedResolver_EvictsLeastRecentlyUsed(t *testing.T) {
	inner := &stubResolver{name: "Bogor"}
	cached := NewCachedResolver(inner, 2, observability.NewMetricsForTesting())

	ctx := context.Background()
	cached.LocationName(ctx, 1, 1)
	cached.LocationName(ctx, 2, 2)
	cached.LocationName(ctx, 3, 3) // evicts (1,1)
	assert.Equal(t, 3, inner.calls)

	cached.LocationName(ctx, 1, 1)
	assert.Equal(t, 4, inner.calls)

	// (3,3) is still cached.
	cached.LocationName(ctx, 3, 3)
	assert.Equal(t, 4, inner.calls)
}

func TestClient_LocationName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/reverse-geocode-client", r.URL.Path)
		assert.Equal(t, "id", r.URL.Query().Get("localityLanguage"))
		fmt.Fprint(w, `{"locality": "Menteng", "city": "Jakarta Pusat"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, discardLogger())
	assert.Equal(t, "Menteng", client.LocationName(context.Background(), -6.1954, 106.8372))
}

func TestClient_LocationName_CityFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"locality": "", "city": "Depok"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, discardLogger())
	assert.Equal(t, "Depok", client.LocationName(context.Background(), -6.4025, 106.7942))
}

func TestClient_LocationName_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, discardLogger())
	assert.Equal(t, "Lokasi: -6.2000, 106.8000", client.LocationName(context.Background(), -6.2, 106.8))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
