package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream weather/elevation provider.
	WeatherBaseURL  string
	WeatherTimeout  time.Duration
	ForecastDays    int

	// Reverse geocoding for display names.
	GeocodeBaseURL   string
	GeocodeTimeout   time.Duration
	GeocodeCacheSize int

	// External predictor subprocess.
	PredictorEnabled bool
	PredictorCommand string
	PredictorScript  string
	PredictorTimeout time.Duration

	// Background risk watch.
	WatchInterval   time.Duration
	NotifyThreshold int

	// Kafka alert publishing (feature-flagged).
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaAlertsTopic string

	// Dataset generation.
	LocationsPath string
	DatasetPath   string
	PastDays      int
	FetchPacing   time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	predictorTimeout, err := parseDuration("PREDICTOR_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	watchInterval, err := parseDuration("WATCH_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}
	fetchPacing, err := parseDuration("FETCH_PACING", "500ms")
	if err != nil {
		return nil, err
	}

	forecastDays, err := parseInt("FORECAST_DAYS", 1)
	if err != nil {
		return nil, err
	}
	pastDays, err := parseInt("PAST_DAYS", 30)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	notifyThreshold, err := parseInt("NOTIFY_THRESHOLD", 70)
	if err != nil {
		return nil, err
	}

	predictorScript := os.Getenv("PREDICTOR_SCRIPT")
	predictorEnabled := predictorScript != ""
	if v := os.Getenv("PREDICTOR_ENABLED"); v != "" {
		predictorEnabled = v == "true"
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WeatherBaseURL: envOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com/v1"),
		WeatherTimeout: weatherTimeout,
		ForecastDays:   forecastDays,

		GeocodeBaseURL:   envOrDefault("GEOCODE_BASE_URL", "https://api.bigdatacloud.net"),
		GeocodeTimeout:   geocodeTimeout,
		GeocodeCacheSize: cacheSize,

		PredictorEnabled: predictorEnabled,
		PredictorCommand: envOrDefault("PREDICTOR_COMMAND", "python3"),
		PredictorScript:  predictorScript,
		PredictorTimeout: predictorTimeout,

		WatchInterval:   watchInterval,
		NotifyThreshold: notifyThreshold,

		KafkaEnabled:     kafkaEnabled,
		KafkaBrokers:     parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertsTopic: envOrDefault("KAFKA_ALERTS_TOPIC", "flood-risk-alerts"),

		LocationsPath: envOrDefault("LOCATIONS_PATH", "locations.csv"),
		DatasetPath:   envOrDefault("DATASET_PATH", "dataset.csv"),
		PastDays:      pastDays,
		FetchPacing:   fetchPacing,
	}

	if cfg.WeatherBaseURL == "" {
		return nil, errors.New("WEATHER_BASE_URL is required")
	}
	if cfg.PredictorEnabled && cfg.PredictorScript == "" {
		return nil, errors.New("PREDICTOR_ENABLED is true but PREDICTOR_SCRIPT is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.WatchInterval <= 0 {
		return nil, errors.New("WATCH_INTERVAL must be positive")
	}
	if cfg.PastDays < 1 {
		return nil, errors.New("PAST_DAYS must be at least 1")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
