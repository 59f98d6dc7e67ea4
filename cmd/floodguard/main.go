package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Jessssswill/AI-flood/internal/adapter/geocode"
	"github.com/Jessssswill/AI-flood/internal/adapter/httpapi"
	kafkaadapter "github.com/Jessssswill/AI-flood/internal/adapter/kafka"
	"github.com/Jessssswill/AI-flood/internal/adapter/openmeteo"
	"github.com/Jessssswill/AI-flood/internal/config"
	"github.com/Jessssswill/AI-flood/internal/notify"
	"github.com/Jessssswill/AI-flood/internal/observability"
	"github.com/Jessssswill/AI-flood/internal/predictor"
	"github.com/Jessssswill/AI-flood/internal/risk"
	"github.com/Jessssswill/AI-flood/internal/scheduler"
	"github.com/Jessssswill/AI-flood/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	weather := openmeteo.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimeout, logger, metrics)
	resolver := geocode.NewCachedResolver(
		geocode.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeTimeout, logger),
		cfg.GeocodeCacheSize, metrics,
	)

	subscribers := store.NewSubscribers()
	reports := store.NewReports(nil)

	// The external predictor is feature-flagged; without it the heuristic
	// live formula serves every request.
	var pred risk.Predictor
	if cfg.PredictorEnabled {
		pred = predictor.NewBridge(cfg.PredictorCommand, cfg.PredictorScript, cfg.PredictorTimeout, logger, metrics)
		logger.Info("external predictor enabled", "script", cfg.PredictorScript, "timeout", cfg.PredictorTimeout)
	} else {
		logger.Info("external predictor disabled, using heuristic scoring")
	}

	service := risk.NewService(weather, pred, reports, cfg.ForecastDays, logger)

	var publisher scheduler.Publisher
	var alertWriter *kafkaadapter.AlertWriter
	if cfg.KafkaEnabled {
		alertWriter = kafkaadapter.NewAlertWriter(cfg, logger)
		publisher = alertWriter
		logger.Info("kafka alert publishing enabled", "topic", cfg.KafkaAlertsTopic, "brokers", cfg.KafkaBrokers)
	}

	watcher := scheduler.New(service, subscribers, notify.NewLogNotifier(logger), publisher,
		cfg.WatchInterval, cfg.NotifyThreshold, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, service, resolver, subscribers, reports, watcher, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go watcher.Run(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if alertWriter != nil {
		if err := alertWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
