// Command dataset generates a labeled training CSV from archived weather.
// It reads the monitoring location list, fetches the hourly history for
// each location, aggregates it into daily feature rows, and labels every
// row with the batch risk score.
//
// Usage:
//
//	go run ./cmd/dataset -locations locations.csv -out dataset.csv -past-days 30
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Jessssswill/AI-flood/internal/adapter/openmeteo"
	"github.com/Jessssswill/AI-flood/internal/config"
	"github.com/Jessssswill/AI-flood/internal/dataset"
	"github.com/Jessssswill/AI-flood/internal/observability"
)

func main() {
	if err := run(); err != nil {
		slog.Error("dataset generation failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	locationsPath := flag.String("locations", cfg.LocationsPath, "path to the location list CSV")
	outPath := flag.String("out", cfg.DatasetPath, "output path for the labeled dataset CSV")
	pastDays := flag.Int("past-days", cfg.PastDays, "days of history to fetch per location")
	pacing := flag.Duration("pacing", cfg.FetchPacing, "delay between location fetches")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	locations, err := dataset.LoadLocations(*locationsPath)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		return fmt.Errorf("no locations in %s", *locationsPath)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	weather := openmeteo.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimeout, logger, metrics)
	builder := dataset.NewBuilder(weather, *pastDays, *pacing, logger, metrics)
	writer := dataset.NewCSVWriter(out)

	start := time.Now()
	logger.Info("generating dataset",
		"locations", len(locations), "past_days", *pastDays, "out", *outPath)

	rows := 0
	err = builder.Build(ctx, locations, func(r dataset.Row) error {
		rows++
		return writer.Write(r)
	})
	if err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	logger.Info("dataset written", "rows", rows, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
