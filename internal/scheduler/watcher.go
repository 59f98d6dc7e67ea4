// Package scheduler runs the recurring background risk watch: every tick
// it re-assesses the flood risk at each subscriber's location and raises
// alerts when the score crosses the notify threshold.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Jessssswill/AI-flood/internal/domain"
	"github.com/Jessssswill/AI-flood/internal/observability"
	"github.com/Jessssswill/AI-flood/internal/risk"
)

// SubscriberSource hands out a point-in-time copy of the subscriber list.
type SubscriberSource interface {
	Snapshot() []domain.Subscriber
}

// Notifier delivers an alert to one subscriber.
type Notifier interface {
	Notify(ctx context.Context, sub domain.Subscriber, verdict domain.RiskVerdict) error
}

// Publisher mirrors alert verdicts to an external sink, e.g. a Kafka
// topic. Optional.
type Publisher interface {
	Publish(ctx context.Context, sub domain.Subscriber, verdict domain.RiskVerdict) error
}

// Assessor computes the risk for a point. Satisfied by *risk.Service.
type Assessor interface {
	Assess(ctx context.Context, lat, lon float64) (risk.Assessment, error)
}

// Watcher is the recurring background risk check.
type Watcher struct {
	assessor    Assessor
	subscribers SubscriberSource
	notifier    Notifier
	publisher   Publisher // nil when publishing is disabled
	interval    time.Duration
	threshold   int
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Watcher. publisher may be nil.
func New(assessor Assessor, subscribers SubscriberSource, notifier Notifier, publisher Publisher,
	interval time.Duration, threshold int, logger *slog.Logger, metrics *observability.Metrics) *Watcher {
	return &Watcher{
		assessor:    assessor,
		subscribers: subscribers,
		notifier:    notifier,
		publisher:   publisher,
		interval:    interval,
		threshold:   threshold,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the watcher has completed at least one
// cycle, or an error describing why the service is not yet ready.
func (w *Watcher) CheckReadiness(_ context.Context) error {
	if !w.ready.Load() {
		return errors.New("background watch has not completed a cycle yet")
	}
	return nil
}

// Run executes the watch loop until the context is cancelled. A cycle
// always runs to completion; ticks that fire while a cycle is in flight
// are skipped, never queued, so cycles cannot pile up behind a slow
// provider.
func (w *Watcher) Run(ctx context.Context) {
	w.logger.Info("background watch started", "interval", w.interval, "notify_threshold", w.threshold)
	w.metrics.WatcherRunning.Set(1)
	defer w.metrics.WatcherRunning.Set(0)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("background watch stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			w.RunCycle(ctx)

			// Drop the tick that may have fired during a long cycle.
			select {
			case <-ticker.C:
				w.metrics.WatchSkipped.Inc()
			default:
			}
		}
	}
}

// RunCycle assesses every current subscriber once. Failures are per
// subscriber: a provider outage at one location skips that subscriber and
// the cycle continues.
func (w *Watcher) RunCycle(ctx context.Context) {
	start := time.Now()
	subs := w.subscribers.Snapshot()

	alerts := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return
		}
		if w.checkSubscriber(ctx, sub) {
			alerts++
		}
	}

	w.metrics.WatchCycles.Inc()
	w.ready.Store(true)
	w.logger.Info("watch cycle complete",
		"subscribers", len(subs),
		"alerts", alerts,
		"duration", time.Since(start),
	)
}

func (w *Watcher) checkSubscriber(ctx context.Context, sub domain.Subscriber) bool {
	assessment, err := w.assessor.Assess(ctx, sub.Lat, sub.Lon)
	if err != nil {
		w.logger.Warn("watch assessment failed, skipping subscriber",
			"subscriber", sub.ID, "lat", sub.Lat, "lon", sub.Lon, "error", err)
		return false
	}

	verdict := assessment.Verdict
	w.logger.Debug("watch assessment",
		"subscriber", sub.ID, "status", verdict.Status, "score", verdict.Score)

	if verdict.Score <= w.threshold {
		return false
	}

	if err := w.notifier.Notify(ctx, sub, verdict); err != nil {
		w.logger.Warn("alert delivery failed",
			"subscriber", sub.ID, "status", verdict.Status, "error", err)
	} else {
		w.metrics.AlertsSent.Inc()
	}

	if w.publisher != nil {
		if err := w.publisher.Publish(ctx, sub, verdict); err != nil {
			w.logger.Warn("alert publish failed", "subscriber", sub.ID, "error", err)
		} else {
			w.metrics.AlertsPublished.Inc()
		}
	}
	return true
}
