// Package kafka publishes alert verdicts to a Kafka topic so downstream
// delivery services (push gateways, dashboards) can consume them.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Jessssswill/AI-flood/internal/config"
	"github.com/Jessssswill/AI-flood/internal/domain"
	"github.com/Jessssswill/AI-flood/internal/notify"
)

// AlertWriter produces alert messages to the alerts topic.
// It implements scheduler.Publisher.
type AlertWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAlertWriter creates a Kafka producer for the configured alerts topic.
func NewAlertWriter(cfg *config.Config, logger *slog.Logger) *AlertWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AlertWriter{writer: w, logger: logger}
}

// alertMessage is the wire shape of one published alert.
type alertMessage struct {
	SubscriberID string             `json:"subscriber_id"`
	Lat          float64            `json:"lat"`
	Lon          float64            `json:"lon"`
	Verdict      domain.RiskVerdict `json:"verdict"`
	Payload      notify.Payload     `json:"payload"`
	IssuedAt     time.Time          `json:"issued_at"`
}

// Publish serializes one alert and writes it keyed by subscriber ID so a
// consumer sees per-subscriber ordering.
func (w *AlertWriter) Publish(ctx context.Context, sub domain.Subscriber, verdict domain.RiskVerdict) error {
	msg, err := serializeAlert(sub, verdict, time.Now().UTC())
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *AlertWriter) Close() error {
	return w.writer.Close()
}

func serializeAlert(sub domain.Subscriber, verdict domain.RiskVerdict, issuedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(alertMessage{
		SubscriberID: sub.ID,
		Lat:          sub.Lat,
		Lon:          sub.Lon,
		Verdict:      verdict,
		Payload:      notify.NewPayload(verdict),
		IssuedAt:     issuedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(sub.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(verdict.Status)},
			{Key: "issued_at", Value: []byte(issuedAt.Format(time.RFC3339))},
		},
	}, nil
}
