// Package notify builds alert payloads for subscribers. The push
// delivery transport itself lives outside this service; the default
// notifier renders the payload and logs it, and the Kafka publisher
// carries it to whatever delivers it.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jessssswill/AI-flood/internal/domain"
)

// Payload is the notification body shown to a subscriber.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewPayload renders the alert text for a verdict.
func NewPayload(v domain.RiskVerdict) Payload {
	return Payload{
		Title: "PERINGATAN BANJIR",
		Body:  fmt.Sprintf("Status: %s! Skor risiko: %d%%", v.Status, v.Score),
	}
}

// LogNotifier writes alerts to the service log. It stands in wherever no
// real delivery transport is wired.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the alert payload for one subscriber.
func (n *LogNotifier) Notify(_ context.Context, sub domain.Subscriber, v domain.RiskVerdict) error {
	payload := NewPayload(v)
	n.logger.Info("alert",
		"subscriber", sub.ID,
		"endpoint", sub.Endpoint,
		"title", payload.Title,
		"body", payload.Body,
	)
	return nil
}
