// Package predictor invokes the external flood-risk model as an isolated
// subprocess. The model is opaque: the bridge serializes a feature vector
// to JSON argv, reads a JSON verdict from stdout, and contains every
// failure mode behind a sentinel verdict so a crashing predictor can never
// take a scheduled job down with it.
package predictor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/Jessssswill/AI-flood/internal/domain"
	"github.com/Jessssswill/AI-flood/internal/observability"
)

// Bridge runs the external predictor process per request.
type Bridge struct {
	command string // interpreter, e.g. "python3"
	script  string // script path passed as first argument
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewBridge creates a predictor bridge. The subprocess is invoked as
// `command script <feature-json>` with a hard deadline of timeout per
// invocation.
func NewBridge(command, script string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Bridge {
	return &Bridge{
		command: command,
		script:  script,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

// Predict asks the external model for a verdict on one feature vector.
// It never returns an error: process failure maps to the SYSTEM_ERROR
// sentinel and unparseable output to the JSON_ERROR sentinel, both valid
// verdicts downstream.
func (b *Bridge) Predict(ctx context.Context, f domain.FeatureVector) domain.RiskVerdict {
	start := time.Now()
	verdict := b.run(ctx, f)
	b.metrics.PredictorDuration.Observe(time.Since(start).Seconds())

	switch verdict.Status {
	case domain.StatusSystemError:
		b.metrics.PredictorInvocations.WithLabelValues("system_error").Inc()
	case domain.StatusJSONError:
		b.metrics.PredictorInvocations.WithLabelValues("json_error").Inc()
	default:
		b.metrics.PredictorInvocations.WithLabelValues("success").Inc()
	}
	return verdict
}

func (b *Bridge) run(ctx context.Context, f domain.FeatureVector) domain.RiskVerdict {
	payload, err := json.Marshal(f)
	if err != nil {
		// Marshaling a flat float struct cannot realistically fail, but the
		// contract holds: degrade, never propagate.
		b.logger.Error("predictor request serialization failed", "error", err)
		return domain.SystemErrorVerdict()
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.command, b.script, string(payload))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		b.logger.Error("predictor stdout pipe failed", "error", err)
		return domain.SystemErrorVerdict()
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		b.logger.Error("predictor stderr pipe failed", "error", err)
		return domain.SystemErrorVerdict()
	}

	if err := cmd.Start(); err != nil {
		b.logger.Error("predictor spawn failed", "command", b.command, "error", err)
		return domain.SystemErrorVerdict()
	}

	// Stderr is diagnostics only; surface it in our logs as it streams.
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			b.logger.Warn("predictor stderr", "line", scanner.Text())
		}
	}()

	// Consume stdout incrementally before Wait; the process lifecycle
	// (spawn, stream, exit code) is the sole completion signal.
	output, readErr := io.ReadAll(stdout)

	if err := cmd.Wait(); err != nil {
		b.logger.Error("predictor process failed",
			"command", b.command,
			"script", b.script,
			"error", err,
			"timed_out", ctx.Err() != nil,
		)
		return domain.SystemErrorVerdict()
	}
	if readErr != nil {
		b.logger.Error("predictor output read failed", "error", readErr)
		return domain.SystemErrorVerdict()
	}

	verdict, err := parsePrediction(output)
	if err != nil {
		b.logger.Error("predictor output unparseable",
			"error", err,
			"output", truncate(string(output), 512),
		)
		return domain.JSONErrorVerdict()
	}
	return verdict
}

// parsePrediction decodes the predictor's stdout into a verdict. A clean
// exit with a JSON body that lacks a status (for example an {"error": ...}
// report) counts as unparseable: the shape contract is part of the
// protocol.
func parsePrediction(output []byte) (domain.RiskVerdict, error) {
	var verdict domain.RiskVerdict
	if err := json.Unmarshal(output, &verdict); err != nil {
		return domain.RiskVerdict{}, fmt.Errorf("decode prediction: %w", err)
	}
	if verdict.Status == "" {
		return domain.RiskVerdict{}, fmt.Errorf("prediction missing status field")
	}
	return verdict, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
