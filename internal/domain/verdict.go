package domain

import "math"

// Verdict statuses outside the four risk labels mark degraded results
// from the external predictor. They are valid verdicts downstream: a
// scheduled job receiving one logs it and moves on, it never crashes.
const (
	StatusSystemError = "SYSTEM_ERROR"
	StatusJSONError   = "JSON_ERROR"
)

// RiskVerdict is the final output of a risk computation. Score is clamped
// to 0–100. Status carries a RiskLabel for successful computations or a
// sentinel status for degraded ones. Never mutated after creation.
type RiskVerdict struct {
	Status     string  `json:"status"`
	Score      int     `json:"finalRisk"`
	Color      string  `json:"color,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// NewVerdict clamps and rounds a raw score and classifies it with the
// given bands.
func NewVerdict(score float64, bands Bands) RiskVerdict {
	label := bands.Classify(score)
	return RiskVerdict{
		Status: string(label),
		Score:  clampScore(score),
		Color:  labelColor(label),
	}
}

// SystemErrorVerdict is the sentinel returned when the external predictor
// process fails. Identical in shape and downstream effect to any other
// verdict; only logs and metrics tell the two sentinels apart.
func SystemErrorVerdict() RiskVerdict {
	return RiskVerdict{Status: StatusSystemError, Score: 0, Color: "gray"}
}

// JSONErrorVerdict is the sentinel returned when the predictor exits
// cleanly but emits output that does not parse as a prediction.
func JSONErrorVerdict() RiskVerdict {
	return RiskVerdict{Status: StatusJSONError, Score: 0, Color: "gray"}
}

// IsSentinel reports whether the verdict is a degraded predictor result
// rather than a real classification.
func (v RiskVerdict) IsSentinel() bool {
	return v.Status == StatusSystemError || v.Status == StatusJSONError
}

func clampScore(score float64) int {
	rounded := math.Round(score)
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return int(rounded)
}

func labelColor(l RiskLabel) string {
	switch l {
	case LabelBahaya:
		return "red"
	case LabelSiaga:
		return "orange"
	case LabelWaspada:
		return "yellow"
	default:
		return "green"
	}
}
