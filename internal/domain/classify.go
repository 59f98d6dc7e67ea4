package domain

// RiskLabel is one of the four ordered flood-risk bands.
type RiskLabel string

const (
	LabelAman    RiskLabel = "AMAN"
	LabelWaspada RiskLabel = "WASPADA"
	LabelSiaga   RiskLabel = "SIAGA"
	LabelBahaya  RiskLabel = "BAHAYA"
)

// Rank orders the labels for monotonicity checks: AMAN 0 through BAHAYA 3.
func (l RiskLabel) Rank() int {
	switch l {
	case LabelBahaya:
		return 3
	case LabelSiaga:
		return 2
	case LabelWaspada:
		return 1
	default:
		return 0
	}
}

// Bands holds the three classification thresholds, scanned highest first.
// Inclusive controls whether a score exactly on a threshold takes the
// higher band (batch) or the lower one (live). The two variants really do
// differ; they were calibrated against differently scaled score totals.
type Bands struct {
	Bahaya    float64
	Siaga     float64
	Waspada   float64
	Inclusive bool
}

// BatchBands classifies batch-mode totals: ≥70 BAHAYA, ≥40 SIAGA,
// ≥20 WASPADA, else AMAN.
func BatchBands() Bands {
	return Bands{Bahaya: 70, Siaga: 40, Waspada: 20, Inclusive: true}
}

// LiveBands classifies live-mode totals: >80 BAHAYA, >60 SIAGA,
// >40 WASPADA, else AMAN.
func LiveBands() Bands {
	return Bands{Bahaya: 80, Siaga: 60, Waspada: 40}
}

// Classify maps any real score to exactly one label by descending
// threshold scan. It is total: every input maps somewhere, and raising
// the score never lowers the band.
func (b Bands) Classify(score float64) RiskLabel {
	above := func(threshold float64) bool {
		if b.Inclusive {
			return score >= threshold
		}
		return score > threshold
	}

	switch {
	case above(b.Bahaya):
		return LabelBahaya
	case above(b.Siaga):
		return LabelSiaga
	case above(b.Waspada):
		return LabelWaspada
	default:
		return LabelAman
	}
}
