package scoring

import (
	"math"

	"github.com/signalhouse/leadrank/internal/store"
)

// timingSaturationPoints is the point total at which the timing score
// saturates at 100. Signal point values are additive and unbounded in
// config edits, but the displayed score must stay in [0, 100].
const timingSaturationPoints = 10

// ScoreResult is the complete scoring output for one lead under one config.
type ScoreResult struct {
	FitScore       int          `json:"fit_score"`
	TimingScore    int          `json:"timing_score"`
	CompositeScore int          `json:"composite_score"`
	Status         store.Status `json:"status"`
}

// Score computes fit, timing, and composite scores for one lead vector
// under one config, and classifies the composite into a status tier.
//
// The function is total: unknown vector keys are ignored, keys missing from
// the vector contribute zero, and no (vector, config) pair is an error. A
// profile's criteria set drifting from a lead's vector must never throw.
//
// Rounding is half-up to the nearest integer at each stage, not only at the
// end, so two configs producing the same rounded fit/timing scores always
// produce the same composite score.
func Score(vector store.ScoreVector, cfg *store.ScoringConfig) ScoreResult {
	fit := fitScore(vector, cfg)
	timing := timingScore(vector, cfg)

	composite := clampScore(roundHalfUp(float64(fit)*cfg.FitWeight + float64(timing)*cfg.TimingWeight))

	return ScoreResult{
		FitScore:       fit,
		TimingScore:    timing,
		CompositeScore: composite,
		Status:         Classify(composite, cfg.Thresholds),
	}
}

// fitScore is the weighted sum over every criterion in the config, each
// sub-score normalized by its criterion-specific max, scaled to [0, 100].
func fitScore(vector store.ScoreVector, cfg *store.ScoringConfig) int {
	var sum float64
	for key, criterion := range cfg.FitCriteria {
		sub := vector.FitSubscores[key] // missing key reads as 0
		sum += (sub / criterion.EffectiveMax()) * criterion.Weight
	}
	return clampScore(roundHalfUp(100 * sum))
}

// timingScore is the raw point total of fired signals, capped at the
// saturation point total and scaled to [0, 100].
func timingScore(vector store.ScoreVector, cfg *store.ScoringConfig) int {
	var points int
	for key, value := range cfg.TimingSignals {
		if vector.TimingSignals[key] {
			points += value
		}
	}
	ratio := clampFloat(float64(points)/timingSaturationPoints, 0, 1)
	return clampScore(roundHalfUp(100 * ratio))
}

// Classify maps a composite score to its status tier. Thresholds are
// evaluated high-to-low; a boundary value belongs to the tier it meets.
func Classify(composite int, t store.Thresholds) store.Status {
	switch {
	case composite >= t.Hot:
		return store.StatusHot
	case composite >= t.Warm:
		return store.StatusWarm
	case composite >= t.Monitor:
		return store.StatusMonitor
	default:
		return store.StatusDismissed
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
