package scoring

import (
	"fmt"
	"math"

	"github.com/signalhouse/leadrank/internal/store"
)

// weightTolerance is how far a weight sum may drift from 1.0 before it is a
// validation issue.
const weightTolerance = 0.02

const (
	maxCriterionWeight = 0.5
	maxSignalPoints    = 10
)

// IssueKind classifies a validation problem with a scoring config.
type IssueKind string

const (
	IssueWeightImbalance       IssueKind = "weight_imbalance"
	IssueOutOfRange            IssueKind = "out_of_range"
	IssueInvalidThresholdOrder IssueKind = "invalid_threshold_order"
)

// Issue is one validation problem, tied to the field that caused it.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Field   string    `json:"field"`
	Message string    `json:"message"`
}

// ValidationResult is the collected outcome of validating a config. Issues
// are gathered rather than failing fast so the operator sees every problem
// in one round trip.
type ValidationResult struct {
	Issues []Issue `json:"issues"`
}

// Valid reports whether the config passed every check.
func (r ValidationResult) Valid() bool {
	return len(r.Issues) == 0
}

func (r *ValidationResult) add(kind IssueKind, field, format string, args ...interface{}) {
	r.Issues = append(r.Issues, Issue{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks whether a scoring config is fit to commit.
// During editing these are advisory warnings; at commit they are a hard gate.
func Validate(cfg *store.ScoringConfig) ValidationResult {
	var result ValidationResult

	if sum := cfg.FitWeight + cfg.TimingWeight; math.Abs(sum-1.0) > weightTolerance {
		result.add(IssueWeightImbalance, "fit_weight",
			"fit_weight + timing_weight must sum to 1.0, got %.2f", sum)
	}
	if cfg.FitWeight < 0 {
		result.add(IssueOutOfRange, "fit_weight", "fit_weight must be non-negative, got %.2f", cfg.FitWeight)
	}
	if cfg.TimingWeight < 0 {
		result.add(IssueOutOfRange, "timing_weight", "timing_weight must be non-negative, got %.2f", cfg.TimingWeight)
	}

	var criteriaSum float64
	for key, criterion := range cfg.FitCriteria {
		criteriaSum += criterion.Weight
		if criterion.Weight < 0 || criterion.Weight > maxCriterionWeight {
			result.add(IssueOutOfRange, "fit_criteria."+key,
				"criterion weight must be in [0, %.1f], got %.2f", maxCriterionWeight, criterion.Weight)
		}
	}
	if len(cfg.FitCriteria) > 0 && math.Abs(criteriaSum-1.0) > weightTolerance {
		result.add(IssueWeightImbalance, "fit_criteria",
			"fit criteria weights must sum to 1.0, got %.2f", criteriaSum)
	}

	for key, points := range cfg.TimingSignals {
		if points < 0 || points > maxSignalPoints {
			result.add(IssueOutOfRange, "timing_signals."+key,
				"signal points must be in [0, %d], got %d", maxSignalPoints, points)
		}
	}

	t := cfg.Thresholds
	if !(t.Hot > t.Warm && t.Warm > t.Monitor && t.Monitor >= 0) {
		result.add(IssueInvalidThresholdOrder, "score_thresholds",
			"thresholds must satisfy hot > warm > monitor >= 0, got %d/%d/%d", t.Hot, t.Warm, t.Monitor)
	}

	return result
}
