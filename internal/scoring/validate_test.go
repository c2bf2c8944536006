package scoring

import (
	"testing"

	"github.com/google/uuid"

	"github.com/signalhouse/leadrank/internal/store"
)

func hasIssue(r ValidationResult, kind IssueKind, field string) bool {
	for _, issue := range r.Issues {
		if issue.Kind == kind && issue.Field == field {
			return true
		}
	}
	return false
}

func TestDefaultConfigIsValid(t *testing.T) {
	r := Validate(DefaultConfig(uuid.New()))
	if !r.Valid() {
		t.Errorf("default config failed validation: %+v", r.Issues)
	}
}

func TestValidateWeightImbalance(t *testing.T) {
	t.Run("fit and timing weights", func(t *testing.T) {
		cfg := DefaultConfig(uuid.New())
		cfg.FitWeight = 0.8
		cfg.TimingWeight = 0.4
		r := Validate(cfg)
		if !hasIssue(r, IssueWeightImbalance, "fit_weight") {
			t.Errorf("expected weight imbalance issue, got %+v", r.Issues)
		}
	})

	t.Run("within tolerance passes", func(t *testing.T) {
		cfg := DefaultConfig(uuid.New())
		cfg.FitWeight = 0.61
		cfg.TimingWeight = 0.4
		if r := Validate(cfg); !r.Valid() {
			t.Errorf("sum 1.01 is within tolerance, got %+v", r.Issues)
		}
	})

	t.Run("criteria weights summing to 1.07", func(t *testing.T) {
		cfg := DefaultConfig(uuid.New())
		cfg.FitCriteria["employee_count"] = store.FitCriterion{Weight: 0.27}
		r := Validate(cfg)
		if !hasIssue(r, IssueWeightImbalance, "fit_criteria") {
			t.Errorf("expected criteria imbalance issue, got %+v", r.Issues)
		}
	})
}

func TestValidateOutOfRange(t *testing.T) {
	t.Run("criterion weight above 0.5", func(t *testing.T) {
		cfg := DefaultConfig(uuid.New())
		cfg.FitCriteria = map[string]store.FitCriterion{
			"employee_count": {Weight: 0.6},
			"revenue":        {Weight: 0.4},
		}
		r := Validate(cfg)
		if !hasIssue(r, IssueOutOfRange, "fit_criteria.employee_count") {
			t.Errorf("expected out-of-range issue, got %+v", r.Issues)
		}
	})

	t.Run("signal points above 10", func(t *testing.T) {
		cfg := DefaultConfig(uuid.New())
		cfg.TimingSignals["multi_platform"] = 11
		r := Validate(cfg)
		if !hasIssue(r, IssueOutOfRange, "timing_signals.multi_platform") {
			t.Errorf("expected out-of-range issue, got %+v", r.Issues)
		}
	})

	t.Run("negative signal points", func(t *testing.T) {
		cfg := DefaultConfig(uuid.New())
		cfg.TimingSignals["multi_platform"] = -1
		if r := Validate(cfg); !hasIssue(r, IssueOutOfRange, "timing_signals.multi_platform") {
			t.Errorf("expected out-of-range issue, got %+v", r.Issues)
		}
	})
}

func TestValidateThresholdOrder(t *testing.T) {
	tests := []struct {
		name       string
		thresholds store.Thresholds
		valid      bool
	}{
		{"descending", store.Thresholds{Hot: 80, Warm: 60, Monitor: 40}, true},
		{"monitor at zero", store.Thresholds{Hot: 80, Warm: 60, Monitor: 0}, true},
		{"hot equals warm", store.Thresholds{Hot: 60, Warm: 60, Monitor: 40}, false},
		{"inverted", store.Thresholds{Hot: 40, Warm: 60, Monitor: 80}, false},
		{"negative monitor", store.Thresholds{Hot: 80, Warm: 60, Monitor: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(uuid.New())
			cfg.Thresholds = tt.thresholds
			r := Validate(cfg)
			if got := r.Valid(); got != tt.valid {
				t.Errorf("valid = %v, want %v (%+v)", got, tt.valid, r.Issues)
			}
		})
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	cfg := DefaultConfig(uuid.New())
	cfg.FitWeight = 0.9                             // imbalance with timing 0.4
	cfg.TimingSignals["management_vacancy"] = 15    // out of range
	cfg.Thresholds = store.Thresholds{Hot: 10, Warm: 60, Monitor: 40} // bad order

	r := Validate(cfg)
	if len(r.Issues) < 3 {
		t.Errorf("expected every problem collected, got %d: %+v", len(r.Issues), r.Issues)
	}
}
