package scoring

import (
	"testing"

	"github.com/google/uuid"

	"github.com/signalhouse/leadrank/internal/store"
)

func testConfig() *store.ScoringConfig {
	return &store.ScoringConfig{
		ProfileID:    uuid.New(),
		Version:      1,
		IsActive:     true,
		FitWeight:    0.6,
		TimingWeight: 0.4,
		FitCriteria: map[string]store.FitCriterion{
			"employee_count": {Weight: 0.5},
			"revenue":        {Weight: 0.5},
		},
		TimingSignals: map[string]int{
			"vacancy_age_over_60_days":     5,
			"multiple_vacancies_same_role": 4,
		},
		Thresholds: store.Thresholds{Hot: 80, Warm: 60, Monitor: 40},
	}
}

func TestScoreWeightedBlend(t *testing.T) {
	cfg := testConfig()
	// Both criteria at 4/5 → fit 80; 9 of 10 points fired → timing 90.
	vector := store.ScoreVector{
		FitSubscores: map[string]float64{"employee_count": 4, "revenue": 4},
		TimingSignals: map[string]bool{
			"vacancy_age_over_60_days":     true,
			"multiple_vacancies_same_role": true,
		},
	}

	r := Score(vector, cfg)
	if r.FitScore != 80 {
		t.Errorf("fit score = %d, want 80", r.FitScore)
	}
	if r.TimingScore != 90 {
		t.Errorf("timing score = %d, want 90", r.TimingScore)
	}
	// round(80*0.6 + 90*0.4) = 84
	if r.CompositeScore != 84 {
		t.Errorf("composite score = %d, want 84", r.CompositeScore)
	}
	if r.Status != store.StatusHot {
		t.Errorf("status = %s, want hot", r.Status)
	}

	// Same lead, weights flipped to 0.3/0.7 → round(24 + 63) = 87.
	cfg.FitWeight = 0.3
	cfg.TimingWeight = 0.7
	r = Score(vector, cfg)
	if r.CompositeScore != 87 {
		t.Errorf("composite score = %d, want 87", r.CompositeScore)
	}
	if r.Status != store.StatusHot {
		t.Errorf("status = %s, want hot", r.Status)
	}
}

func TestScoreDeterminism(t *testing.T) {
	cfg := testConfig()
	vector := store.ScoreVector{
		FitSubscores:  map[string]float64{"employee_count": 3.7},
		TimingSignals: map[string]bool{"vacancy_age_over_60_days": true},
	}
	first := Score(vector, cfg)
	second := Score(vector, cfg)
	if first != second {
		t.Errorf("same inputs scored differently: %+v vs %+v", first, second)
	}
}

func TestScoreMissingAndUnknownKeys(t *testing.T) {
	cfg := testConfig()

	t.Run("missing vector keys contribute zero", func(t *testing.T) {
		r := Score(store.ScoreVector{}, cfg)
		if r.FitScore != 0 || r.TimingScore != 0 || r.CompositeScore != 0 {
			t.Errorf("empty vector scored %+v, want all zeros", r)
		}
		if r.Status != store.StatusDismissed {
			t.Errorf("status = %s, want dismissed", r.Status)
		}
	})

	t.Run("unknown vector keys are ignored", func(t *testing.T) {
		vector := store.ScoreVector{
			FitSubscores:  map[string]float64{"employee_count": 5, "revenue": 5, "obsolete_criterion": 5},
			TimingSignals: map[string]bool{"retired_signal": true},
		}
		r := Score(vector, cfg)
		if r.FitScore != 100 {
			t.Errorf("fit score = %d, want 100", r.FitScore)
		}
		if r.TimingScore != 0 {
			t.Errorf("timing score = %d, want 0 (only unknown signals fired)", r.TimingScore)
		}
	})
}

func TestTimingScoreSaturation(t *testing.T) {
	cfg := testConfig()
	cfg.TimingSignals = map[string]int{"a": 5, "b": 4, "c": 3} // 12 points available

	t.Run("total over 10 saturates at 100", func(t *testing.T) {
		vector := store.ScoreVector{TimingSignals: map[string]bool{"a": true, "b": true, "c": true}}
		if r := Score(vector, cfg); r.TimingScore != 100 {
			t.Errorf("timing score = %d, want 100", r.TimingScore)
		}
	})

	t.Run("no fired signals score zero regardless of available points", func(t *testing.T) {
		vector := store.ScoreVector{TimingSignals: map[string]bool{}}
		if r := Score(vector, cfg); r.TimingScore != 0 {
			t.Errorf("timing score = %d, want 0", r.TimingScore)
		}
	})
}

func TestScoreRoundsPerStage(t *testing.T) {
	// Fit raw 45.5 rounds up to 46 before weighting; the composite is then
	// computed from the already-rounded stage values.
	cfg := testConfig()
	cfg.FitCriteria = map[string]store.FitCriterion{"only": {Weight: 1, Max: 10}}
	cfg.TimingSignals = map[string]int{}
	cfg.FitWeight = 0.5
	cfg.TimingWeight = 0.5

	vector := store.ScoreVector{FitSubscores: map[string]float64{"only": 4.55}}
	r := Score(vector, cfg)
	if r.FitScore != 46 {
		t.Errorf("fit score = %d, want 46 (45.5 rounds half-up)", r.FitScore)
	}
	// round(46*0.5 + 0*0.5) = 23
	if r.CompositeScore != 23 {
		t.Errorf("composite score = %d, want 23", r.CompositeScore)
	}
}

func TestFitScoreMonotonicity(t *testing.T) {
	cfg := testConfig()
	vector := store.ScoreVector{
		FitSubscores: map[string]float64{"employee_count": 3, "revenue": 2},
	}
	base := Score(vector, cfg).FitScore

	// Raising one criterion weight (no renormalization) must never lower the
	// fit score of a lead with a positive sub-score on that criterion.
	for _, w := range []float64{0.55, 0.6, 0.8, 1.0} {
		cfg.FitCriteria["employee_count"] = store.FitCriterion{Weight: w}
		got := Score(vector, cfg).FitScore
		if got < base {
			t.Errorf("weight %.2f: fit score %d dropped below %d", w, got, base)
		}
		base = got
	}
}

func TestClassifyBoundaries(t *testing.T) {
	thresholds := store.Thresholds{Hot: 80, Warm: 60, Monitor: 40}
	tests := []struct {
		composite int
		want      store.Status
	}{
		{100, store.StatusHot},
		{80, store.StatusHot}, // boundary belongs to the tier it meets
		{79, store.StatusWarm},
		{60, store.StatusWarm},
		{59, store.StatusMonitor},
		{40, store.StatusMonitor},
		{39, store.StatusDismissed},
		{0, store.StatusDismissed},
	}
	for _, tt := range tests {
		if got := Classify(tt.composite, thresholds); got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.composite, got, tt.want)
		}
	}
}

func TestScoreClamping(t *testing.T) {
	cfg := testConfig()
	// Weights that push the raw sum past 100.
	cfg.FitCriteria = map[string]store.FitCriterion{
		"a": {Weight: 1.0},
		"b": {Weight: 0.5},
	}
	vector := store.ScoreVector{FitSubscores: map[string]float64{"a": 5, "b": 5}}
	if r := Score(vector, cfg); r.FitScore != 100 {
		t.Errorf("fit score = %d, want clamped 100", r.FitScore)
	}
}
