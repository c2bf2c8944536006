package scoring

import (
	"github.com/google/uuid"

	"github.com/signalhouse/leadrank/internal/store"
)

// DefaultConfig returns the seed scoring config a profile starts with before
// an operator commits an edit. Version 0 marks it as never persisted.
func DefaultConfig(profileID uuid.UUID) *store.ScoringConfig {
	return &store.ScoringConfig{
		ProfileID:    profileID,
		Version:      0,
		IsActive:     true,
		FitWeight:    0.6,
		TimingWeight: 0.4,
		FitCriteria: map[string]store.FitCriterion{
			"employee_count":         {Weight: 0.20},
			"entity_count":           {Weight: 0.20},
			"erp_compatibility":      {Weight: 0.15},
			"no_existing_automation": {Weight: 0.15},
			"revenue":                {Weight: 0.15},
			"sector_fit":             {Weight: 0.10},
			"multi_language":         {Weight: 0.05},
		},
		TimingSignals: map[string]int{
			SignalVacancyAgeOver60Days:      3,
			SignalMultipleVacanciesSameRole: 4,
			SignalRepeatedPublication:       3,
			SignalMultiPlatform:             2,
			SignalManagementVacancy:         2,
		},
		Thresholds: store.Thresholds{Hot: 80, Warm: 60, Monitor: 40},
	}
}
