package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the tier a lead is classified into from its composite score.
type Status string

const (
	StatusHot       Status = "hot"
	StatusWarm      Status = "warm"
	StatusMonitor   Status = "monitor"
	StatusDismissed Status = "dismissed"
)

// ErrCommitConflict is returned when a scoring config commit loses the
// active-version race to a concurrent commit. Callers should re-fetch the
// now-active config and re-apply their edits on top of it.
var ErrCommitConflict = errors.New("scoring config commit conflict: active version changed")

// ScoreVector holds the raw per-lead inputs scoring is computed from.
// Keys referenced by a config but absent here read as zero / not fired.
type ScoreVector struct {
	FitSubscores  map[string]float64 `json:"fit_subscores"`
	TimingSignals map[string]bool    `json:"timing_signals"`
}

// FitCriterion is one weighted fit criterion. Max is the criterion-specific
// sub-score ceiling; zero means the default of 5.
type FitCriterion struct {
	Weight float64 `json:"weight"`
	Max    float64 `json:"max,omitempty"`
}

// EffectiveMax returns the sub-score ceiling for the criterion.
func (c FitCriterion) EffectiveMax() float64 {
	if c.Max > 0 {
		return c.Max
	}
	return 5
}

// Thresholds are the composite-score cut points per tier. Scores below
// Monitor classify as dismissed.
type Thresholds struct {
	Hot     int `json:"hot"`
	Warm    int `json:"warm"`
	Monitor int `json:"monitor"`
}

// ScoringConfig is one immutable, profile-scoped version of the scoring
// parameters. Exactly one version per profile is active at any time.
type ScoringConfig struct {
	ID            uuid.UUID               `json:"id"`
	ProfileID     uuid.UUID               `json:"profile_id"`
	Version       int                     `json:"version"`
	IsActive      bool                    `json:"is_active"`
	FitWeight     float64                 `json:"fit_weight"`
	TimingWeight  float64                 `json:"timing_weight"`
	FitCriteria   map[string]FitCriterion `json:"fit_criteria"`
	TimingSignals map[string]int          `json:"timing_signals"`
	Thresholds    Thresholds              `json:"score_thresholds"`
	CreatedAt     time.Time               `json:"created_at"`
}

// Lead is a company inferred to need the product, as the engine consumes it.
// The Stored* fields are the last persisted scoring result and form the
// "before" side of any re-ranking diff.
type Lead struct {
	ID        uuid.UUID   `json:"id"`
	ProfileID uuid.UUID   `json:"profile_id"`
	Company   string      `json:"company"`
	Vector    ScoreVector `json:"score_vector"`

	StoredFitScore       int    `json:"fit_score"`
	StoredTimingScore    int    `json:"timing_score"`
	StoredCompositeScore int    `json:"composite_score"`
	StoredStatus         Status `json:"status"`

	// Vacancy stats the timing signals were derived from.
	VacancyCount      int `json:"vacancy_count"`
	OldestVacancyDays int `json:"oldest_vacancy_days"`
	PlatformCount     int `json:"platform_count"`

	ScoredAt  *time.Time `json:"scored_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type LeadFilter struct {
	ProfileID uuid.UUID
	Status    *Status
	Limit     int
	Offset    int
}

type Store interface {
	// GetActiveScoringConfig returns the active config for a profile,
	// or (nil, nil) when the profile has never committed one.
	GetActiveScoringConfig(ctx context.Context, profileID uuid.UUID) (*ScoringConfig, error)
	ListScoringConfigVersions(ctx context.Context, profileID uuid.UUID) ([]*ScoringConfig, error)

	// CommitScoringConfig atomically deactivates the current active version
	// and inserts cfg as version max+1, active. expectedVersion is the active
	// version the caller based its edits on (0 when none existed); a mismatch
	// returns ErrCommitConflict and nothing changes.
	CommitScoringConfig(ctx context.Context, cfg *ScoringConfig, expectedVersion int) (*ScoringConfig, error)

	CreateLead(ctx context.Context, lead *Lead) error
	GetLead(ctx context.Context, id uuid.UUID) (*Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	UpdateLeadScores(ctx context.Context, lead *Lead) error

	// UpdateLeadScoresIfActive writes the lead's stored scores only while
	// configVersion is still the active config for its profile. Returns
	// false when the write was skipped because the version was superseded.
	UpdateLeadScoresIfActive(ctx context.Context, lead *Lead, configVersion int) (bool, error)

	Close() error
}
