package events

import "time"

type ConfigCommittedEvent struct {
	ProfileID    string  `json:"profile_id"`
	Version      int     `json:"version"`
	FitWeight    float64 `json:"fit_weight"`
	TimingWeight float64 `json:"timing_weight"`
	CommittedBy  string  `json:"committed_by,omitempty"`
}

type RecomputeRequestEvent struct {
	ProfileID     string `json:"profile_id"`
	ConfigVersion int    `json:"config_version"`
}

type RecomputeCompletedEvent struct {
	ProfileID     string    `json:"profile_id"`
	ConfigVersion int       `json:"config_version"`
	Scored        int       `json:"scored"`
	Hot           int       `json:"hot"`
	Warm          int       `json:"warm"`
	Monitor       int       `json:"monitor"`
	Dismissed     int       `json:"dismissed"`
	Timestamp     time.Time `json:"timestamp"`
}

type RecomputeAbortedEvent struct {
	ProfileID     string `json:"profile_id"`
	ConfigVersion int    `json:"config_version"`
	ActiveVersion int    `json:"active_version"`
	Written       int    `json:"written"`
}

type LeadRescoredEvent struct {
	LeadID         string `json:"lead_id"`
	ProfileID      string `json:"profile_id"`
	CompositeScore int    `json:"composite_score"`
	Status         string `json:"status"`
	Delta          int    `json:"delta"`
}
