package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/signalhouse/leadrank/internal/events"
	"github.com/signalhouse/leadrank/internal/recompute"
	"github.com/signalhouse/leadrank/internal/scoring"
	"github.com/signalhouse/leadrank/internal/store"
)

type ScoringHandler struct {
	store  store.Store
	events events.Client
	worker *recompute.Worker
	logger *slog.Logger
}

func NewScoringHandler(s store.Store, e events.Client, w *recompute.Worker, logger *slog.Logger) *ScoringHandler {
	return &ScoringHandler{store: s, events: e, worker: w, logger: logger}
}

// configRequest carries an operator's edited scoring parameters. Fields left
// nil inherit from the config the edit was based on.
type configRequest struct {
	FitWeight      *float64                      `json:"fit_weight,omitempty"`
	TimingWeight   *float64                      `json:"timing_weight,omitempty"`
	FitCriteria    map[string]store.FitCriterion `json:"fit_criteria,omitempty"`
	TimingSignals  map[string]int                `json:"timing_signals,omitempty"`
	Thresholds     *store.Thresholds             `json:"score_thresholds,omitempty"`
	BasedOnVersion int                           `json:"based_on_version"`
}

// GetActive returns the active scoring config for a profile, or the seed
// defaults when nothing has been committed yet.
// GET /api/v1/profiles/{profile_id}/scoring
func (h *ScoringHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profile_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile_id"})
		return
	}

	cfg, err := h.store.GetActiveScoringConfig(r.Context(), profileID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if cfg == nil {
		cfg = scoring.DefaultConfig(profileID)
	}
	writeJSON(w, http.StatusOK, cfg)
}

// Versions lists every config version for a profile, newest first.
// GET /api/v1/profiles/{profile_id}/scoring/versions
func (h *ScoringHandler) Versions(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profile_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile_id"})
		return
	}

	versions, err := h.store.ListScoringConfigVersions(r.Context(), profileID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if versions == nil {
		versions = []*store.ScoringConfig{}
	}
	writeJSON(w, http.StatusOK, versions)
}

// Preview re-ranks the profile's leads under a candidate config without
// persisting anything. Validation issues come back as warnings; scores are
// still computed with the weights as entered.
// POST /api/v1/profiles/{profile_id}/scoring/preview
func (h *ScoringHandler) Preview(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profile_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile_id"})
		return
	}

	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	candidate, err := h.buildCandidate(r, profileID, &req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	leads, err := h.store.ListLeads(r.Context(), store.LeadFilter{ProfileID: profileID})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	scored := scoring.Rerank(leads, candidate)
	impact := scoring.Summarize(scored, leads)
	validation := scoring.Validate(candidate)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"validation":   validation,
		"scored_leads": scored,
		"impact":       impact,
	})
}

// Commit validates strictly, then atomically activates the candidate as the
// next config version and enqueues the batch recompute.
// PUT /api/v1/profiles/{profile_id}/scoring
func (h *ScoringHandler) Commit(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profile_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile_id"})
		return
	}

	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	candidate, err := h.buildCandidate(r, profileID, &req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if validation := scoring.Validate(candidate); !validation.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":      "scoring config failed validation",
			"validation": validation,
		})
		return
	}

	committed, err := h.store.CommitScoringConfig(r.Context(), candidate, req.BasedOnVersion)
	if errors.Is(err, store.ErrCommitConflict) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "a newer config version was committed concurrently; re-fetch and retry",
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	h.logger.Info("scoring config committed",
		"profile_id", profileID, "version", committed.Version)

	if h.events != nil {
		_ = h.events.Publish(events.SubjectConfigCommitted(profileID.String()), events.ConfigCommittedEvent{
			ProfileID:    profileID.String(),
			Version:      committed.Version,
			FitWeight:    committed.FitWeight,
			TimingWeight: committed.TimingWeight,
		})
	}
	if h.worker != nil {
		h.worker.Enqueue(events.RecomputeRequestEvent{
			ProfileID:     profileID.String(),
			ConfigVersion: committed.Version,
		})
	}

	writeJSON(w, http.StatusOK, committed)
}

// Run enqueues a full recompute of the profile's leads under the currently
// active config, without committing anything. Useful after bulk lead imports
// or a worker restart.
// POST /api/v1/profiles/{profile_id}/scoring/run
func (h *ScoringHandler) Run(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profile_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile_id"})
		return
	}

	active, err := h.store.GetActiveScoringConfig(r.Context(), profileID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if active == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no committed scoring config to run"})
		return
	}
	if h.worker == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "recompute worker unavailable"})
		return
	}

	h.worker.Enqueue(events.RecomputeRequestEvent{
		ProfileID:     profileID.String(),
		ConfigVersion: active.Version,
	})
	h.logger.Info("recompute requested", "profile_id", profileID, "config_version", active.Version)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"profile_id":     profileID,
		"config_version": active.Version,
	})
}

// buildCandidate merges the request over the config the edit was based on:
// the active version when one exists, the seed defaults otherwise.
func (h *ScoringHandler) buildCandidate(r *http.Request, profileID uuid.UUID, req *configRequest) (*store.ScoringConfig, error) {
	base, err := h.store.GetActiveScoringConfig(r.Context(), profileID)
	if err != nil {
		return nil, err
	}
	if base == nil {
		base = scoring.DefaultConfig(profileID)
	}

	candidate := *base
	if req.FitWeight != nil {
		candidate.FitWeight = *req.FitWeight
	}
	if req.TimingWeight != nil {
		candidate.TimingWeight = *req.TimingWeight
	}
	if req.FitCriteria != nil {
		candidate.FitCriteria = req.FitCriteria
	}
	if req.TimingSignals != nil {
		candidate.TimingSignals = req.TimingSignals
	}
	if req.Thresholds != nil {
		candidate.Thresholds = *req.Thresholds
	}
	return &candidate, nil
}
