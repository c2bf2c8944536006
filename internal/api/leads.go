package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/signalhouse/leadrank/internal/events"
	"github.com/signalhouse/leadrank/internal/scoring"
	"github.com/signalhouse/leadrank/internal/store"
)

type LeadsHandler struct {
	store  store.Store
	events events.Client
}

func NewLeadsHandler(s store.Store, e events.Client) *LeadsHandler {
	return &LeadsHandler{store: s, events: e}
}

type createLeadRequest struct {
	Company      string                  `json:"company"`
	FitSubscores map[string]float64      `json:"fit_subscores"`
	Vacancies    scoring.VacancySnapshot `json:"vacancies"`
}

// List returns the profile's leads in stored ranking order.
// GET /api/v1/profiles/{profile_id}/leads
func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profile_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile_id"})
		return
	}

	filter := store.LeadFilter{ProfileID: profileID}
	if v := r.URL.Query().Get("status"); v != "" {
		status := store.Status(v)
		filter.Status = &status
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	leads, err := h.store.ListLeads(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if leads == nil {
		leads = []*store.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

// Create registers a lead from harvested company data. Timing signals are
// derived from the vacancy snapshot and the lead is scored under the
// profile's active config before the first write.
// POST /api/v1/profiles/{profile_id}/leads
func (h *LeadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "profile_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile_id"})
		return
	}

	var req createLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Company == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company required"})
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

	vector := store.ScoreVector{
		FitSubscores:  req.FitSubscores,
		TimingSignals: scoring.DeriveTimingSignals(req.Vacancies),
	}
	result := scoring.Score(vector, cfg)

	now := time.Now().UTC()
	lead := &store.Lead{
		ProfileID:            profileID,
		Company:              req.Company,
		Vector:               vector,
		StoredFitScore:       result.FitScore,
		StoredTimingScore:    result.TimingScore,
		StoredCompositeScore: result.CompositeScore,
		StoredStatus:         result.Status,
		VacancyCount:         req.Vacancies.VacancyCount,
		OldestVacancyDays:    req.Vacancies.OldestVacancyDays,
		PlatformCount:        req.Vacancies.PlatformCount,
		ScoredAt:             &now,
	}
	if err := h.store.CreateLead(r.Context(), lead); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectLeadCreated(lead.ID.String()), lead)
	}

	writeJSON(w, http.StatusCreated, lead)
}

// Explain returns a lead's stored scoring result alongside the raw vector it
// was computed from and the config version currently active for its profile.
// GET /api/v1/scoring/explain/{lead_id}
func (h *LeadsHandler) Explain(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "lead_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lead_id"})
		return
	}

	lead, err := h.store.GetLead(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if lead == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
		return
	}

	resp := map[string]interface{}{
		"lead_id":         lead.ID,
		"company":         lead.Company,
		"fit_score":       lead.StoredFitScore,
		"timing_score":    lead.StoredTimingScore,
		"composite_score": lead.StoredCompositeScore,
		"status":          lead.StoredStatus,
		"score_vector":    lead.Vector,
		"scored_at":       lead.ScoredAt,
	}

	cfg, err := h.store.GetActiveScoringConfig(r.Context(), lead.ProfileID)
	if err == nil && cfg != nil {
		resp["active_config_version"] = cfg.Version
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
