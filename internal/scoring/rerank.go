package scoring

import (
	"sort"

	"github.com/google/uuid"

	"github.com/signalhouse/leadrank/internal/store"
)

// ScoredLead is the engine's per-lead output for one re-ranking run. It is
// ephemeral: the engine never writes it back itself.
type ScoredLead struct {
	LeadID            uuid.UUID    `json:"lead_id"`
	Company           string       `json:"company"`
	NewFitScore       int          `json:"new_fit_score"`
	NewTimingScore    int          `json:"new_timing_score"`
	NewCompositeScore int          `json:"new_composite_score"`
	NewStatus         store.Status `json:"new_status"`
	Delta             int          `json:"delta"`
}

// Rerank scores every lead under cfg and returns them sorted descending by
// new composite score. The sort is stable: ties retain input order, so an
// unchanged config re-ranks to an identical ordering.
//
// Rerank never mutates the leads and performs no I/O; it is safe to call on
// every keystroke of a weight slider.
func Rerank(leads []*store.Lead, cfg *store.ScoringConfig) []ScoredLead {
	scored := make([]ScoredLead, 0, len(leads))
	for _, lead := range leads {
		r := Score(lead.Vector, cfg)
		scored = append(scored, ScoredLead{
			LeadID:            lead.ID,
			Company:           lead.Company,
			NewFitScore:       r.FitScore,
			NewTimingScore:    r.TimingScore,
			NewCompositeScore: r.CompositeScore,
			NewStatus:         r.Status,
			Delta:             r.CompositeScore - lead.StoredCompositeScore,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].NewCompositeScore > scored[j].NewCompositeScore
	})
	return scored
}
