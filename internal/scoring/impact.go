package scoring

import (
	"github.com/signalhouse/leadrank/internal/store"
)

// TierCounts is the lead population per status tier.
type TierCounts struct {
	Hot       int `json:"hot"`
	Warm      int `json:"warm"`
	Monitor   int `json:"monitor"`
	Dismissed int `json:"dismissed"`
}

func (c *TierCounts) add(s store.Status) {
	switch s {
	case store.StatusHot:
		c.Hot++
	case store.StatusWarm:
		c.Warm++
	case store.StatusMonitor:
		c.Monitor++
	default:
		c.Dismissed++
	}
}

// Total returns the population across all tiers.
func (c TierCounts) Total() int {
	return c.Hot + c.Warm + c.Monitor + c.Dismissed
}

// ImpactSummary is the human-readable before/after comparison of what a
// prospective config change would do to the lead collection.
type ImpactSummary struct {
	Before        TierCounts  `json:"before"`
	After         TierCounts  `json:"after"`
	BiggestGainer *ScoredLead `json:"biggest_gainer,omitempty"`
	BiggestLoser  *ScoredLead `json:"biggest_loser,omitempty"`
}

// Summarize diffs a re-ranking run against the leads' stored tiers. Gainer
// and loser ties break on lowest lead ID for determinism. Empty input yields
// all-zero counts and no gainer/loser; it is not an error.
func Summarize(scored []ScoredLead, leads []*store.Lead) ImpactSummary {
	var summary ImpactSummary

	for _, lead := range leads {
		summary.Before.add(lead.StoredStatus)
	}

	for i := range scored {
		summary.After.add(scored[i].NewStatus)

		if summary.BiggestGainer == nil || beats(scored[i], *summary.BiggestGainer, true) {
			s := scored[i]
			summary.BiggestGainer = &s
		}
		if summary.BiggestLoser == nil || beats(scored[i], *summary.BiggestLoser, false) {
			s := scored[i]
			summary.BiggestLoser = &s
		}
	}

	return summary
}

// beats reports whether candidate displaces current as the extreme delta.
// gainer selects for maximum delta, otherwise minimum.
func beats(candidate, current ScoredLead, gainer bool) bool {
	if candidate.Delta != current.Delta {
		if gainer {
			return candidate.Delta > current.Delta
		}
		return candidate.Delta < current.Delta
	}
	return candidate.LeadID.String() < current.LeadID.String()
}
