package events

const (
	StreamName   = "LEADRANK_EVENTS"
	StreamMaxAge = "720h" // 30 days

	scoringPrefix   = "leads.scoring"
	recomputePrefix = "leads.recompute"
	leadPrefix      = "leads.lead"

	SubjectRecomputeRequest = recomputePrefix + ".request"
)

// streamSubjects is every subject space the stream captures.
func streamSubjects() []string {
	return []string{scoringPrefix + ".>", recomputePrefix + ".>", leadPrefix + ".>"}
}

func SubjectConfigCommitted(profileID string) string {
	return scoringPrefix + "." + profileID + ".committed"
}

func SubjectRecomputeStarted(profileID string) string {
	return recomputePrefix + "." + profileID + ".started"
}

func SubjectRecomputeCompleted(profileID string) string {
	return recomputePrefix + "." + profileID + ".completed"
}

func SubjectRecomputeAborted(profileID string) string {
	return recomputePrefix + "." + profileID + ".aborted"
}

func SubjectLeadCreated(leadID string) string {
	return leadPrefix + "." + leadID + ".created"
}

func SubjectLeadRescored(leadID string) string {
	return leadPrefix + "." + leadID + ".rescored"
}
