package scoring

import "strings"

// Timing signal keys. Each signal either fires or does not; there is no
// partial credit.
const (
	SignalVacancyAgeOver60Days      = "vacancy_age_over_60_days"
	SignalMultipleVacanciesSameRole = "multiple_vacancies_same_role"
	SignalRepeatedPublication       = "repeated_publication"
	SignalMultiPlatform             = "multi_platform"
	SignalManagementVacancy         = "management_vacancy"
)

// managementKeywords mark a vacancy title as a senior/lead hire, a proxy for
// a bigger underlying need.
var managementKeywords = []string{
	"manager", "teamleider", "hoofd", "director", "lead", "senior",
}

// VacancySnapshot summarizes a company's active vacancies as harvested.
// It is the raw material timing signals are derived from.
type VacancySnapshot struct {
	VacancyCount      int      `json:"vacancy_count"`
	OldestVacancyDays int      `json:"oldest_vacancy_days"`
	PlatformCount     int      `json:"platform_count"`
	RepostedSpanDays  int      `json:"reposted_span_days"`
	JobTitles         []string `json:"job_titles,omitempty"`
}

// DeriveTimingSignals computes the boolean timing signals from a vacancy
// snapshot. Point values are a config concern; this only decides which
// signals fired.
func DeriveTimingSignals(snap VacancySnapshot) map[string]bool {
	signals := map[string]bool{
		SignalVacancyAgeOver60Days:      snap.OldestVacancyDays > 60,
		SignalMultipleVacanciesSameRole: snap.VacancyCount >= 2,
		SignalRepeatedPublication:       snap.RepostedSpanDays > 14,
		SignalMultiPlatform:             snap.PlatformCount >= 2,
		SignalManagementVacancy:         hasManagementTitle(snap.JobTitles),
	}
	return signals
}

func hasManagementTitle(titles []string) bool {
	for _, title := range titles {
		lower := strings.ToLower(title)
		for _, kw := range managementKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
