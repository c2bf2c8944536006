// seed_leads.go — standalone script to seed leads from a CSV via the leadrank API.
//
// CSV columns: company, then the seven fit sub-scores (0-5), then
// vacancy_count, oldest_days, platform_count, reposted_span_days, and a
// semicolon-separated list of job titles.
//
// Usage:
//
//	go run scripts/seed_leads.go -csv leads.csv -api http://localhost:8700 -profile <uuid>
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

var fitColumns = []string{
	"employee_count", "entity_count", "erp_compatibility",
	"no_existing_automation", "revenue", "sector_fit", "multi_language",
}

type vacancySnapshot struct {
	VacancyCount      int      `json:"vacancy_count"`
	OldestVacancyDays int      `json:"oldest_vacancy_days"`
	PlatformCount     int      `json:"platform_count"`
	RepostedSpanDays  int      `json:"reposted_span_days"`
	JobTitles         []string `json:"job_titles,omitempty"`
}

type createLeadRequest struct {
	Company      string             `json:"company"`
	FitSubscores map[string]float64 `json:"fit_subscores"`
	Vacancies    vacancySnapshot    `json:"vacancies"`
}

func main() {
	csvPath := flag.String("csv", "leads.csv", "path to CSV file")
	apiURL := flag.String("api", "http://localhost:8700", "leadrank API base URL")
	profileID := flag.String("profile", "", "profile UUID to attach leads to")
	flag.Parse()

	if *profileID == "" {
		log.Fatal("-profile is required")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		log.Fatalf("read csv: %v", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/profiles/%s/leads", *apiURL, *profileID)
	created := 0
	for i, rec := range records {
		if i == 0 && rec[0] == "company" {
			continue // header row
		}
		req, err := parseRecord(rec)
		if err != nil {
			log.Printf("row %d: %v, skipping", i+1, err)
			continue
		}
		if err := postLead(endpoint, req); err != nil {
			log.Printf("row %d (%s): %v", i+1, req.Company, err)
			continue
		}
		created++
	}
	fmt.Printf("created %d leads\n", created)
}

func parseRecord(rec []string) (*createLeadRequest, error) {
	want := 1 + len(fitColumns) + 4 + 1
	if len(rec) < want {
		return nil, fmt.Errorf("expected %d columns, got %d", want, len(rec))
	}

	req := &createLeadRequest{
		Company:      strings.TrimSpace(rec[0]),
		FitSubscores: make(map[string]float64, len(fitColumns)),
	}
	for i, col := range fitColumns {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[1+i]), 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		req.FitSubscores[col] = v
	}

	base := 1 + len(fitColumns)
	ints := make([]int, 4)
	for i := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(rec[base+i]))
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", base+i, err)
		}
		ints[i] = v
	}
	req.Vacancies = vacancySnapshot{
		VacancyCount:      ints[0],
		OldestVacancyDays: ints[1],
		PlatformCount:     ints[2],
		RepostedSpanDays:  ints[3],
	}
	if titles := strings.TrimSpace(rec[base+4]); titles != "" {
		req.Vacancies.JobTitles = strings.Split(titles, ";")
	}
	return req, nil
}

func postLead(endpoint string, req *createLeadRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	resp, err := http.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("API returned %s", resp.Status)
	}
	return nil
}
