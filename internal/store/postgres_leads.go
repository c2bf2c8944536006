package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const leadColumns = `id, profile_id, company, score_vector,
	fit_score, timing_score, composite_score, status,
	vacancy_count, oldest_vacancy_days, platform_count,
	scored_at, created_at, updated_at`

func (s *PostgresStore) CreateLead(ctx context.Context, lead *Lead) error {
	vectorJSON, _ := json.Marshal(lead.Vector)

	return s.pool.QueryRow(ctx, `
		INSERT INTO leads (profile_id, company, score_vector,
			fit_score, timing_score, composite_score, status,
			vacancy_count, oldest_vacancy_days, platform_count, scored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		lead.ProfileID, lead.Company, vectorJSON,
		lead.StoredFitScore, lead.StoredTimingScore, lead.StoredCompositeScore, lead.StoredStatus,
		lead.VacancyCount, lead.OldestVacancyDays, lead.PlatformCount, lead.ScoredAt,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

func (s *PostgresStore) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE profile_id = $1`
	args := []interface{}{filter.ProfileID}
	n := 1

	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, string(*filter.Status))
	}

	query += " ORDER BY composite_score DESC, created_at ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (s *PostgresStore) UpdateLeadScores(ctx context.Context, lead *Lead) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE leads SET
			fit_score = $2, timing_score = $3, composite_score = $4, status = $5,
			scored_at = now(), updated_at = now()
		WHERE id = $1`,
		lead.ID,
		lead.StoredFitScore, lead.StoredTimingScore, lead.StoredCompositeScore, lead.StoredStatus,
	)
	return err
}

// UpdateLeadScoresIfActive guards the write with "configVersion is still the
// active scoring config for this lead's profile". A superseded version makes
// the UPDATE match nothing, which is how an in-flight recompute detects it
// lost to a newer commit.
func (s *PostgresStore) UpdateLeadScoresIfActive(ctx context.Context, lead *Lead, configVersion int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE leads SET
			fit_score = $2, timing_score = $3, composite_score = $4, status = $5,
			scored_at = now(), updated_at = now()
		WHERE id = $1 AND EXISTS (
			SELECT 1 FROM scoring_configs c
			WHERE c.profile_id = leads.profile_id AND c.is_active AND c.version = $6
		)`,
		lead.ID,
		lead.StoredFitScore, lead.StoredTimingScore, lead.StoredCompositeScore, lead.StoredStatus,
		configVersion,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	lead := &Lead{}
	var vectorJSON []byte
	err := row.Scan(
		&lead.ID, &lead.ProfileID, &lead.Company, &vectorJSON,
		&lead.StoredFitScore, &lead.StoredTimingScore, &lead.StoredCompositeScore, &lead.StoredStatus,
		&lead.VacancyCount, &lead.OldestVacancyDays, &lead.PlatformCount,
		&lead.ScoredAt, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if vectorJSON != nil {
		_ = json.Unmarshal(vectorJSON, &lead.Vector)
	}
	return lead, nil
}
