package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const configColumns = `id, profile_id, version, is_active,
	fit_weight, timing_weight,
	fit_criteria, timing_signals, score_thresholds,
	created_at`

func (s *PostgresStore) GetActiveScoringConfig(ctx context.Context, profileID uuid.UUID) (*ScoringConfig, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+configColumns+`
		FROM scoring_configs
		WHERE profile_id = $1 AND is_active`, profileID)
	cfg, err := scanScoringConfig(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *PostgresStore) ListScoringConfigVersions(ctx context.Context, profileID uuid.UUID) ([]*ScoringConfig, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+configColumns+`
		FROM scoring_configs
		WHERE profile_id = $1
		ORDER BY version DESC`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*ScoringConfig
	for rows.Next() {
		cfg, err := scanScoringConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// CommitScoringConfig performs the active-version flip as one transaction:
// the profile is locked, the active version is compared against
// expectedVersion, and either superseded atomically or the commit fails with
// ErrCommitConflict. Version numbers are gapless because only the winner of
// the lock allocates, and the lock exists even before the first commit.
func (s *PostgresStore) CommitScoringConfig(ctx context.Context, cfg *ScoringConfig, expectedVersion int) (*ScoringConfig, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// A profile with no committed config has no row to FOR UPDATE, so the
	// row lock alone cannot serialize two first-time commits. The advisory
	// lock is per profile and held until commit/rollback.
	if _, err := tx.Exec(ctx, `
		SELECT pg_advisory_xact_lock(hashtext($1::text))`, cfg.ProfileID); err != nil {
		return nil, fmt.Errorf("lock profile: %w", err)
	}

	row := tx.QueryRow(ctx, `
		SELECT `+configColumns+`
		FROM scoring_configs
		WHERE profile_id = $1 AND is_active
		FOR UPDATE`, cfg.ProfileID)
	current, err := scanScoringConfig(row)
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("lock active config: %w", err)
	}

	currentVersion := 0
	if current != nil {
		currentVersion = current.Version
	}
	if currentVersion != expectedVersion {
		return nil, ErrCommitConflict
	}

	if current != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE scoring_configs SET is_active = false WHERE id = $1`, current.ID); err != nil {
			return nil, fmt.Errorf("deactivate config v%d: %w", current.Version, err)
		}
	}

	criteriaJSON, _ := json.Marshal(cfg.FitCriteria)
	signalsJSON, _ := json.Marshal(cfg.TimingSignals)
	thresholdsJSON, _ := json.Marshal(cfg.Thresholds)

	committed := *cfg
	committed.Version = currentVersion + 1
	committed.IsActive = true
	err = tx.QueryRow(ctx, `
		INSERT INTO scoring_configs (profile_id, version, is_active,
			fit_weight, timing_weight, fit_criteria, timing_signals, score_thresholds)
		VALUES ($1, $2, true, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		cfg.ProfileID, committed.Version,
		cfg.FitWeight, cfg.TimingWeight, criteriaJSON, signalsJSON, thresholdsJSON,
	).Scan(&committed.ID, &committed.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert config v%d: %w", committed.Version, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &committed, nil
}

func scanScoringConfig(row pgx.Row) (*ScoringConfig, error) {
	cfg := &ScoringConfig{}
	var criteriaJSON, signalsJSON, thresholdsJSON []byte
	err := row.Scan(
		&cfg.ID, &cfg.ProfileID, &cfg.Version, &cfg.IsActive,
		&cfg.FitWeight, &cfg.TimingWeight,
		&criteriaJSON, &signalsJSON, &thresholdsJSON,
		&cfg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if criteriaJSON != nil {
		_ = json.Unmarshal(criteriaJSON, &cfg.FitCriteria)
	}
	if signalsJSON != nil {
		_ = json.Unmarshal(signalsJSON, &cfg.TimingSignals)
	}
	if thresholdsJSON != nil {
		_ = json.Unmarshal(thresholdsJSON, &cfg.Thresholds)
	}
	return cfg, nil
}
