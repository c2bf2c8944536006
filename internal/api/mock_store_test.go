package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signalhouse/leadrank/internal/store"
)

// mockStore is an in-memory Store with the same commit semantics as the
// Postgres implementation, including the active-version compare-and-swap.
type mockStore struct {
	mu      sync.Mutex
	configs map[uuid.UUID][]*store.ScoringConfig
	leads   map[uuid.UUID]*store.Lead
}

func newMockStore() *mockStore {
	return &mockStore{
		configs: make(map[uuid.UUID][]*store.ScoringConfig),
		leads:   make(map[uuid.UUID]*store.Lead),
	}
}

func (m *mockStore) GetActiveScoringConfig(_ context.Context, profileID uuid.UUID) (*store.ScoringConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked(profileID), nil
}

func (m *mockStore) activeLocked(profileID uuid.UUID) *store.ScoringConfig {
	for _, cfg := range m.configs[profileID] {
		if cfg.IsActive {
			return cfg
		}
	}
	return nil
}

func (m *mockStore) ListScoringConfigVersions(_ context.Context, profileID uuid.UUID) ([]*store.ScoringConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	versions := append([]*store.ScoringConfig(nil), m.configs[profileID]...)
	sort.Slice(versions, func(i, j int) bool { return versions[i].Version > versions[j].Version })
	return versions, nil
}

func (m *mockStore) CommitScoringConfig(_ context.Context, cfg *store.ScoringConfig, expectedVersion int) (*store.ScoringConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.activeLocked(cfg.ProfileID)
	currentVersion := 0
	if current != nil {
		currentVersion = current.Version
	}
	if currentVersion != expectedVersion {
		return nil, store.ErrCommitConflict
	}
	if current != nil {
		current.IsActive = false
	}

	committed := *cfg
	committed.ID = uuid.New()
	committed.Version = currentVersion + 1
	committed.IsActive = true
	committed.CreatedAt = time.Now()
	m.configs[cfg.ProfileID] = append(m.configs[cfg.ProfileID], &committed)
	return &committed, nil
}

func (m *mockStore) CreateLead(_ context.Context, lead *store.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = time.Now()
	m.leads[lead.ID] = lead
	return nil
}

func (m *mockStore) GetLead(_ context.Context, id uuid.UUID) (*store.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return nil, nil
	}
	cp := *lead
	return &cp, nil
}

func (m *mockStore) ListLeads(_ context.Context, filter store.LeadFilter) ([]*store.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Lead
	for _, lead := range m.leads {
		if lead.ProfileID != filter.ProfileID {
			continue
		}
		if filter.Status != nil && lead.StoredStatus != *filter.Status {
			continue
		}
		cp := *lead
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StoredCompositeScore > out[j].StoredCompositeScore
	})
	return out, nil
}

func (m *mockStore) UpdateLeadScores(_ context.Context, lead *store.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[lead.ID] = lead
	return nil
}

func (m *mockStore) UpdateLeadScoresIfActive(_ context.Context, lead *store.Lead, configVersion int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := m.activeLocked(lead.ProfileID)
	if active == nil || active.Version != configVersion {
		return false, nil
	}
	m.leads[lead.ID] = lead
	return true, nil
}

func (m *mockStore) Close() error { return nil }
