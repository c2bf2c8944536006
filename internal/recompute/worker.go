package recompute

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signalhouse/leadrank/internal/config"
	"github.com/signalhouse/leadrank/internal/events"
	"github.com/signalhouse/leadrank/internal/scoring"
	"github.com/signalhouse/leadrank/internal/store"
)

// Worker runs the asynchronous batch recompute that follows a scoring config
// commit: every lead of the profile gets its stored scores overwritten under
// the newly active config. Each write is guarded by an optimistic check on
// the active version, so a recompute overtaken by a second commit aborts
// without writing stale scores.
type Worker struct {
	store  store.Store
	events events.Client
	cfg    *config.Config
	logger *slog.Logger

	jobs chan events.RecomputeRequestEvent

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, e events.Client, cfg *config.Config, logger *slog.Logger) *Worker {
	return &Worker{
		store:  s,
		events: e,
		cfg:    cfg,
		logger: logger,
		jobs:   make(chan events.RecomputeRequestEvent, cfg.Recompute.QueueSize),
		stopCh: make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.loop(ctx)
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// SetupSubscriptions wires the worker to recompute requests arriving over
// the event bus. No-op when running without events.
func (w *Worker) SetupSubscriptions() {
	if w.events == nil {
		return
	}
	err := w.events.Subscribe(events.SubjectRecomputeRequest, func(_ string, data []byte) {
		var req events.RecomputeRequestEvent
		if err := json.Unmarshal(data, &req); err != nil {
			w.logger.Warn("invalid recompute request", "error", err)
			return
		}
		w.Enqueue(req)
	})
	if err != nil {
		w.logger.Error("failed to subscribe to recompute requests", "error", err)
	}
}

// Enqueue queues one recompute run. A full queue drops the request; the
// commit that triggered it can be re-run, and a later commit enqueues anew.
func (w *Worker) Enqueue(req events.RecomputeRequestEvent) {
	select {
	case w.jobs <- req:
	default:
		w.logger.Warn("recompute queue full, dropping request",
			"profile_id", req.ProfileID, "config_version", req.ConfigVersion)
	}
}

func (w *Worker) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case req := <-w.jobs:
			w.run(ctx, req)
		}
	}
}

func (w *Worker) run(ctx context.Context, req events.RecomputeRequestEvent) {
	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		w.logger.Warn("recompute request with invalid profile id", "profile_id", req.ProfileID)
		return
	}

	active, err := w.store.GetActiveScoringConfig(ctx, profileID)
	if err != nil {
		w.logger.Error("failed to load active config", "profile_id", profileID, "error", err)
		return
	}
	if active == nil || active.Version != req.ConfigVersion {
		w.abort(req, active, 0)
		return
	}

	leads, err := w.store.ListLeads(ctx, store.LeadFilter{
		ProfileID: profileID,
		Limit:     w.cfg.Recompute.LeadPageSize,
	})
	if err != nil {
		w.logger.Error("failed to load leads for recompute", "profile_id", profileID, "error", err)
		return
	}

	if w.events != nil {
		_ = w.events.Publish(events.SubjectRecomputeStarted(req.ProfileID), req)
	}

	scored := scoring.Rerank(leads, active)
	byID := make(map[uuid.UUID]*store.Lead, len(leads))
	for _, lead := range leads {
		byID[lead.ID] = lead
	}

	var counts scoring.TierCounts
	written := 0
	for i := range scored {
		lead := byID[scored[i].LeadID]
		delta := scored[i].Delta
		lead.StoredFitScore = scored[i].NewFitScore
		lead.StoredTimingScore = scored[i].NewTimingScore
		lead.StoredCompositeScore = scored[i].NewCompositeScore
		lead.StoredStatus = scored[i].NewStatus

		ok, err := w.store.UpdateLeadScoresIfActive(ctx, lead, active.Version)
		if err != nil {
			w.logger.Error("failed to write lead scores", "lead_id", lead.ID, "error", err)
			return
		}
		if !ok {
			// A newer commit superseded this run mid-flight.
			current, _ := w.store.GetActiveScoringConfig(ctx, profileID)
			w.abort(req, current, written)
			return
		}
		written++

		if w.events != nil && delta != 0 {
			_ = w.events.Publish(events.SubjectLeadRescored(lead.ID.String()), events.LeadRescoredEvent{
				LeadID:         lead.ID.String(),
				ProfileID:      req.ProfileID,
				CompositeScore: lead.StoredCompositeScore,
				Status:         string(lead.StoredStatus),
				Delta:          delta,
			})
		}

		switch scored[i].NewStatus {
		case store.StatusHot:
			counts.Hot++
		case store.StatusWarm:
			counts.Warm++
		case store.StatusMonitor:
			counts.Monitor++
		default:
			counts.Dismissed++
		}
	}

	w.logger.Info("recompute completed",
		"profile_id", profileID, "config_version", active.Version,
		"scored", written, "hot", counts.Hot, "warm", counts.Warm,
		"monitor", counts.Monitor, "dismissed", counts.Dismissed)

	if w.events != nil {
		_ = w.events.Publish(events.SubjectRecomputeCompleted(req.ProfileID), events.RecomputeCompletedEvent{
			ProfileID:     req.ProfileID,
			ConfigVersion: active.Version,
			Scored:        written,
			Hot:           counts.Hot,
			Warm:          counts.Warm,
			Monitor:       counts.Monitor,
			Dismissed:     counts.Dismissed,
			Timestamp:     time.Now().UTC(),
		})
	}
}

func (w *Worker) abort(req events.RecomputeRequestEvent, active *store.ScoringConfig, written int) {
	activeVersion := 0
	if active != nil {
		activeVersion = active.Version
	}
	w.logger.Warn("recompute aborted, config version superseded",
		"profile_id", req.ProfileID, "config_version", req.ConfigVersion,
		"active_version", activeVersion, "written", written)
	if w.events != nil {
		_ = w.events.Publish(events.SubjectRecomputeAborted(req.ProfileID), events.RecomputeAbortedEvent{
			ProfileID:     req.ProfileID,
			ConfigVersion: req.ConfigVersion,
			ActiveVersion: activeVersion,
			Written:       written,
		})
	}
}
