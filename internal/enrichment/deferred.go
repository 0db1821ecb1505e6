package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reelsync/internal/catalog"
	"reelsync/internal/logging"
	"reelsync/internal/notifications"
	"reelsync/internal/pending"
	"reelsync/internal/services"
)

// PendingQueue stores deferred choices.
type PendingQueue interface {
	Defer(ctx context.Context, d pending.Decision) error
}

// DeferPrompter answers every manual choice by parking it in the pending
// queue. It is the prompter for unattended runs.
type DeferPrompter struct {
	queue    PendingQueue
	notifier notifications.Service
	logger   *slog.Logger
}

// NewDeferPrompter builds a DeferPrompter. notifier may be nil.
func NewDeferPrompter(queue PendingQueue, notifier notifications.Service, logger *slog.Logger) *DeferPrompter {
	return &DeferPrompter{
		queue:    queue,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "pending"),
	}
}

// Prompt stores the request and reports ChoiceDeferred.
func (p *DeferPrompter) Prompt(ctx context.Context, req ChoiceRequest) (ChoiceResult, error) {
	err := p.queue.Defer(ctx, pending.Decision{
		PageID:      req.Entry.ID,
		Title:       req.Entry.Title,
		Query:       req.Query,
		Year:        req.Year,
		ResultCount: req.ResultCount,
		Reason:      req.Reason,
		Candidates:  req.Ranked,
	})
	if err != nil {
		return ChoiceResult{}, fmt.Errorf("defer choice: %w", err)
	}
	logging.WithContext(ctx, p.logger).Info("manual choice deferred",
		logging.String("title", req.Entry.Title),
		logging.Int("candidates", len(req.Ranked)),
	)
	if p.notifier != nil {
		payload := notifications.Payload{"title": req.Entry.Title, "candidates": len(req.Ranked)}
		if err := p.notifier.Publish(ctx, notifications.EventPendingReview, payload); err != nil {
			logging.WarnWithContext(p.logger, "pending review notification failed", "notification_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "deferred choice stored without notification"),
			)
		}
	}
	return ChoiceResult{Kind: ChoiceDeferred}, nil
}

// ResolveQueue is the pending queue as seen by an interactive session.
type ResolveQueue interface {
	List(ctx context.Context) ([]pending.Decision, error)
	Resolve(ctx context.Context, pageID string, tmdbID int64) error
	Drop(ctx context.Context, pageID string) error
}

// ResolvePending replays every deferred choice through prompter. Applied
// choices are resolved; cancelled ones stay queued. Pages that vanished or
// were enriched meanwhile are dropped.
func (r *Runner) ResolvePending(ctx context.Context, queue ResolveQueue, prompter Prompter) (Summary, error) {
	summary := Summary{}
	decisions, err := queue.List(ctx)
	if err != nil {
		return summary, err
	}
	summary.Entries = len(decisions)
	for _, d := range decisions {
		entryCtx := services.WithPageID(ctx, d.PageID)
		logger := logging.WithContext(entryCtx, r.logger)

		entry, err := r.store.Entry(entryCtx, d.PageID)
		switch {
		case errors.Is(err, services.ErrNotFound):
			logger.Info("page gone, dropping pending choice", logging.String("title", d.Title))
			if err := queue.Drop(ctx, d.PageID); err != nil {
				return summary, err
			}
			summary.Skipped++
			continue
		case err != nil:
			if fatal(ctx, err) {
				return summary, err
			}
			summary.Failed++
			r.warnEntry(entryCtx, "load pending page failed", "pending_load_failed", err)
			continue
		}
		if entry.Enriched {
			logger.Info("page already enriched, dropping pending choice", logging.String("title", entry.Title))
			if err := queue.Drop(ctx, d.PageID); err != nil {
				return summary, err
			}
			summary.Skipped++
			continue
		}

		result, applied, err := r.ask(entryCtx, prompter, requestFromDecision(entry, d))
		if err != nil {
			if fatal(ctx, err) {
				return summary, err
			}
			summary.Failed++
			r.warnEntry(entryCtx, "pending choice failed", "pending_apply_failed", err)
			continue
		}
		switch result {
		case outcomeEnriched:
			if err := queue.Resolve(ctx, d.PageID, applied.ID); err != nil {
				return summary, err
			}
			summary.Enriched++
		case outcomeDeferred:
			summary.Deferred++
		default:
			summary.Skipped++
		}
	}
	return summary, nil
}

func requestFromDecision(entry catalog.Entry, d pending.Decision) ChoiceRequest {
	return ChoiceRequest{
		Entry:       entry,
		Ranked:      d.Candidates,
		Query:       d.Query,
		Year:        d.Year,
		ResultCount: d.ResultCount,
		Reason:      d.Reason,
	}
}
