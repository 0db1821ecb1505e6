package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"reelsync/internal/catalog"
	"reelsync/internal/identification"
	"reelsync/internal/logging"
	"reelsync/internal/notifications"
	"reelsync/internal/services"
)

// Dependencies are the collaborators a Runner drives.
type Dependencies struct {
	Store    Store
	Provider identification.Provider
	// Matcher defaults to a matcher over Provider with default thresholds.
	Matcher  *identification.Matcher
	Prompter Prompter
	// Calendar nil disables reminders.
	Calendar Calendar
	Notifier notifications.Service
	Logger   *slog.Logger
	Clock    func() time.Time
	Sleep    func(context.Context, time.Duration) error
}

// Summary counts what a run did.
type Summary struct {
	RunID            string
	Entries          int
	Enriched         int
	Deferred         int
	Skipped          int
	Failed           int
	TagsBackfilled   int
	RemindersCreated int
	Duration         time.Duration
}

func (s Summary) payload() notifications.Payload {
	return notifications.Payload{
		"enriched":          s.Enriched,
		"deferred":          s.Deferred,
		"skipped":           s.Skipped,
		"failed":            s.Failed,
		"tags_backfilled":   s.TagsBackfilled,
		"reminders_created": s.RemindersCreated,
	}
}

// Runner executes enrichment passes.
type Runner struct {
	store    Store
	provider identification.Provider
	matcher  *identification.Matcher
	resolver *identification.Resolver
	prompter Prompter
	calendar Calendar
	notifier notifications.Service
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

// NewRunner validates the dependencies and builds a Runner.
func NewRunner(deps Dependencies, opts Options) (*Runner, error) {
	if deps.Store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrichment", "new runner", "store required", nil)
	}
	if deps.Provider == nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrichment", "new runner", "metadata provider required", nil)
	}
	r := &Runner{
		store:    deps.Store,
		provider: deps.Provider,
		matcher:  deps.Matcher,
		resolver: identification.NewResolver(deps.Provider),
		prompter: deps.Prompter,
		calendar: deps.Calendar,
		notifier: deps.Notifier,
		opts:     opts,
		logger:   logging.NewComponentLogger(deps.Logger, "enrichment"),
		now:      deps.Clock,
		sleep:    deps.Sleep,
	}
	if r.matcher == nil {
		r.matcher = identification.NewMatcher(deps.Provider, identification.WithLogger(deps.Logger))
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.sleep == nil {
		r.sleep = sleepContext
	}
	return r, nil
}

// Run executes pass A, then B and C unless skipped.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	return r.run(ctx, "enrich", func(ctx context.Context, entries []catalog.Entry, summary *Summary) error {
		if err := r.enrichAll(ctx, entries, summary); err != nil {
			return err
		}
		if !r.opts.SkipBackfill {
			if err := r.backfillTags(ctx, entries, summary); err != nil {
				return err
			}
		}
		if !r.opts.SkipCalendar {
			return r.syncReminders(ctx, entries, summary)
		}
		return nil
	})
}

// BackfillTags executes pass B only.
func (r *Runner) BackfillTags(ctx context.Context) (Summary, error) {
	return r.run(ctx, "backfill", r.backfillTags)
}

// SyncCalendar executes pass C only.
func (r *Runner) SyncCalendar(ctx context.Context) (Summary, error) {
	return r.run(ctx, "calendar", r.syncReminders)
}

type passFunc func(ctx context.Context, entries []catalog.Entry, summary *Summary) error

// run loads the catalog and executes pass under a run id. Errors and panics
// stop the run and are logged once here.
func (r *Runner) run(ctx context.Context, name string, pass passFunc) (summary Summary, err error) {
	summary.RunID = uuid.NewString()
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	start := r.now()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s run panicked: %v", name, rec)
		}
		summary.Duration = r.now().Sub(start)
		if err != nil {
			logging.ErrorWithContext(logger, name+" run aborted", "run_aborted",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, services.Hint(err)),
			)
			r.publish(ctx, notifications.EventError, notifications.Payload{"context": name, "error": err.Error()})
			return
		}
		logger.Info(name+" run complete",
			logging.Int("entries", summary.Entries),
			logging.Int("enriched", summary.Enriched),
			logging.Int("deferred", summary.Deferred),
			logging.Int("skipped", summary.Skipped),
			logging.Int("failed", summary.Failed),
			logging.Int("tags_backfilled", summary.TagsBackfilled),
			logging.Int("reminders_created", summary.RemindersCreated),
			logging.Duration("duration", summary.Duration),
		)
		r.publish(ctx, notifications.EventRunCompleted, summary.payload())
	}()

	entries, err := r.store.ListEntries(ctx)
	if err != nil {
		return summary, err
	}
	summary.Entries = len(entries)
	logger.Info(name+" run started", logging.Int("entries", len(entries)))
	err = pass(ctx, entries, &summary)
	return summary, err
}

func (r *Runner) publish(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Publish(ctx, event, payload); err != nil {
		logging.WarnWithContext(r.logger, "notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "notification not delivered"),
		)
	}
}

// fatal reports whether an entry-level error must stop the whole run.
func fatal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, services.ErrConfiguration) || errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
