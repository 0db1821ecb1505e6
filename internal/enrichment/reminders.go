package enrichment

import (
	"context"
	"strings"
	"time"

	"reelsync/internal/calendar"
	"reelsync/internal/catalog"
	"reelsync/internal/logging"
	"reelsync/internal/services"
)

// syncReminders creates a reminder the day before each future release. An
// existing event with the page UID, or with the title on the reminder day,
// suppresses creation.
func (r *Runner) syncReminders(ctx context.Context, entries []catalog.Entry, summary *Summary) error {
	if r.calendar == nil {
		r.logger.Info("calendar reminders disabled")
		return nil
	}
	now := r.now()
	for _, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" || entry.ReleaseDate == nil || !entry.ReleaseDate.After(now) {
			continue
		}
		entryCtx := services.WithPageID(ctx, entry.ID)
		created, err := r.ensureReminder(entryCtx, entry.ID, title, *entry.ReleaseDate)
		if err != nil {
			if fatal(ctx, err) {
				return err
			}
			summary.Failed++
			r.warnEntry(entryCtx, "reminder sync failed", "calendar_sync_failed", err,
				logging.String("title", title),
				logging.String(logging.FieldImpact, "no reminder for this release yet"))
			continue
		}
		if created {
			summary.RemindersCreated++
		}
	}
	return nil
}

func (r *Runner) ensureReminder(ctx context.Context, pageID, title string, release time.Time) (bool, error) {
	logger := logging.WithContext(ctx, r.logger)
	uid := calendar.UID(pageID)
	exists, err := r.calendar.EventExistsForUID(ctx, uid)
	if err != nil {
		return false, err
	}
	if exists {
		logger.Debug("reminder already exists", logging.String("title", title), logging.String("match", "uid"))
		return false, nil
	}
	day := calendar.ReminderDay(release)
	exists, err = r.calendar.EventExistsOnDay(ctx, title, day)
	if err != nil {
		return false, err
	}
	if exists {
		logger.Debug("reminder already exists", logging.String("title", title), logging.String("match", "title_day"))
		return false, nil
	}
	if err := r.calendar.CreateEvent(ctx, calendar.Summary(r.opts.SummaryPrefix, title), day, uid); err != nil {
		return false, err
	}
	logger.Info("reminder scheduled",
		logging.String("title", title),
		logging.String("day", day.Format("2006-01-02")),
	)
	return true, nil
}
