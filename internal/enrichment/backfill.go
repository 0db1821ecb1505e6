package enrichment

import (
	"context"
	"strings"

	"reelsync/internal/catalog"
	"reelsync/internal/logging"
	"reelsync/internal/services"
	"reelsync/internal/tagging"
)

// backfillTags writes category tags on enriched entries that have categories
// and no tags. Entries with tags are never touched.
func (r *Runner) backfillTags(ctx context.Context, entries []catalog.Entry, summary *Summary) error {
	for _, entry := range entries {
		if !entry.NeedsTagBackfill() || strings.TrimSpace(entry.Title) == "" {
			continue
		}
		tags := tagging.Infer(entry.Categories, entry.ReleaseYear(), nil)
		if len(tags) == 0 {
			continue
		}
		entryCtx := services.WithPageID(ctx, entry.ID)
		if err := r.store.UpdateEntry(entryCtx, entry.ID, catalog.Patch{Tags: tags}); err != nil {
			if fatal(ctx, err) {
				return err
			}
			summary.Failed++
			r.warnEntry(entryCtx, "tag backfill failed", "backfill_failed", err, logging.String("title", entry.Title))
			continue
		}
		summary.TagsBackfilled++
		logging.WithContext(entryCtx, r.logger).Info("tags backfilled",
			logging.String("title", entry.Title),
			logging.Any("tags", []string(tags)),
		)
	}
	return nil
}
