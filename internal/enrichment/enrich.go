package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reelsync/internal/catalog"
	"reelsync/internal/identification"
	"reelsync/internal/logging"
	"reelsync/internal/services"
	"reelsync/internal/tagging"
)

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeEnriched
	outcomeDeferred
)

func (r *Runner) enrichAll(ctx context.Context, entries []catalog.Entry, summary *Summary) error {
	for _, entry := range entries {
		if !entry.NeedsEnrichment() {
			continue
		}
		if strings.TrimSpace(entry.Title) == "" {
			continue
		}
		result, err := r.enrichEntry(ctx, entry)
		if err != nil {
			if fatal(ctx, err) {
				return err
			}
			summary.Failed++
			r.warnEntry(services.WithPageID(ctx, entry.ID), "entry enrichment failed", "enrich_failed", err,
				logging.String("title", entry.Title))
			continue
		}
		switch result {
		case outcomeEnriched:
			summary.Enriched++
		case outcomeDeferred:
			summary.Deferred++
		default:
			summary.Skipped++
		}
	}
	return nil
}

func (r *Runner) enrichEntry(ctx context.Context, entry catalog.Entry) (outcome, error) {
	ctx = services.WithPageID(ctx, entry.ID)
	logger := logging.WithContext(ctx, r.logger)

	match, err := r.matcher.Match(ctx, entry)
	if errors.Is(err, identification.ErrEmptyTitle) {
		logging.WarnWithContext(logger, "title has nothing to search for", "enrich_empty_title",
			logging.String("title", entry.Title),
			logging.String(logging.FieldErrorHint, "rename the catalog entry"),
		)
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeSkipped, err
	}

	decision := match.Decision
	switch decision.Kind {
	case identification.DecisionAccepted:
		return outcomeEnriched, r.apply(ctx, entry, *decision.Accepted, match.ResultCount)
	case identification.DecisionNeedsExplicitIdentifier:
		logging.WarnWithContext(logger, "no tmdb results", "enrich_no_results",
			logging.String("title", entry.Title),
			logging.String("query", match.Query),
			logging.String(logging.FieldErrorHint, "run reelsync resolve "+entry.ID+" <tmdb-or-imdb-url>"),
		)
		return outcomeSkipped, nil
	}

	req := ChoiceRequest{
		Entry:       entry,
		Ranked:      decision.Ranked,
		Query:       match.Query,
		Year:        match.Year,
		ResultCount: match.ResultCount,
		Reason:      decision.Reason,
	}
	result, _, err := r.ask(ctx, r.prompter, req)
	return result, err
}

// ask runs a prompter and applies its answer. The applied candidate is
// returned when the entry was enriched.
func (r *Runner) ask(ctx context.Context, prompter Prompter, req ChoiceRequest) (outcome, *catalog.Candidate, error) {
	logger := logging.WithContext(ctx, r.logger)
	if prompter == nil {
		logging.WarnWithContext(logger, "manual choice needed but no prompter configured", "enrich_no_prompter",
			logging.String("title", req.Entry.Title),
			logging.String(logging.FieldErrorHint, "rerun interactively or with --defer"),
		)
		return outcomeSkipped, nil, nil
	}
	choice, err := prompter.Prompt(ctx, req)
	if err != nil {
		return outcomeSkipped, nil, fmt.Errorf("prompt for %q: %w", req.Entry.Title, err)
	}
	logger.Info("manual choice",
		logging.Args(append(logging.DecisionAttrs("manual_choice", choice.Kind.String(), req.Reason),
			logging.String("title", req.Entry.Title))...)...)

	switch choice.Kind {
	case ChoiceSelected:
		if choice.Index < 0 || choice.Index >= len(req.Ranked) {
			return outcomeSkipped, nil, services.Wrap(services.ErrValidation, "enrichment", "choice",
				fmt.Sprintf("index %d out of range", choice.Index), nil)
		}
		candidate := req.Ranked[choice.Index].Candidate
		if err := r.apply(ctx, req.Entry, candidate, req.ResultCount); err != nil {
			return outcomeSkipped, nil, err
		}
		return outcomeEnriched, &candidate, nil
	case ChoiceExplicit:
		candidate, err := r.resolver.ResolveExplicit(ctx, choice.Reference)
		if errors.Is(err, services.ErrConfiguration) {
			return outcomeSkipped, nil, err
		}
		if err != nil {
			logging.WarnWithContext(logger, "explicit reference rejected", "enrich_bad_reference",
				logging.String("reference", choice.Reference),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "use a themoviedb.org/movie/<id> or imdb.com/title/tt<id> url"),
			)
			return outcomeSkipped, nil, nil
		}
		if err := r.apply(ctx, req.Entry, *candidate, 0); err != nil {
			return outcomeSkipped, nil, err
		}
		return outcomeEnriched, candidate, nil
	case ChoiceDeferred:
		return outcomeDeferred, nil, nil
	default:
		logger.Info("skipped", logging.String("title", req.Entry.Title))
		return outcomeSkipped, nil, nil
	}
}

// EnrichWithReference enriches one page from an explicit TMDB or IMDb
// reference, bypassing search.
func (r *Runner) EnrichWithReference(ctx context.Context, pageID, reference string) (*catalog.Candidate, error) {
	ctx = services.WithPageID(ctx, pageID)
	entry, err := r.store.Entry(ctx, pageID)
	if err != nil {
		return nil, err
	}
	candidate, err := r.resolver.ResolveExplicit(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", reference, err)
	}
	if err := r.apply(ctx, entry, *candidate, 0); err != nil {
		return nil, err
	}
	return candidate, nil
}

// apply writes the candidate onto the entry. Existing tags are kept. The
// enriched flag is written last, once images and cover are in place, so an
// interrupted or partly failed entry is picked up again by the next run.
func (r *Runner) apply(ctx context.Context, entry catalog.Entry, c catalog.Candidate, resultCount int) error {
	logger := logging.WithContext(ctx, r.logger)

	details := r.provider.Details(ctx, c.ID)
	director := catalog.Director(r.provider.Credits(ctx, c.ID))
	if err := identification.ProviderErr(r.provider); err != nil {
		return err
	}
	release, hasRelease := c.ReleaseTime()
	year := 0
	if hasRelease {
		year = release.Year()
	}
	tags := tagging.Infer(details.Genres, year, &tagging.Metrics{
		VoteAverage: c.VoteAverage,
		VoteCount:   c.VoteCount,
		Popularity:  c.Popularity,
		ResultCount: resultCount,
	})

	title := strings.TrimSpace(c.Title)
	if title == "" {
		title = entry.Title
	}
	support := r.opts.SupportReleased
	if hasRelease && release.After(r.now()) {
		support = r.opts.SupportUpcoming
	}
	patch := catalog.Patch{
		Type:       stringPtr(r.opts.TypeLabel),
		Title:      &title,
		Synopsis:   stringPtr(c.Overview),
		Director:   &director,
		Status:     stringPtr(r.opts.DefaultStatus),
		Support:    &support,
		Categories: details.Genres,
	}
	if len(entry.Tags) == 0 && len(tags) > 0 {
		patch.Tags = tags
	}
	if hasRelease {
		patch.ReleaseDate = &release
	}
	if err := r.store.UpdateEntry(ctx, entry.ID, patch); err != nil {
		return err
	}

	complete := true
	if r.opts.AttachImages {
		if err := r.attachImages(ctx, entry.ID, c.PosterURL(), c.BackdropURL()); err != nil {
			if fatal(ctx, err) {
				return err
			}
			complete = false
			r.warnEntry(ctx, "image attach failed", "enrich_images_failed", err,
				logging.String(logging.FieldImpact, "page left unmarked; images retried next run"))
		}
	}
	if r.opts.SetCover {
		if err := r.setCover(ctx, entry.ID, c); err != nil {
			if fatal(ctx, err) {
				return err
			}
			complete = false
			r.warnEntry(ctx, "cover update failed", "enrich_cover_failed", err,
				logging.String(logging.FieldImpact, "page left unmarked; cover retried next run"))
		}
	}
	if complete {
		enriched := true
		if err := r.store.UpdateEntry(ctx, entry.ID, catalog.Patch{Enriched: &enriched}); err != nil {
			return err
		}
	}

	logger.Info("entry enriched",
		logging.String("title", entry.Title),
		logging.Int64("tmdb_id", c.ID),
		logging.String("tmdb_title", title),
		logging.Any("tags", []string(tags)),
		logging.String("support", support),
	)
	return nil
}

// attachImages inserts the poster after the first block and the backdrop after
// the poster. Each append is skipped when the page already shows that URL.
func (r *Runner) attachImages(ctx context.Context, pageID, posterURL, backdropURL string) error {
	if posterURL == "" && backdropURL == "" {
		return nil
	}
	first, err := r.store.FirstBlockID(ctx, pageID)
	if err != nil {
		return err
	}
	after := first
	if posterURL != "" {
		has, err := r.store.HasImage(ctx, pageID, posterURL)
		if err != nil {
			return err
		}
		if !has {
			id, err := r.store.AppendImage(ctx, pageID, posterURL, first)
			if err != nil {
				return err
			}
			if err := r.sleep(ctx, r.opts.WriteSettle); err != nil {
				return err
			}
			if id != "" {
				after = id
			}
		}
	}
	if backdropURL != "" {
		has, err := r.store.HasImage(ctx, pageID, backdropURL)
		if err != nil {
			return err
		}
		if !has {
			if _, err := r.store.AppendImage(ctx, pageID, backdropURL, after); err != nil {
				return err
			}
			if err := r.sleep(ctx, r.opts.WriteSettle); err != nil {
				return err
			}
		}
	}
	return nil
}

// setCover uses the backdrop, or the poster when there is none, and never
// replaces an existing cover.
func (r *Runner) setCover(ctx context.Context, pageID string, c catalog.Candidate) error {
	url := c.BackdropURL()
	if url == "" {
		url = c.PosterURL()
	}
	if url == "" {
		return nil
	}
	has, err := r.store.HasCover(ctx, pageID)
	if err != nil || has {
		return err
	}
	return r.store.SetCover(ctx, pageID, url)
}

func (r *Runner) warnEntry(ctx context.Context, msg, eventType string, err error, attrs ...logging.Attr) {
	logger := logging.WithContext(ctx, r.logger)
	attrs = append([]logging.Attr{
		logging.Error(err),
		logging.String(logging.FieldErrorHint, services.Hint(err)),
	}, attrs...)
	logging.WarnWithContext(logger, msg, eventType, attrs...)
}

func stringPtr(s string) *string {
	return &s
}
