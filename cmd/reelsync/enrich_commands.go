package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"reelsync/internal/config"
	"reelsync/internal/enrichment"
	"reelsync/internal/identification/tmdb"
	"reelsync/internal/notifications"
	"reelsync/internal/pending"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var deferChoices bool
	var skipBackfill bool
	var skipCalendar bool

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich new catalog entries from TMDB, backfill tags, and schedule reminders",
		Long: `Enrich every catalog entry that has no TMDB link yet.

Unambiguous matches are written directly. Ambiguous ones are asked on the
terminal, or stored in the pending queue with --defer (also the default when
stdin is not a terminal). Tag backfill and calendar reminders run afterwards
unless skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			opts := enrichment.OptionsFromConfig(cfg)
			opts.SkipBackfill = skipBackfill
			opts.SkipCalendar = opts.SkipCalendar || skipCalendar
			if err := cfg.ValidateFor(enrichFeatures(opts)...); err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			unlock, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer unlock()

			runCtx, cancel := signalContext(cmd)
			defer cancel()

			queue, err := pending.Open(cfg)
			if err != nil {
				return err
			}
			defer queue.Close()

			var chooser choosePrompter
			if deferChoices || !isInteractive(cmd.InOrStdin()) {
				chooser = deferredChooser(queue, cfg, logger)
			} else {
				chooser = terminalChooser(cmd)
			}

			setup, err := newRunnerSetup(runCtx, cfg, logger, chooser, opts)
			if err != nil {
				return err
			}
			summary, err := setup.runner.Run(runCtx)
			printSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}
	cmd.Flags().BoolVar(&deferChoices, "defer", false, "Store ambiguous matches in the pending queue instead of asking")
	cmd.Flags().BoolVar(&skipBackfill, "skip-backfill", false, "Skip the tag backfill pass")
	cmd.Flags().BoolVar(&skipCalendar, "skip-calendar", false, "Skip the calendar reminder pass")
	return cmd
}

func deferredChooser(queue *pending.Store, cfg *config.Config, logger *slog.Logger) choosePrompter {
	return func(*tmdb.Provider) enrichment.Prompter {
		return enrichment.NewDeferPrompter(queue, notifications.NewService(cfg), logger)
	}
}

func terminalChooser(cmd *cobra.Command) choosePrompter {
	return func(provider *tmdb.Provider) enrichment.Prompter {
		return newTerminalPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), provider)
	}
}

func newBackfillTagsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-tags",
		Short: "Add category tags to enriched entries that have none",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, ctx, func(r *enrichment.Runner, c *cobra.Command) (enrichment.Summary, error) {
				runCtx, cancel := signalContext(c)
				defer cancel()
				return r.BackfillTags(runCtx)
			}, true)
		},
	}
}

func newCalendarCommand(ctx *commandContext) *cobra.Command {
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Release reminder utilities",
	}
	calendarCmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Create reminders the day before each upcoming release",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, ctx, func(r *enrichment.Runner, c *cobra.Command) (enrichment.Summary, error) {
				runCtx, cancel := signalContext(c)
				defer cancel()
				return r.SyncCalendar(runCtx)
			}, false)
		},
	})
	return calendarCmd
}

// runPass wires a runner without a prompter and executes a single pass.
func runPass(cmd *cobra.Command, ctx *commandContext, pass func(*enrichment.Runner, *cobra.Command) (enrichment.Summary, error), skipCalendar bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	opts := enrichment.OptionsFromConfig(cfg)
	if skipCalendar {
		opts.SkipCalendar = true
	} else if !cfg.Calendar.Enabled {
		return fmt.Errorf("calendar reminders are disabled (set calendar.enabled = true)")
	}
	if err := cfg.ValidateFor(enrichFeatures(opts)...); err != nil {
		return err
	}
	logger, err := ctx.newLogger(cfg)
	if err != nil {
		return err
	}
	unlock, err := acquireRunLock(cfg)
	if err != nil {
		return err
	}
	defer unlock()

	setup, err := newRunnerSetup(cmd.Context(), cfg, logger, nil, opts)
	if err != nil {
		return err
	}
	summary, err := pass(setup.runner, cmd)
	printSummary(cmd.OutOrStdout(), summary)
	return err
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <page-id> <tmdb-or-imdb-reference>",
		Short: "Enrich one catalog page from an explicit TMDB or IMDb reference",
		Long: `Link a catalog page to a specific movie, bypassing search.

The reference may be a themoviedb.org/movie URL, an imdb.com/title URL, a
numeric TMDB id, or an IMDb tt id.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configFor(config.FeatureNotion, config.FeatureTMDB)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			unlock, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer unlock()

			opts := enrichment.OptionsFromConfig(cfg)
			opts.SkipCalendar = true
			runCtx, cancel := signalContext(cmd)
			defer cancel()
			setup, err := newRunnerSetup(runCtx, cfg, logger, nil, opts)
			if err != nil {
				return err
			}
			candidate, err := setup.runner.EnrichWithReference(runCtx, strings.TrimSpace(args[0]), args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to %s (%d), TMDB %d\n",
				args[0], candidate.Title, candidate.Year(), candidate.ID)
			return nil
		},
	}
}

func printSummary(out io.Writer, s enrichment.Summary) {
	if s.RunID == "" {
		return
	}
	rows := [][]string{
		{"Entries", fmt.Sprint(s.Entries)},
		{"Enriched", fmt.Sprint(s.Enriched)},
		{"Deferred", fmt.Sprint(s.Deferred)},
		{"Skipped", fmt.Sprint(s.Skipped)},
		{"Failed", fmt.Sprint(s.Failed)},
		{"Tags backfilled", fmt.Sprint(s.TagsBackfilled)},
		{"Reminders created", fmt.Sprint(s.RemindersCreated)},
		{"Duration", s.Duration.Round(1e6).String()},
	}
	fmt.Fprintln(out, renderTable([]string{"Run " + s.RunID, "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}
