package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelsync/internal/config"
	"reelsync/internal/enrichment"
	"reelsync/internal/pending"
)

func newPendingCommand(ctx *commandContext) *cobra.Command {
	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "Review manual choices deferred by unattended runs",
	}
	pendingCmd.AddCommand(newPendingListCommand(ctx))
	pendingCmd.AddCommand(newPendingResolveCommand(ctx))
	pendingCmd.AddCommand(newPendingDropCommand(ctx))
	pendingCmd.AddCommand(newPendingHistoryCommand(ctx))
	return pendingCmd
}

func openPending(ctx *commandContext) (*pending.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return pending.Open(cfg)
}

func newPendingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List deferred choices",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := openPending(ctx)
			if err != nil {
				return err
			}
			defer queue.Close()

			decisions, err := queue.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(decisions) == 0 {
				fmt.Fprintln(out, "No pending decisions")
				return nil
			}
			rows := make([][]string, 0, len(decisions))
			for _, d := range decisions {
				rows = append(rows, []string{
					d.PageID,
					d.Title,
					d.Reason,
					strconv.Itoa(len(d.Candidates)),
					strconv.Itoa(d.Attempts),
					d.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Page", "Title", "Reason", "Candidates", "Attempts", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newPendingResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Answer each deferred choice interactively",
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

			queue, err := pending.Open(cfg)
			if err != nil {
				return err
			}
			defer queue.Close()

			runCtx, cancel := signalContext(cmd)
			defer cancel()

			opts := enrichment.OptionsFromConfig(cfg)
			opts.SkipCalendar = true
			setup, err := newRunnerSetup(runCtx, cfg, logger, nil, opts)
			if err != nil {
				return err
			}
			prompter := newTerminalPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), setup.provider)
			summary, err := setup.runner.ResolvePending(runCtx, queue, prompter)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Resolved %d, skipped %d, failed %d of %d pending\n",
				summary.Enriched, summary.Skipped, summary.Failed, summary.Entries)
			return nil
		},
	}
}

func newPendingDropCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <page-id>",
		Short: "Discard a deferred choice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := openPending(ctx)
			if err != nil {
				return err
			}
			defer queue.Close()

			pageID := strings.TrimSpace(args[0])
			if err := queue.Drop(cmd.Context(), pageID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped %s\n", pageID)
			return nil
		},
	}
}

func newPendingHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently resolved or dropped choices",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := openPending(ctx)
			if err != nil {
				return err
			}
			defer queue.Close()

			history, err := queue.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintln(out, "No history")
				return nil
			}
			rows := make([][]string, 0, len(history))
			for _, h := range history {
				tmdbID := ""
				if h.TMDBID > 0 {
					tmdbID = strconv.FormatInt(h.TMDBID, 10)
				}
				rows = append(rows, []string{
					h.ResolvedAt.Local().Format("2006-01-02 15:04"),
					h.Title,
					string(h.Outcome),
					tmdbID,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"When", "Title", "Outcome", "TMDB"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")
	return cmd
}
