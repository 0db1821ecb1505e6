package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"reelsync/internal/config"
	"reelsync/internal/enrichment"
	"reelsync/internal/library"
	"reelsync/internal/pending"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run unattended enrichment and NAS reconciliation together",
		Long: `Run the full enrichment (ambiguous matches are deferred to the pending
queue) while reconciling the NAS share, then print both reports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			opts := enrichment.OptionsFromConfig(cfg)
			if err := cfg.ValidateFor(append(enrichFeatures(opts), config.FeatureNAS)...); err != nil {
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

			setup, err := newRunnerSetup(runCtx, cfg, logger, deferredChooser(queue, cfg, logger), opts)
			if err != nil {
				return err
			}

			res := runSyncPasses(runCtx, setup.runner.Run, func(ctx context.Context) (library.Report, error) {
				return reconcileLibrary(ctx, setup.store, cfg)
			})

			out := cmd.OutOrStdout()
			printSummary(out, res.summary)
			if res.reconcileErr == nil {
				renderReport(out, res.report)
			} else {
				fmt.Fprintf(out, "Reconciliation failed: %v\n", res.reconcileErr)
			}
			return errors.Join(res.enrichErr, res.reconcileErr)
		},
	}
}

type syncResult struct {
	summary      enrichment.Summary
	enrichErr    error
	report       library.Report
	reconcileErr error
}

// runSyncPasses runs enrichment and reconciliation concurrently on ctx. A
// failure in one pass never cancels the other.
func runSyncPasses(
	ctx context.Context,
	enrich func(context.Context) (enrichment.Summary, error),
	reconcile func(context.Context) (library.Report, error),
) syncResult {
	var res syncResult
	var g errgroup.Group
	g.Go(func() error {
		res.summary, res.enrichErr = enrich(ctx)
		return res.enrichErr
	})
	g.Go(func() error {
		res.report, res.reconcileErr = reconcile(ctx)
		return res.reconcileErr
	})
	_ = g.Wait()
	return res
}
