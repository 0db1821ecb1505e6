package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"reelsync/internal/catalog"
	"reelsync/internal/config"
	"reelsync/internal/library"
	"reelsync/internal/notion"
)

type entryLister interface {
	ListEntries(ctx context.Context) ([]catalog.Entry, error)
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare the catalog against the movie files on the NAS",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configFor(config.FeatureNotion, config.FeatureNAS)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			store, err := notion.NewStoreFromConfig(cfg, logger)
			if err != nil {
				return err
			}
			runCtx, cancel := signalContext(cmd)
			defer cancel()

			report := func(ctx context.Context) error {
				r, err := reconcileLibrary(ctx, store, cfg)
				if err != nil {
					return err
				}
				return writeReport(cmd, r, asJSON)
			}
			if err := report(runCtx); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			if !asJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (Ctrl+C to stop)\n", cfg.NAS.Root)
			}
			return library.Watch(runCtx, cfg.NAS.Root, library.WatchOptions{
				Extensions: cfg.NAS.Extensions,
				Logger:     logger,
			}, report)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run whenever files on the share change")
	return cmd
}

func reconcileLibrary(ctx context.Context, store entryLister, cfg *config.Config) (library.Report, error) {
	files, err := library.Scan(ctx, cfg.NAS.Root, cfg.NAS.Extensions)
	if err != nil {
		return library.Report{}, err
	}
	entries, err := store.ListEntries(ctx)
	if err != nil {
		return library.Report{}, err
	}
	return library.Reconcile(entries, files, library.LayoutFromConfig(cfg.NAS)), nil
}

func writeReport(cmd *cobra.Command, report library.Report, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, report)
	}
	renderReport(cmd.OutOrStdout(), report)
	return nil
}

func renderReport(out io.Writer, report library.Report) {
	if len(report.Rows) == 0 {
		fmt.Fprintln(out, "Catalog is empty")
		return
	}
	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		status := "❌ missing"
		if row.Found {
			status = "✅ found"
		}
		rows = append(rows, []string{row.Display, status, row.Linux, row.SMB})
	}
	fmt.Fprintln(out, renderTable([]string{"Title", "Status", "Linux path", "SMB URL"}, rows, nil))
	fmt.Fprintf(out, "Files scanned: %d · Found: %d · Missing: %d\n", report.Files, report.Found, report.Missing)
}
