package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelsync/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credentials, and paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			runCtx, cancel := signalContext(cmd)
			defer cancel()

			results := preflight.RunAll(runCtx, cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "✅ ok"
				if !r.Passed {
					status = "❌ fail"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
			if failed := preflight.Failed(results); failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}
}
