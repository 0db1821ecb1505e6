package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reelsync/internal/config"
)

// featureChecks lists what each credential group unlocks, in report order.
var featureChecks = []struct {
	feature config.Feature
	unlocks string
}{
	{config.FeatureNotion, "every catalog command"},
	{config.FeatureTMDB, "sync, enrich, identify"},
	{config.FeatureNAS, "reconcile, serve"},
	{config.FeatureServer, "serve"},
	{config.FeatureCalendar, "watch reminders"},
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the reelsync configuration",
	}
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample config with Notion, TMDB and NAS placeholders",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := sampleConfigTarget(targetPath)
			if err != nil {
				return err
			}
			if err := refuseExisting(target, overwrite); err != nil {
				return err
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set notion.token, notion.database_id, and tmdb.api_key (or NOTION_TOKEN, DATABASE_ID, TMDB_API_KEY in .env) before running reelsync.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the sample config (default: ~/.config/reelsync/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing config file")
	return cmd
}

func sampleConfigTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

func refuseExisting(target string, overwrite bool) error {
	if overwrite {
		return nil
	}
	_, err := os.Stat(target)
	switch {
	case err == nil:
		return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("check config path: %w", err)
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the config and report which features have credentials",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			writeFeatureReport(out, cfg)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// writeFeatureReport prints one row per credential group. Missing
// credentials are reported, not fatal: each command checks its own.
func writeFeatureReport(out io.Writer, cfg *config.Config) {
	rows := make([][]string, 0, len(featureChecks))
	var problems []string
	for _, check := range featureChecks {
		status := "ready"
		switch {
		case check.feature == config.FeatureCalendar && !cfg.Calendar.Enabled:
			status = "disabled"
		default:
			if err := cfg.ValidateFor(check.feature); err != nil {
				status = "missing"
				problems = append(problems, fmt.Sprintf("%s: %v", check.feature, err))
			}
		}
		rows = append(rows, []string{string(check.feature), status, check.unlocks})
	}
	fmt.Fprintln(out, renderTable([]string{"Feature", "Status", "Needed by"}, rows, nil))
	for _, problem := range problems {
		fmt.Fprintf(out, "  %s\n", problem)
	}
}
