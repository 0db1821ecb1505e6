package preflight

import (
	"context"
	"strings"

	"reelsync/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckConfig(cfg),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckNotionFromConfig(ctx, cfg),
		CheckTMDBFromConfig(ctx, cfg),
		CheckCalendarFromConfig(cfg),
	}

	if strings.TrimSpace(cfg.NAS.Root) != "" {
		results = append(results, CheckReadableDirectory("NAS root", cfg.NAS.Root))
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
